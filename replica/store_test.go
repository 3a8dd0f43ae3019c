package replica

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobinette/inkwell"
)

func TestStore_DeepCopies(t *testing.T) {
	store := New()

	work := inkwell.Work{
		ID:         "w1",
		UserID:     "u1",
		Title:      "春晓",
		CharStyles: map[int]string{0: "s1"},
		CharAdjustments: map[int]inkwell.CharAdjustment{
			0: {OffsetX: 1, OffsetY: 2},
		},
	}
	store.UpsertWork(work)

	// Mutating what was written never reaches the store.
	work.CharStyles[0] = "tampered"

	got, ok := store.Work("w1")
	require.True(t, ok)
	assert.Equal(t, "s1", got.CharStyles[0])

	// Mutating what was read never reaches the store either.
	got.CharStyles[0] = "tampered"
	again, _ := store.Work("w1")
	assert.Equal(t, "s1", again.CharStyles[0])

	sample := inkwell.Sample{ID: "s1", UserID: "u1", Char: "永", Tags: []string{"regular"}}
	store.UpsertSample(sample)
	sample.Tags[0] = "tampered"
	gotSample, _ := store.Sample("s1")
	assert.Equal(t, "regular", gotSample.Tags[0])
}

func TestStore_Upsert(t *testing.T) {
	store := New()

	store.UpsertSample(inkwell.Sample{ID: "s1", Char: "永", Rating: 3})
	store.UpsertSample(inkwell.Sample{ID: "s1", Char: "永", Rating: 5})
	store.UpsertSample(inkwell.Sample{ID: "s2", Char: "汉"})

	require.Len(t, store.Samples(), 2)
	sample, ok := store.Sample("s1")
	require.True(t, ok)
	assert.Equal(t, 5, sample.Rating)

	store.DeleteSample("s1")
	assert.Len(t, store.Samples(), 1)
	_, ok = store.Sample("s1")
	assert.False(t, ok)

	// Deleting a missing id is a no-op.
	store.DeleteSample("s1")
	assert.Len(t, store.Samples(), 1)
}

func TestStore_UpsertRatingKey(t *testing.T) {
	store := New()

	store.UpsertRating(inkwell.Rating{UserID: "u1", TargetID: "s1", TargetType: inkwell.TargetSample, Score: 8})
	store.UpsertRating(inkwell.Rating{UserID: "u1", TargetID: "s1", TargetType: inkwell.TargetSample, Score: 6})
	store.UpsertRating(inkwell.Rating{UserID: "u2", TargetID: "s1", TargetType: inkwell.TargetSample, Score: 4})
	store.UpsertRating(inkwell.Rating{UserID: "u1", TargetID: "s1", TargetType: inkwell.TargetWork, Score: 2})

	assert.Len(t, store.Ratings(), 3, "same user and target replaces, same id as a work does not")

	rating, ok := store.Rating("u1", "s1", inkwell.TargetSample)
	require.True(t, ok)
	assert.Equal(t, 6.0, rating.Score)

	assert.Len(t, store.RatingsForTarget("s1", inkwell.TargetSample), 2)
}

func TestStore_RestoreIsScopedToOneUser(t *testing.T) {
	store := New()

	store.UpsertSample(inkwell.Sample{ID: "s1", UserID: "u1", Char: "永"})
	store.UpsertSample(inkwell.Sample{ID: "s2", UserID: "u2", Char: "汉"})

	snapshot := store.SamplesForUser("u1")

	store.UpsertSample(inkwell.Sample{ID: "s3", UserID: "u1", Char: "字"})
	store.UpsertSample(inkwell.Sample{ID: "s4", UserID: "u2", Char: "书"})

	store.RestoreSamples("u1", snapshot)

	assert.ElementsMatch(t, []string{"s1"}, sampleIDs(store.SamplesForUser("u1")))
	assert.ElementsMatch(t, []string{"s2", "s4"}, sampleIDs(store.SamplesForUser("u2")), "other users keep later writes")
}

func TestStore_ReplaceAndDataset(t *testing.T) {
	store := New()
	store.UpsertSample(inkwell.Sample{ID: "old", UserID: "u1", Char: "永"})

	settings := inkwell.DefaultSettings()
	store.Replace(inkwell.Dataset{
		SchemaVersion: inkwell.SchemaVersion,
		Users:         []inkwell.User{{ID: "u1", Username: "alice"}},
		Samples:       []inkwell.Sample{{ID: "s1", UserID: "u1", Char: "永"}},
		Works:         []inkwell.Work{{ID: "w1", UserID: "u1", Title: "春晓"}},
		Ratings:       []inkwell.Rating{{UserID: "u1", TargetID: "s1", TargetType: inkwell.TargetSample, Score: 8}},
		Settings:      &settings,
	})

	_, ok := store.Sample("old")
	assert.False(t, ok, "replace drops previous state")

	dataset := store.Dataset()
	assert.Equal(t, inkwell.SchemaVersion, dataset.SchemaVersion)
	assert.Len(t, dataset.Users, 1)
	assert.Len(t, dataset.Samples, 1)
	assert.Len(t, dataset.Works, 1)
	assert.Len(t, dataset.Ratings, 1)
	require.NotNil(t, dataset.Settings)
	assert.Equal(t, settings, *dataset.Settings)

	// The returned dataset is detached from the store.
	dataset.Users[0].Username = "tampered"
	user, _ := store.User("u1")
	assert.Equal(t, "alice", user.Username)
}

func TestStore_Settings(t *testing.T) {
	store := New()

	_, ok := store.Settings()
	assert.False(t, ok)
	assert.Nil(t, store.SettingsSnapshot())

	store.SetSettings(inkwell.Settings{Theme: "dark"})
	settings, ok := store.Settings()
	require.True(t, ok)
	assert.Equal(t, "dark", settings.Theme)

	snapshot := store.SettingsSnapshot()
	store.SetSettings(inkwell.Settings{Theme: "light"})
	store.RestoreSettings(snapshot)
	settings, _ = store.Settings()
	assert.Equal(t, "dark", settings.Theme)

	store.RestoreSettings(nil)
	_, ok = store.Settings()
	assert.False(t, ok, "restore to the unset state")
}

func sampleIDs(samples []inkwell.Sample) []string {
	ids := make([]string, len(samples))
	for i, s := range samples {
		ids[i] = s.ID
	}
	return ids
}
