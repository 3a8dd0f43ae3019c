package inkwell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundScore(t *testing.T) {
	tts := map[float64]float64{
		0:          0,
		7:          7,
		7.04:       7,
		7.26:       7.3,
		7.666666:   7.7,
		23.0 / 3.0: 7.7,
		9.99:       10,
	}

	for in, want := range tts {
		assert.Equal(t, want, RoundScore(in), "RoundScore(%v)", in)
	}
}

func TestDataset_RecomputeScores(t *testing.T) {
	dataset := Dataset{
		Samples: []Sample{
			{ID: "s1", Score: 9.9},
			{ID: "s2", Score: 3},
		},
		Works: []Work{
			{ID: "w1", Score: 1},
		},
		Ratings: []Rating{
			{UserID: "a", TargetID: "s1", TargetType: TargetSample, Score: 8},
			{UserID: "b", TargetID: "s1", TargetType: TargetSample, Score: 6},
			{UserID: "a", TargetID: "w1", TargetType: TargetWork, Score: 10},
			// A rating on an id that is also a sample id, but as a work:
			// it must not leak into the sample's score.
			{UserID: "a", TargetID: "s2", TargetType: TargetWork, Score: 1},
		},
	}

	dataset.RecomputeScores()

	assert.Equal(t, 7.0, dataset.Samples[0].Score)
	assert.Equal(t, 3.0, dataset.Samples[1].Score, "unrated targets keep their cached score")
	assert.Equal(t, 10.0, dataset.Works[0].Score)
}

func TestDataset_MigrateLegacyScores(t *testing.T) {
	dataset := Dataset{
		SchemaVersion: 1,
		Samples: []Sample{
			{ID: "s1", Score: 85}, // legacy 100-point score
			{ID: "s2", Score: 7},  // already on the new scale
		},
		Works: []Work{
			{ID: "w1", Score: 90},
		},
		Ratings: []Rating{
			{UserID: "a", TargetID: "s1", TargetType: TargetSample, Score: 85},
			{UserID: "b", TargetID: "s1", TargetType: TargetSample, Score: 9},
		},
	}

	assert.True(t, dataset.MigrateLegacyScores())
	assert.Equal(t, SchemaVersion, dataset.SchemaVersion)
	assert.Equal(t, 8.5, dataset.Samples[0].Score)
	assert.Equal(t, 7.0, dataset.Samples[1].Score)
	assert.Equal(t, 9.0, dataset.Works[0].Score)
	assert.Equal(t, 8.5, dataset.Ratings[0].Score)
	assert.Equal(t, 9.0, dataset.Ratings[1].Score)

	// The migration is one-shot: a legitimate future score above 10 on
	// a current-version dataset is never rescaled.
	dataset.Samples[0].Score = 42
	assert.False(t, dataset.MigrateLegacyScores())
	assert.Equal(t, 42.0, dataset.Samples[0].Score)
}

func TestSettingsPatch_Apply(t *testing.T) {
	theme := "dark"
	size := 80

	settings := SettingsPatch{Theme: &theme, GridSize: &size}.Apply(DefaultSettings())

	assert.Equal(t, "dark", settings.Theme)
	assert.Equal(t, 80, settings.GridSize)
	assert.Equal(t, GridMi, settings.GridType)
	assert.True(t, settings.AutoRecognize)
}
