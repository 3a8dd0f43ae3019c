package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobinette/inkwell"
	"github.com/bobinette/inkwell/errors"
)

func TestSampleService_Save(t *testing.T) {
	env := newEnv()
	service := NewSampleService(env.store, env.engine)

	owner := env.addUser("u1", inkwell.RoleUser, inkwell.VisibilityPrivate)
	admin := env.addUser("a1", inkwell.RoleAdmin, inkwell.VisibilityPublic)

	// Guests cannot contribute.
	_, err := service.Save(Guest(), inkwell.Sample{Char: "永"})
	if assert.Error(t, err, "guest save should fail") {
		errors.AssertCode(t, err, 403)
	}

	// A character outside the writing set is a validation error and
	// must leave the collection unchanged.
	_, err = service.Save(owner, inkwell.Sample{Char: "a"})
	if assert.Error(t, err, "disallowed character should fail") {
		errors.AssertCode(t, err, 400)
	}
	assert.Empty(t, env.store.Samples(), "no partial insert")

	// Admins moderate, they do not contribute.
	_, err = service.Save(admin, inkwell.Sample{Char: "永"})
	if assert.Error(t, err, "admin create should fail") {
		errors.AssertCode(t, err, 403)
	}

	// A valid save mints an id and stamps the owner.
	saved, err := service.Save(owner, inkwell.Sample{Char: "永", Rating: 4})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "u1", saved.UserID)
	assert.NotZero(t, saved.CreatedAt)

	// Updating keeps owner and creation time.
	saved.Rating = 5
	saved.IsRefined = true
	updated, err := service.Save(owner, saved)
	require.NoError(t, err)
	assert.Equal(t, saved.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "u1", updated.UserID)

	// Another user cannot touch it.
	other := env.addUser("u2", inkwell.RoleUser, inkwell.VisibilityPrivate)
	_, err = service.Save(other, updated)
	if assert.Error(t, err, "non-owner update should fail") {
		errors.AssertCode(t, err, 403)
	}

	env.engine.Wait()
	assert.Len(t, env.persistence.sampleWrites["u1"], 1, "samples pushed for owner")
}

func TestSampleService_Visibility(t *testing.T) {
	env := newEnv()
	service := NewSampleService(env.store, env.engine)

	owner := env.addUser("open", inkwell.RoleUser, inkwell.VisibilityPublic)
	closed := env.addUser("closed", inkwell.RoleUser, inkwell.VisibilityPrivate)
	viewer := env.addUser("viewer", inkwell.RoleUser, inkwell.VisibilityPrivate)
	admin := env.addUser("a1", inkwell.RoleAdmin, inkwell.VisibilityPublic)
	_ = admin

	env.store.UpsertSample(inkwell.Sample{ID: "s-refined", UserID: "open", Char: "永", IsRefined: true, CreatedAt: 1})
	env.store.UpsertSample(inkwell.Sample{ID: "s-raw", UserID: "open", Char: "永", CreatedAt: 2})
	env.store.UpsertSample(inkwell.Sample{ID: "s-closed", UserID: "closed", Char: "永", IsRefined: true, CreatedAt: 3})
	env.store.UpsertSample(inkwell.Sample{ID: "s-admin", UserID: "a1", Char: "永", CreatedAt: 4})

	ids := func(samples []inkwell.Sample) []string {
		out := make([]string, len(samples))
		for i, s := range samples {
			out[i] = s.ID
		}
		return out
	}

	// The viewer sees refined samples of public collections and
	// admin-owned samples, nothing else.
	assert.ElementsMatch(t, []string{"s-refined", "s-admin"}, ids(service.List(viewer)))

	// Owners always see their own.
	assert.ElementsMatch(t, []string{"s-refined", "s-raw", "s-admin"}, ids(service.List(owner)))
	assert.ElementsMatch(t, []string{"s-closed", "s-admin"}, ids(service.List(closed)))

	// Guests see only what is publicly visible.
	assert.ElementsMatch(t, []string{"s-refined", "s-admin"}, ids(service.List(Guest())))

	// ListByChar is newest first.
	byChar := service.ListByChar(viewer, "永")
	require.Len(t, byChar, 2)
	assert.Equal(t, "s-admin", byChar[0].ID)

	assert.ElementsMatch(t, []string{"永"}, service.CollectedChars(viewer))

	// The collected map keeps the newest visible sample per char.
	m := service.CollectedSampleMap(viewer)
	require.Contains(t, m, "永")
	assert.Equal(t, "s-admin", m["永"].ID)

	// Get treats an invisible sample as not found.
	_, err := service.Get(viewer, "s-closed")
	if assert.Error(t, err) {
		errors.AssertCode(t, err, 404)
	}
}

func TestSampleService_Delete(t *testing.T) {
	env := newEnv()
	service := NewSampleService(env.store, env.engine)

	owner := env.addUser("u1", inkwell.RoleUser, inkwell.VisibilityPrivate)
	other := env.addUser("u2", inkwell.RoleUser, inkwell.VisibilityPrivate)

	saved, err := service.Save(owner, inkwell.Sample{Char: "永"})
	require.NoError(t, err)

	err = service.Delete(other, saved.ID)
	if assert.Error(t, err, "non-owner delete should fail") {
		errors.AssertCode(t, err, 403)
	}

	err = service.Delete(owner, "unknown")
	if assert.Error(t, err) {
		errors.AssertCode(t, err, 404)
	}

	require.NoError(t, service.Delete(owner, saved.ID))
	assert.Empty(t, env.store.SamplesForUser("u1"))
}

func TestSampleService_PushFailureRollsBackChannel(t *testing.T) {
	env := newEnv()
	service := NewSampleService(env.store, env.engine)

	owner := env.addUser("u1", inkwell.RoleUser, inkwell.VisibilityPrivate)

	// One committed sample and one rating that must survive untouched.
	first, err := service.Save(owner, inkwell.Sample{Char: "永"})
	require.NoError(t, err)
	env.engine.Wait()

	env.store.UpsertRating(inkwell.Rating{UserID: "u1", TargetID: first.ID, TargetType: inkwell.TargetSample, Score: 8})
	before := env.store.SamplesForUser("u1")
	ratingsBefore := env.store.Ratings()

	// The next push fails: the call itself still succeeds, the channel
	// is rolled back in the background.
	env.persistence.fail("samples:u1")
	_, err = service.Save(owner, inkwell.Sample{Char: "汉"})
	require.NoError(t, err, "optimistic save returns before the push resolves")

	env.engine.Wait()

	assert.Equal(t, before, env.store.SamplesForUser("u1"), "sample channel restored to pre-call contents")
	assert.Equal(t, ratingsBefore, env.store.Ratings(), "unrelated channels untouched")
	assert.Equal(t, []string{"samples:u1"}, env.notices.channels(), "failure surfaced as a notice")
}
