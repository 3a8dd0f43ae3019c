package services

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/bobinette/inkwell"
	"github.com/bobinette/inkwell/charset"
	"github.com/bobinette/inkwell/errors"
	"github.com/bobinette/inkwell/replica"
	"github.com/bobinette/inkwell/syncer"
)

type SampleService struct {
	store  *replica.Store
	engine *syncer.Engine
}

func NewSampleService(store *replica.Store, engine *syncer.Engine) *SampleService {
	return &SampleService{
		store:  store,
		engine: engine,
	}
}

// Save creates or updates a sample. The character check runs before
// any store mutation: a rejected sample leaves the collection
// untouched.
func (s *SampleService) Save(session Session, sample inkwell.Sample) (inkwell.Sample, error) {
	if session.IsGuest() {
		return inkwell.Sample{}, errors.New("permission denied", errors.Forbidden())
	}

	if !charset.Allowed(sample.Char) {
		return inkwell.Sample{}, errors.New(
			fmt.Sprintf("character %q is not in the writing set", sample.Char),
			errors.BadRequest(),
		)
	}

	existing, exists := s.store.Sample(sample.ID)
	if exists {
		if !s.canMutateSample(session, existing) {
			return inkwell.Sample{}, errors.New("permission denied", errors.Forbidden())
		}
		sample.UserID = existing.UserID
		sample.CreatedAt = existing.CreatedAt
	} else {
		if session.IsAdmin() {
			// Admins moderate, they do not contribute samples.
			return inkwell.Sample{}, errors.New("admins cannot create samples", errors.Forbidden())
		}
		if sample.ID == "" {
			sample.ID = uuid.NewString()
		}
		sample.UserID = session.UserID()
		if sample.CreatedAt == 0 {
			sample.CreatedAt = inkwell.Now()
		}
	}

	snapshot := s.store.SamplesForUser(sample.UserID)
	s.store.UpsertSample(sample)
	s.engine.PushSamples(sample.UserID, snapshot)

	return sample, nil
}

func (s *SampleService) Delete(session Session, id string) error {
	sample, ok := s.store.Sample(id)
	if !ok {
		return errors.New(fmt.Sprintf("<Sample %s> not found", id), errors.NotFound())
	}

	if !s.canMutateSample(session, sample) {
		return errors.New("permission denied", errors.Forbidden())
	}

	snapshot := s.store.SamplesForUser(sample.UserID)
	s.store.DeleteSample(id)
	s.engine.PushSamples(sample.UserID, snapshot)

	return nil
}

func (s *SampleService) Get(session Session, id string) (inkwell.Sample, error) {
	sample, ok := s.store.Sample(id)
	if !ok || !s.visible(session, sample) {
		return inkwell.Sample{}, errors.New(fmt.Sprintf("<Sample %s> not found", id), errors.NotFound())
	}
	return sample, nil
}

// List returns every sample visible to the session.
func (s *SampleService) List(session Session) []inkwell.Sample {
	samples := make([]inkwell.Sample, 0)
	for _, sample := range s.store.Samples() {
		if s.visible(session, sample) {
			samples = append(samples, sample)
		}
	}
	return samples
}

// ListByChar returns the visible samples for one character, newest
// first.
func (s *SampleService) ListByChar(session Session, char string) []inkwell.Sample {
	samples := make([]inkwell.Sample, 0)
	for _, sample := range s.List(session) {
		if sample.Char == char {
			samples = append(samples, sample)
		}
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].CreatedAt > samples[j].CreatedAt
	})
	return samples
}

// CollectedChars returns the distinct characters for which the session
// can see at least one sample.
func (s *SampleService) CollectedChars(session Session) []string {
	seen := make(map[string]struct{})
	chars := make([]string, 0)
	for _, sample := range s.List(session) {
		if _, ok := seen[sample.Char]; ok {
			continue
		}
		seen[sample.Char] = struct{}{}
		chars = append(chars, sample.Char)
	}
	return chars
}

// CollectedSampleMap returns, for every collected character, the most
// recently created visible sample.
func (s *SampleService) CollectedSampleMap(session Session) map[string]inkwell.Sample {
	m := make(map[string]inkwell.Sample)
	for _, sample := range s.List(session) {
		if current, ok := m[sample.Char]; !ok || sample.CreatedAt > current.CreatedAt {
			m[sample.Char] = sample
		}
	}
	return m
}

// visible resolves sample read-visibility in priority order: owner
// first, then admin-owned samples (always public), then refined
// samples of users with a public collection.
func (s *SampleService) visible(session Session, sample inkwell.Sample) bool {
	if session.UserID() == sample.UserID {
		return true
	}

	owner, ok := s.store.User(sample.UserID)
	if !ok {
		return false
	}

	switch {
	case owner.IsAdmin():
		return true
	case owner.Role == inkwell.RoleUser &&
		owner.CollectionVisibility == inkwell.VisibilityPublic &&
		sample.IsRefined:
		return true
	}
	return false
}

// canMutateSample: owners edit their own samples; an admin may only
// touch samples that are already publicly visible.
func (s *SampleService) canMutateSample(session Session, sample inkwell.Sample) bool {
	if sample.UserID == session.UserID() {
		return true
	}
	if session.IsAdmin() {
		return s.visible(session, sample)
	}
	return false
}
