// Package replica holds the client-side copy of every entity. It is a
// plain in-memory store: callers are responsible for invariants, the
// store never rejects a well-typed write.
package replica

import (
	"sync"

	"github.com/bobinette/inkwell"
)

type Store struct {
	mu sync.RWMutex

	schemaVersion int
	users         []inkwell.User
	samples       []inkwell.Sample
	works         []inkwell.Work
	ratings       []inkwell.Rating
	settings      *inkwell.Settings
}

func New() *Store {
	return &Store{
		users:   make([]inkwell.User, 0),
		samples: make([]inkwell.Sample, 0),
		works:   make([]inkwell.Work, 0),
		ratings: make([]inkwell.Rating, 0),
	}
}

// Replace swaps the full content of the store for the given dataset.
// Used by the sync engine when a bulk load completes: remote wins.
func (s *Store) Replace(dataset inkwell.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.schemaVersion = dataset.SchemaVersion
	s.users = make([]inkwell.User, len(dataset.Users))
	for i, u := range dataset.Users {
		s.users[i] = u.Clone()
	}
	s.samples = inkwell.CloneSamples(dataset.Samples)
	if s.samples == nil {
		s.samples = make([]inkwell.Sample, 0)
	}
	s.works = inkwell.CloneWorks(dataset.Works)
	if s.works == nil {
		s.works = make([]inkwell.Work, 0)
	}
	s.ratings = make([]inkwell.Rating, len(dataset.Ratings))
	copy(s.ratings, dataset.Ratings)
	if dataset.Settings != nil {
		settings := *dataset.Settings
		s.settings = &settings
	} else {
		s.settings = nil
	}
}

// Dataset returns a deep copy of everything in the store.
func (s *Store) Dataset() inkwell.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dataset := inkwell.Dataset{
		SchemaVersion: s.schemaVersion,
		Users:         make([]inkwell.User, len(s.users)),
		Samples:       inkwell.CloneSamples(s.samples),
		Works:         inkwell.CloneWorks(s.works),
		Ratings:       make([]inkwell.Rating, len(s.ratings)),
	}
	for i, u := range s.users {
		dataset.Users[i] = u.Clone()
	}
	copy(dataset.Ratings, s.ratings)
	if s.settings != nil {
		settings := *s.settings
		dataset.Settings = &settings
	}
	return dataset
}

// ---------------------------------------------------------------- users

func (s *Store) User(id string) (inkwell.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.ID == id {
			return user.Clone(), true
		}
	}
	return inkwell.User{}, false
}

func (s *Store) UserByName(username string) (inkwell.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			return user.Clone(), true
		}
	}
	return inkwell.User{}, false
}

func (s *Store) Users() []inkwell.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]inkwell.User, len(s.users))
	for i, user := range s.users {
		users[i] = user.Clone()
	}
	return users
}

func (s *Store) UpsertUser(user inkwell.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, u := range s.users {
		if u.ID == user.ID {
			s.users[i] = user.Clone()
			return
		}
	}
	s.users = append(s.users, user.Clone())
}

// -------------------------------------------------------------- samples

func (s *Store) Sample(id string) (inkwell.Sample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sample := range s.samples {
		if sample.ID == id {
			return sample.Clone(), true
		}
	}
	return inkwell.Sample{}, false
}

func (s *Store) Samples() []inkwell.Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return inkwell.CloneSamples(s.samples)
}

func (s *Store) SamplesForUser(userID string) []inkwell.Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()

	samples := make([]inkwell.Sample, 0)
	for _, sample := range s.samples {
		if sample.UserID == userID {
			samples = append(samples, sample.Clone())
		}
	}
	return samples
}

func (s *Store) UpsertSample(sample inkwell.Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sp := range s.samples {
		if sp.ID == sample.ID {
			s.samples[i] = sample.Clone()
			return
		}
	}
	s.samples = append(s.samples, sample.Clone())
}

func (s *Store) DeleteSample(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sample := range s.samples {
		if sample.ID == id {
			s.samples = append(s.samples[:i], s.samples[i+1:]...)
			return
		}
	}
}

// RestoreSamples resets one user's sample channel to a snapshot,
// leaving every other user's samples untouched.
func (s *Store) RestoreSamples(userID string, snapshot []inkwell.Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]inkwell.Sample, 0, len(s.samples))
	for _, sample := range s.samples {
		if sample.UserID != userID {
			kept = append(kept, sample)
		}
	}
	for _, sample := range snapshot {
		kept = append(kept, sample.Clone())
	}
	s.samples = kept
}

// ---------------------------------------------------------------- works

func (s *Store) Work(id string) (inkwell.Work, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, work := range s.works {
		if work.ID == id {
			return work.Clone(), true
		}
	}
	return inkwell.Work{}, false
}

func (s *Store) Works() []inkwell.Work {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return inkwell.CloneWorks(s.works)
}

func (s *Store) WorksForUser(userID string) []inkwell.Work {
	s.mu.RLock()
	defer s.mu.RUnlock()

	works := make([]inkwell.Work, 0)
	for _, work := range s.works {
		if work.UserID == userID {
			works = append(works, work.Clone())
		}
	}
	return works
}

func (s *Store) UpsertWork(work inkwell.Work) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, w := range s.works {
		if w.ID == work.ID {
			s.works[i] = work.Clone()
			return
		}
	}
	s.works = append(s.works, work.Clone())
}

func (s *Store) DeleteWork(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, work := range s.works {
		if work.ID == id {
			s.works = append(s.works[:i], s.works[i+1:]...)
			return
		}
	}
}

// RestoreWorks resets one user's work channel to a snapshot.
func (s *Store) RestoreWorks(userID string, snapshot []inkwell.Work) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]inkwell.Work, 0, len(s.works))
	for _, work := range s.works {
		if work.UserID != userID {
			kept = append(kept, work)
		}
	}
	for _, work := range snapshot {
		kept = append(kept, work.Clone())
	}
	s.works = kept
}

// -------------------------------------------------------------- ratings

func (s *Store) Ratings() []inkwell.Rating {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ratings := make([]inkwell.Rating, len(s.ratings))
	copy(ratings, s.ratings)
	return ratings
}

func (s *Store) RatingsForTarget(targetID string, targetType inkwell.TargetType) []inkwell.Rating {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ratings := make([]inkwell.Rating, 0)
	for _, rating := range s.ratings {
		if rating.TargetID == targetID && rating.TargetType == targetType {
			ratings = append(ratings, rating)
		}
	}
	return ratings
}

func (s *Store) Rating(userID, targetID string, targetType inkwell.TargetType) (inkwell.Rating, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rating := range s.ratings {
		if rating.UserID == userID && rating.TargetID == targetID && rating.TargetType == targetType {
			return rating, true
		}
	}
	return inkwell.Rating{}, false
}

// UpsertRating replaces the rating with the same (user, target, type)
// key, or appends it. At most one row per key.
func (s *Store) UpsertRating(rating inkwell.Rating) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.ratings {
		if r.UserID == rating.UserID && r.TargetID == rating.TargetID && r.TargetType == rating.TargetType {
			s.ratings[i] = rating
			return
		}
	}
	s.ratings = append(s.ratings, rating)
}

func (s *Store) RestoreRatings(snapshot []inkwell.Rating) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ratings = make([]inkwell.Rating, len(snapshot))
	copy(s.ratings, snapshot)
}

// RestoreUsers resets the user channel to a snapshot.
func (s *Store) RestoreUsers(snapshot []inkwell.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make([]inkwell.User, len(snapshot))
	for i, user := range snapshot {
		s.users[i] = user.Clone()
	}
}

// ------------------------------------------------------------- settings

func (s *Store) Settings() (inkwell.Settings, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return inkwell.Settings{}, false
	}
	return *s.settings, true
}

func (s *Store) SetSettings(settings inkwell.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = &settings
}

func (s *Store) RestoreSettings(snapshot *inkwell.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snapshot == nil {
		s.settings = nil
		return
	}
	settings := *snapshot
	s.settings = &settings
}

// SettingsSnapshot returns nil when no settings are set, so restore
// round-trips.
func (s *Store) SettingsSnapshot() *inkwell.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return nil
	}
	settings := *s.settings
	return &settings
}
