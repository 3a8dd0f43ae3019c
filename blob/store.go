package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/bobinette/inkwell"
)

var userFileRe = regexp.MustCompile(`^users/([^/]+)/(samples|works)\.json$`)

// Store implements the persistence contract and the credential store
// over a blob provider. Layout, relative to the prefix:
//
//	system.json             users, ratings, settings (with secrets)
//	works.json              public-works mirror
//	users/<id>/samples.json one user's samples
//	users/<id>/works.json   one user's works
type Store struct {
	provider Provider
	prefix   string

	// Credential saves and system writes both rewrite system.json;
	// serialize them so neither loses the other's update.
	mu sync.Mutex
}

func NewStore(provider Provider, prefix string) *Store {
	if prefix != "" && prefix[len(prefix)-1] != '/' {
		prefix += "/"
	}
	return &Store{
		provider: provider,
		prefix:   prefix,
	}
}

// userRecord is the persisted shape of a user: the public record plus
// the credential. ReadAll strips the secret before returning.
type userRecord struct {
	inkwell.User
	PasswordHash string `json:"passwordHash,omitempty"`
}

type systemRecord struct {
	SchemaVersion int               `json:"schemaVersion,omitempty"`
	Users         []userRecord      `json:"users"`
	Ratings       []inkwell.Rating  `json:"ratings"`
	Settings      *inkwell.Settings `json:"settings"`
}

func (s *Store) key(parts ...interface{}) string {
	key := s.prefix
	for i, part := range parts {
		if i > 0 {
			key += "/"
		}
		key += fmt.Sprint(part)
	}
	return key
}

func (s *Store) readJSON(key string, v interface{}) (bool, error) {
	data, err := s.provider.Get(key)
	if errors.Is(err, ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, v)
}

func (s *Store) writeJSON(key string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return s.provider.Put(key, data)
}

func (s *Store) readSystem() (systemRecord, error) {
	var record systemRecord
	if _, err := s.readJSON(s.key("system.json"), &record); err != nil {
		return systemRecord{}, err
	}
	return record, nil
}

// ReadAll assembles the full dataset: sanitized users, ratings and
// settings from the system record, and every user's samples and works
// with the owner id denormalized onto each entry. The public mirror
// fills in works whose owner file is gone.
func (s *Store) ReadAll(ctx context.Context) (inkwell.Dataset, error) {
	system, err := s.readSystem()
	if err != nil {
		return inkwell.Dataset{}, err
	}

	dataset := inkwell.Dataset{
		SchemaVersion: system.SchemaVersion,
		Users:         make([]inkwell.User, 0, len(system.Users)),
		Samples:       make([]inkwell.Sample, 0),
		Works:         make([]inkwell.Work, 0),
		Ratings:       system.Ratings,
		Settings:      system.Settings,
	}
	if dataset.Ratings == nil {
		dataset.Ratings = make([]inkwell.Rating, 0)
	}
	for _, record := range system.Users {
		dataset.Users = append(dataset.Users, record.User)
	}

	worksByID := make(map[string]inkwell.Work)
	var mirror []inkwell.Work
	if _, err := s.readJSON(s.key("works.json"), &mirror); err != nil {
		return inkwell.Dataset{}, err
	}
	for _, work := range mirror {
		// Everything in the mirror is a published public work.
		work.Visibility = inkwell.VisibilityPublic
		worksByID[work.ID] = work
	}

	keys, err := s.provider.List(s.key("users") + "/")
	if err != nil {
		return inkwell.Dataset{}, err
	}

	for _, key := range keys {
		rel := key[len(s.prefix):]
		m := userFileRe.FindStringSubmatch(rel)
		if m == nil {
			continue
		}
		userID, kind := m[1], m[2]

		switch kind {
		case "samples":
			var samples []inkwell.Sample
			if _, err := s.readJSON(key, &samples); err != nil {
				return inkwell.Dataset{}, err
			}
			for _, sample := range samples {
				sample.UserID = userID
				dataset.Samples = append(dataset.Samples, sample)
			}
		case "works":
			var works []inkwell.Work
			if _, err := s.readJSON(key, &works); err != nil {
				return inkwell.Dataset{}, err
			}
			for _, work := range works {
				work.UserID = userID
				worksByID[work.ID] = work
			}
		}
	}

	for _, work := range worksByID {
		dataset.Works = append(dataset.Works, work)
	}

	return dataset, nil
}

func (s *Store) WriteSamples(ctx context.Context, userID string, samples []inkwell.Sample) error {
	if samples == nil {
		samples = make([]inkwell.Sample, 0)
	}
	return s.writeJSON(s.key("users", userID, "samples.json"), samples)
}

// WriteWorks replaces one user's works file and recomputes the public
// mirror: the user's old mirror entries are dropped and the public
// works from the new slice are appended, stripped of their private
// writing details.
func (s *Store) WriteWorks(ctx context.Context, userID string, works []inkwell.Work) error {
	if works == nil {
		works = make([]inkwell.Work, 0)
	}
	if err := s.writeJSON(s.key("users", userID, "works.json"), works); err != nil {
		return err
	}

	var mirror []inkwell.Work
	if _, err := s.readJSON(s.key("works.json"), &mirror); err != nil {
		return err
	}

	next := make([]inkwell.Work, 0, len(mirror))
	for _, work := range mirror {
		if work.UserID != userID {
			next = append(next, work)
		}
	}
	for _, work := range works {
		if work.Visibility == inkwell.VisibilityPublic {
			next = append(next, stripForMirror(work))
		}
	}

	return s.writeJSON(s.key("works.json"), next)
}

// stripForMirror removes the fields that stay private to the owner.
func stripForMirror(work inkwell.Work) inkwell.Work {
	work.CharStyles = nil
	work.CharAdjustments = nil
	work.IsRefined = false
	work.Layout = ""
	work.GridType = ""
	work.Visibility = ""
	return work
}

// WriteSystem replaces the system record. Credentials stored on the
// previous record are carried over: the incoming users are sanitized
// and must not lose their secrets.
func (s *Store) WriteSystem(ctx context.Context, system inkwell.System) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.readSystem()
	if err != nil {
		return err
	}

	hashes := make(map[string]string, len(current.Users))
	for _, record := range current.Users {
		hashes[record.ID] = record.PasswordHash
	}

	record := systemRecord{
		SchemaVersion: system.SchemaVersion,
		Users:         make([]userRecord, 0, len(system.Users)),
		Ratings:       system.Ratings,
		Settings:      system.Settings,
	}
	for _, user := range system.Users {
		record.Users = append(record.Users, userRecord{
			User:         user,
			PasswordHash: hashes[user.ID],
		})
	}

	return s.writeJSON(s.key("system.json"), record)
}

// Find looks a credential up by username.
func (s *Store) Find(ctx context.Context, username string) (inkwell.Credential, error) {
	system, err := s.readSystem()
	if err != nil {
		return inkwell.Credential{}, err
	}

	for _, record := range system.Users {
		if record.Username == username {
			return inkwell.Credential{
				UserID:       record.ID,
				Username:     record.Username,
				PasswordHash: record.PasswordHash,
			}, nil
		}
	}
	return inkwell.Credential{}, nil
}

// Save upserts a credential on the system record. If the public user
// record has not been pushed yet, a stub entry holds the secret until
// it lands.
func (s *Store) Save(ctx context.Context, credential inkwell.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	system, err := s.readSystem()
	if err != nil {
		return err
	}

	found := false
	for i, record := range system.Users {
		if record.ID == credential.UserID {
			system.Users[i].PasswordHash = credential.PasswordHash
			system.Users[i].Username = credential.Username
			found = true
			break
		}
	}
	if !found {
		system.Users = append(system.Users, userRecord{
			User: inkwell.User{
				ID:       credential.UserID,
				Username: credential.Username,
			},
			PasswordHash: credential.PasswordHash,
		})
	}

	return s.writeJSON(s.key("system.json"), system)
}
