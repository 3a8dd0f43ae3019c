package inkwell

import "context"

// Dataset is the full payload returned by a bulk read. Samples and
// works carry a denormalized UserID even though the persistence
// service stores them per user. Secrets are never present.
type Dataset struct {
	SchemaVersion int       `json:"schemaVersion,omitempty"`
	Users         []User    `json:"users"`
	Samples       []Sample  `json:"samples"`
	Works         []Work    `json:"works"`
	Ratings       []Rating  `json:"ratings"`
	Settings      *Settings `json:"settings"`
}

// System is the system-wide slice: every record that is not stored per
// user.
type System struct {
	SchemaVersion int       `json:"schemaVersion,omitempty"`
	Users         []User    `json:"users"`
	Ratings       []Rating  `json:"ratings"`
	Settings      *Settings `json:"settings"`
}

// Persistence is the remote store. Reads return everything at once;
// writes replace one channel at a time. Calls are slow and may fail,
// the sync engine deals with both.
type Persistence interface {
	ReadAll(ctx context.Context) (Dataset, error)
	WriteSamples(ctx context.Context, userID string, samples []Sample) error
	WriteWorks(ctx context.Context, userID string, works []Work) error
	WriteSystem(ctx context.Context, system System) error
}

// Credential is the secret half of a user record. The data layer never
// sees it: only the credential service reads and writes credentials.
type Credential struct {
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

type CredentialStore interface {
	// Find returns the credential for a username, or a zero Credential
	// if the username is unknown.
	Find(ctx context.Context, username string) (Credential, error)
	Save(ctx context.Context, credential Credential) error
}
