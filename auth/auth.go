// Package auth is the credential service. The data layer core never
// sees a secret: this package owns hashing, registration and login,
// and hands sanitized users to the rest of the system.
package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/bobinette/inkwell"
	"github.com/bobinette/inkwell/errors"
	"github.com/bobinette/inkwell/replica"
	"github.com/bobinette/inkwell/syncer"
)

// Hasher is the opaque hashing scheme. See BcryptHasher.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

type Service struct {
	store       *replica.Store
	engine      *syncer.Engine
	credentials inkwell.CredentialStore
	hasher      Hasher
}

func NewService(store *replica.Store, engine *syncer.Engine, credentials inkwell.CredentialStore, hasher Hasher) *Service {
	return &Service{
		store:       store,
		engine:      engine,
		credentials: credentials,
		hasher:      hasher,
	}
}

// Register creates a user account. The credential is written
// synchronously: a registration only succeeds once the secret is
// durable. The user record itself rides the usual optimistic push.
func (s *Service) Register(ctx context.Context, username, password string) (inkwell.User, error) {
	if err := ValidateUsername(username); err != nil {
		return inkwell.User{}, err
	}
	if err := ValidatePassword(password); err != nil {
		return inkwell.User{}, err
	}

	if _, ok := s.store.UserByName(username); ok {
		return inkwell.User{}, errors.New("username already taken", errors.BadRequest())
	}
	if existing, err := s.credentials.Find(ctx, username); err != nil {
		return inkwell.User{}, err
	} else if existing.UserID != "" {
		return inkwell.User{}, errors.New("username already taken", errors.BadRequest())
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return inkwell.User{}, err
	}

	user := inkwell.User{
		ID:                   uuid.NewString(),
		Username:             username,
		Role:                 inkwell.RoleUser,
		CollectionVisibility: inkwell.VisibilityPrivate,
		CreatedAt:            inkwell.Now(),
	}

	err = s.credentials.Save(ctx, inkwell.Credential{
		UserID:       user.ID,
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		return inkwell.User{}, err
	}

	snapshot := s.store.Users()
	s.store.UpsertUser(user)
	s.engine.PushUsers(snapshot)

	// Provision the user's empty slice files so a bulk read sees the
	// account immediately.
	s.engine.PushSamples(user.ID, nil)
	s.engine.PushWorks(user.ID, nil)

	return user, nil
}

// Login verifies a credential and returns the sanitized user record.
func (s *Service) Login(ctx context.Context, username, password string) (inkwell.User, error) {
	credential, err := s.credentials.Find(ctx, username)
	if err != nil {
		return inkwell.User{}, err
	}
	if credential.UserID == "" {
		return inkwell.User{}, errors.New("unknown username or password", errors.Unauthorized())
	}

	if !s.hasher.Verify(credential.PasswordHash, password) {
		return inkwell.User{}, errors.New("unknown username or password", errors.Unauthorized())
	}

	user, ok := s.store.User(credential.UserID)
	if !ok {
		// The credential exists but the replica has not seen the user
		// yet: fall back on a minimal record.
		user = inkwell.User{
			ID:                   credential.UserID,
			Username:             credential.Username,
			Role:                 inkwell.RoleUser,
			CollectionVisibility: inkwell.VisibilityPrivate,
		}
	}

	return user, nil
}

// ResetPassword replaces a user's password. Owners can reset their
// own, admins anyone's.
func (s *Service) ResetPassword(ctx context.Context, caller inkwell.User, userID, newPassword string) error {
	if !caller.IsAdmin() && caller.ID != userID {
		return errors.New("permission denied", errors.Forbidden())
	}

	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	user, ok := s.store.User(userID)
	if !ok {
		return errors.New("user not found", errors.NotFound())
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	return s.credentials.Save(ctx, inkwell.Credential{
		UserID:       user.ID,
		Username:     user.Username,
		PasswordHash: hash,
	})
}
