package services

import (
	"fmt"

	"github.com/bobinette/inkwell"
	"github.com/bobinette/inkwell/errors"
	"github.com/bobinette/inkwell/replica"
	"github.com/bobinette/inkwell/syncer"
)

type UserService struct {
	store  *replica.Store
	engine *syncer.Engine
}

func NewUserService(store *replica.Store, engine *syncer.Engine) *UserService {
	return &UserService{
		store:  store,
		engine: engine,
	}
}

// UserUpdate carries the only user fields that can be mutated after
// registration. Nil fields are left untouched.
type UserUpdate struct {
	CollectionVisibility *inkwell.Visibility `json:"collectionVisibility,omitempty"`
	Role                 *inkwell.Role       `json:"role,omitempty"`
	CollectedWorkIDs     []string            `json:"collectedWorkIds,omitempty"`
}

// Update applies an update to a user record. Role changes are admin
// only; the other fields can be changed by the owner or an admin.
func (s *UserService) Update(session Session, userID string, update UserUpdate) (inkwell.User, error) {
	if session.IsGuest() {
		return inkwell.User{}, errors.New("permission denied", errors.Forbidden())
	}

	if !session.IsAdmin() && session.UserID() != userID {
		return inkwell.User{}, errors.New("permission denied", errors.Forbidden())
	}

	if update.Role != nil {
		if !session.IsAdmin() {
			return inkwell.User{}, errors.New("only admins can change roles", errors.Forbidden())
		}
		switch *update.Role {
		case inkwell.RoleAdmin, inkwell.RoleUser, inkwell.RoleGuest:
		default:
			return inkwell.User{}, errors.New(fmt.Sprintf("unknown role %q", *update.Role), errors.BadRequest())
		}
	}

	if update.CollectionVisibility != nil {
		switch *update.CollectionVisibility {
		case inkwell.VisibilityPublic, inkwell.VisibilityPrivate:
		default:
			return inkwell.User{}, errors.New(
				fmt.Sprintf("unknown visibility %q", *update.CollectionVisibility),
				errors.BadRequest(),
			)
		}
	}

	user, ok := s.store.User(userID)
	if !ok {
		return inkwell.User{}, errors.New(fmt.Sprintf("<User %s> not found", userID), errors.NotFound())
	}

	if update.CollectionVisibility != nil {
		user.CollectionVisibility = *update.CollectionVisibility
	}
	if update.Role != nil {
		user.Role = *update.Role
	}
	if update.CollectedWorkIDs != nil {
		user.CollectedWorkIDs = update.CollectedWorkIDs
	}

	snapshot := s.store.Users()
	s.store.UpsertUser(user)
	s.engine.PushUsers(snapshot)

	return user, nil
}

func (s *UserService) Get(id string) (inkwell.User, error) {
	user, ok := s.store.User(id)
	if !ok {
		return inkwell.User{}, errors.New(fmt.Sprintf("<User %s> not found", id), errors.NotFound())
	}
	return user, nil
}

func (s *UserService) List() []inkwell.User {
	return s.store.Users()
}
