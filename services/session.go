// Package services gates every mutation of the replica by role,
// ownership and entity state, and owns the work publication workflow.
// Every call takes an explicit Session: there is no ambient current
// user.
package services

import (
	"github.com/bobinette/inkwell"
)

// Session identifies the caller of a policy-guarded operation. The
// zero value is a guest.
type Session struct {
	user          inkwell.User
	authenticated bool
}

func NewSession(user inkwell.User) Session {
	return Session{user: user, authenticated: true}
}

func Guest() Session {
	return Session{}
}

func (s Session) UserID() string {
	return s.user.ID
}

func (s Session) User() inkwell.User {
	return s.user
}

func (s Session) Role() inkwell.Role {
	if !s.authenticated {
		return inkwell.RoleGuest
	}
	return s.user.Role
}

func (s Session) IsGuest() bool {
	return !s.authenticated || s.user.Role == inkwell.RoleGuest
}

func (s Session) IsAdmin() bool {
	return s.authenticated && s.user.Role == inkwell.RoleAdmin
}
