// Package session tracks who is signed in, their role and their profile,
// and keeps the user record and bearer token across runs.
package session

import (
	"uniconnect/internal/models"
)

// State is the coarse lifecycle position of a session.
type State int

const (
	Unauthenticated State = iota
	AuthenticatedNoRole
	AuthenticatedWithRole
)

func (s State) String() string {
	switch s {
	case AuthenticatedNoRole:
		return "authenticated-no-role"
	case AuthenticatedWithRole:
		return "authenticated-with-role"
	default:
		return "unauthenticated"
	}
}

// Session is an immutable view of the signed-in actor. Transitions on the
// Store produce new values; a Session obtained earlier never changes.
type Session struct {
	ActorID        string
	ActorName      string
	Email          string
	Role           models.Role
	ProfilePicture string
	Profile        models.Profile
	Token          string
}

// State reports where the session sits in its lifecycle.
func (s Session) State() State {
	switch {
	case s.ActorID == "" && s.Token == "":
		return Unauthenticated
	case s.Role == models.RoleNone:
		return AuthenticatedNoRole
	default:
		return AuthenticatedWithRole
	}
}

func (s Session) Authenticated() bool { return s.State() != Unauthenticated }

// Author is the attribution stamped on locally created content.
func (s Session) Author() models.Author {
	return models.Author{ID: s.ActorID, Name: s.ActorName}
}

// User returns the persisted form of the session.
func (s Session) User() models.User {
	return models.User{
		ID:             s.ActorID,
		Name:           s.ActorName,
		Email:          s.Email,
		Type:           s.Role,
		ProfilePicture: s.ProfilePicture,
		Profile:        s.Profile.Clone(),
	}
}

func fromUser(u models.User, token string) Session {
	return Session{
		ActorID:        u.ID,
		ActorName:      u.Name,
		Email:          u.Email,
		Role:           u.Type,
		ProfilePicture: u.ProfilePicture,
		Profile:        u.Profile.Clone(),
		Token:          token,
	}
}

// clone deep-copies the profile so the returned value shares nothing.
func (s Session) clone() Session {
	out := s
	out.Profile = s.Profile.Clone()
	return out
}
