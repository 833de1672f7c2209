package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"uniconnect/internal/models"
	"uniconnect/internal/observability"
	"uniconnect/internal/validation"
)

// ProfileUpdate carries the fields a user edits. Nil fields are left as they
// are; a non-nil profile section replaces the stored one.
type ProfileUpdate struct {
	Name           *string
	Email          *string
	ProfilePicture *string
	Profile        models.Profile
}

// Store owns the current session. Reads are lock-free; transitions are
// serialized and persisted before they become visible.
type Store struct {
	persister Persister
	logger    *observability.Logger

	mu      sync.Mutex
	current atomic.Pointer[Session]
}

// NewStore returns an unauthenticated store backed by p.
func NewStore(p Persister, logger *observability.Logger) *Store {
	if logger == nil {
		logger = observability.GlobalLogger
	}
	s := &Store{persister: p, logger: logger}
	s.current.Store(&Session{})
	return s
}

// Current returns the session snapshot.
func (s *Store) Current() Session {
	return s.current.Load().clone()
}

// Token returns the bearer token, or "" when signed out.
func (s *Store) Token() string {
	return s.current.Load().Token
}

// Restore loads a previously persisted session. A user record that cannot be
// decoded clears both keys and leaves the store unauthenticated.
func (s *Store) Restore(ctx context.Context) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rawUser, hasUser, err := s.persister.Get(ctx, KeyUser)
	if err != nil {
		return Session{}, fmt.Errorf("read persisted user: %w", err)
	}
	token, _, err := s.persister.Get(ctx, KeyToken)
	if err != nil {
		return Session{}, fmt.Errorf("read persisted token: %w", err)
	}

	if !hasUser {
		if token != "" {
			_ = s.persister.Delete(ctx, KeyToken)
		}
		s.current.Store(&Session{})
		return Session{}, nil
	}

	u, err := ParseUser([]byte(rawUser))
	if err != nil {
		s.logger.WarnContext(ctx, "discarding corrupt persisted session", "error", err)
		if delErr := s.persister.Delete(ctx, KeyUser, KeyToken); delErr != nil {
			return Session{}, fmt.Errorf("clear corrupt session: %w", delErr)
		}
		s.current.Store(&Session{})
		return Session{}, nil
	}

	next := fromUser(u, token)
	s.current.Store(&next)
	return next.clone(), nil
}

// Login establishes a session from a backend auth response.
func (s *Store) Login(ctx context.Context, token string, rawUser []byte) (Session, error) {
	return s.establish(ctx, token, rawUser)
}

// Signup establishes a session for a freshly registered account.
func (s *Store) Signup(ctx context.Context, token string, rawUser []byte) (Session, error) {
	return s.establish(ctx, token, rawUser)
}

func (s *Store) establish(ctx context.Context, token string, rawUser []byte) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Session{}, models.NewValidationError("auth response carried no token")
	}
	u, err := ParseUser(rawUser)
	if err != nil {
		return Session{}, models.NewValidationError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := fromUser(u, token)
	if err := s.persist(ctx, next, true); err != nil {
		return Session{}, err
	}
	s.current.Store(&next)
	s.logger.InfoContext(ctx, "session established", "actor_id", next.ActorID, "state", next.State().String())
	return next.clone(), nil
}

// SelectRole sets the role exactly once and seeds that role's empty profile.
func (s *Store) SelectRole(ctx context.Context, role models.Role) (Session, error) {
	if !role.Valid() {
		return Session{}, models.NewValidationError(fmt.Sprintf("unknown role %q", role))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	if !cur.Authenticated() {
		return Session{}, models.NewUnauthorizedError("sign in before selecting a role")
	}
	if cur.Role != models.RoleNone {
		return Session{}, models.NewValidationError(fmt.Sprintf("role already selected: %s", cur.Role))
	}

	next := cur.clone()
	next.Role = role
	next.Profile = models.DefaultProfile(role)
	if err := s.persist(ctx, next, false); err != nil {
		return Session{}, err
	}
	s.current.Store(&next)
	return next.clone(), nil
}

// UpdateProfile merges upd into the current session.
func (s *Store) UpdateProfile(ctx context.Context, upd ProfileUpdate) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	if !cur.Authenticated() {
		return Session{}, models.NewUnauthorizedError("sign in before editing the profile")
	}
	if upd.Profile != (models.Profile{}) {
		if err := validation.ValidateProfile(cur.Role, upd.Profile); err != nil {
			return Session{}, models.NewValidationError(err.Error())
		}
	}

	next := cur.clone()
	if upd.Name != nil {
		if err := validation.ValidateDisplayName(*upd.Name); err != nil {
			return Session{}, models.NewValidationError(err.Error())
		}
		next.ActorName = strings.TrimSpace(*upd.Name)
	}
	if upd.Email != nil {
		if err := validation.ValidateEmail(*upd.Email); err != nil {
			return Session{}, models.NewValidationError(err.Error())
		}
		next.Email = *upd.Email
	}
	if upd.ProfilePicture != nil {
		next.ProfilePicture = *upd.ProfilePicture
	}

	merged := upd.Profile.Clone()
	if merged.Student != nil {
		next.Profile.Student = merged.Student
	}
	if merged.Professor != nil {
		next.Profile.Professor = merged.Professor
	}
	if merged.Investor != nil {
		next.Profile.Investor = merged.Investor
	}

	if err := s.persist(ctx, next, false); err != nil {
		return Session{}, err
	}
	s.current.Store(&next)
	return next.clone(), nil
}

// Logout clears the persisted keys and returns to unauthenticated. The
// in-memory session is cleared even when the persister fails.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasAuthenticated := s.current.Load().Authenticated()
	s.current.Store(&Session{})
	if err := s.persister.Delete(ctx, KeyUser, KeyToken); err != nil {
		return fmt.Errorf("clear persisted session: %w", err)
	}
	if wasAuthenticated {
		s.logger.InfoContext(ctx, "session cleared")
	}
	return nil
}

func (s *Store) persist(ctx context.Context, next Session, withToken bool) error {
	b, err := json.Marshal(next.User())
	if err != nil {
		return models.NewInternalError(err)
	}
	if err := s.persister.Set(ctx, KeyUser, string(b)); err != nil {
		return models.NewInternalError(fmt.Errorf("persist user: %w", err))
	}
	if withToken {
		if err := s.persister.Set(ctx, KeyToken, next.Token); err != nil {
			return models.NewInternalError(fmt.Errorf("persist token: %w", err))
		}
	}
	return nil
}
