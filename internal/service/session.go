package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/sanLimbu/todo-tracker/internal"
)

// IdentityPersistence defines the datastore holding the session identity.
type IdentityPersistence interface {
	LoadIdentity(ctx context.Context) (internal.Identity, bool)
	SaveIdentity(ctx context.Context, id internal.Identity) error
	Clear(ctx context.Context) error
}

// State is the step of the session the user is in.
type State int

const (
	// StateAnonymousLogin shows the login view, it is the initial state.
	StateAnonymousLogin State = iota

	// StateAnonymousRegister shows the register view.
	StateAnonymousRegister

	// StateAuthenticated gives access to the tasks.
	StateAuthenticated
)

// String ...
func (s State) String() string {
	switch s {
	case StateAnonymousLogin:
		return "anonymous_login"
	case StateAnonymousRegister:
		return "anonymous_register"
	case StateAuthenticated:
		return "authenticated"
	}

	return "unknown"
}

// Session is the mock login gate in front of the TaskStore. Credentials are never verified, any
// non-blank name and email are accepted; it is not a security boundary.
type Session struct {
	mu          sync.Mutex
	state       State
	identity    internal.Identity
	persistence IdentityPersistence
	tasks       *TaskStore
	logger      *zap.Logger
}

// NewSession ...
func NewSession(logger *zap.Logger, persistence IdentityPersistence, tasks *TaskStore) *Session {
	return &Session{
		state:       StateAnonymousLogin,
		persistence: persistence,
		tasks:       tasks,
		logger:      logger,
	}
}

// Restore authenticates using the persisted identity, when there is one, and loads its tasks.
func (s *Session) Restore(ctx context.Context) {
	ctx, span := newOTELSpan(ctx, "Session.Restore")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.persistence.LoadIdentity(ctx)
	if !ok {
		s.state = StateAnonymousLogin
		return
	}

	s.tasks.Load(ctx)

	s.identity = id
	s.state = StateAuthenticated

	s.logger.Info("Restore: session found", zap.String("name", id.Name))
}

// ShowRegister switches to the register view.
func (s *Session) ShowRegister() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAnonymousLogin {
		s.state = StateAnonymousRegister
	}
}

// ShowLogin switches to the login view.
func (s *Session) ShowLogin() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAnonymousRegister {
		s.state = StateAnonymousLogin
	}
}

// Login starts a session for name and email, both views use it.
func (s *Session) Login(ctx context.Context, name, email string) error {
	ctx, span := newOTELSpan(ctx, "Session.Login")
	defer span.End()

	id := internal.Identity{Name: name, Email: email}.Trimmed()
	if err := id.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAuthenticated {
		return internal.NewErrorf(internal.ErrorCodeInvalidArgument, "already logged in as %s", s.identity.Name)
	}

	if err := s.persistence.SaveIdentity(ctx, id); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "persistence.SaveIdentity")
	}

	s.tasks.Load(ctx)

	s.identity = id
	s.state = StateAuthenticated

	s.logger.Info("Login", zap.String("name", id.Name))

	return nil
}

// Logout ends the session discarding the identity and every task, persisted or not.
func (s *Session) Logout(ctx context.Context) error {
	ctx, span := newOTELSpan(ctx, "Session.Logout")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tasks.Discard(ctx, s.persistence.Clear); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "persistence.Clear")
	}

	s.identity = internal.Identity{}
	s.state = StateAnonymousLogin

	s.logger.Info("Logout")

	return nil
}

// IsAuthenticated ...
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state == StateAuthenticated
}

// Identity returns the current identity, false when anonymous.
func (s *Session) Identity() (internal.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.identity, s.state == StateAuthenticated
}

// State ...
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Tasks gives access to the TaskStore only while authenticated.
func (s *Session) Tasks() (*TaskStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAuthenticated {
		return nil, internal.NewErrorf(internal.ErrorCodeUnauthenticated, "login required")
	}

	return s.tasks, nil
}
