// Package shell maps the portal's four screens to states and moves
// between them. The role returned at login is kept in the session and
// every navigation is checked against it.
package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-portal/internal/types"
)

// State is one top-level screen.
type State string

const (
	StateLogin      State = "login"
	StateSuperAdmin State = "super-admin"
	StateClassAdmin State = "class-admin"
	StateStudent    State = "student"
)

var statePaths = map[State]string{
	StateLogin:      "/",
	StateSuperAdmin: "/admin-dashboard",
	StateClassAdmin: "/class-admin-dashboard",
	StateStudent:    "/student-dashboard",
}

// Path returns the URL path of s.
func (s State) Path() string {
	return statePaths[s]
}

// StateForPath resolves a URL path to its state.
func StateForPath(path string) (State, bool) {
	for st, p := range statePaths {
		if p == path {
			return st, true
		}
	}
	return "", false
}

// StateForRole returns the dashboard a role lands on.
func StateForRole(role types.Role) (State, bool) {
	switch role {
	case types.RoleSuperAdmin:
		return StateSuperAdmin, true
	case types.RoleAdmin:
		return StateClassAdmin, true
	case types.RoleStudent:
		return StateStudent, true
	}
	return StateLogin, false
}

// MsgLoginFailed is the notice shown for every failed login.
const MsgLoginFailed = "Login failed"

var (
	ErrLoginFailed = errors.New("shell: login failed")
	ErrForbidden   = errors.New("shell: screen not permitted for this session")
	ErrUnknownPath = errors.New("shell: unknown path")
)

// Authenticator is the part of the API client the shell needs.
type Authenticator interface {
	Login(ctx context.Context, creds types.Credentials) (types.LoginResult, error)
	ForgetSession() error
}

// Session is the authenticated user.
type Session struct {
	Username string
	Role     types.Role
}

// Shell is the routing state machine. The zero value is not usable; call
// New.
type Shell struct {
	auth     Authenticator
	validate *validator.Validate

	mu      sync.Mutex
	state   State
	session *Session
	notice  string
}

// New returns a shell in the login state.
func New(auth Authenticator) *Shell {
	return &Shell{auth: auth, validate: validator.New(), state: StateLogin}
}

// State returns the current screen.
func (s *Shell) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Session returns the authenticated user, if any.
func (s *Shell) Session() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return Session{}, false
	}
	return *s.session, true
}

// Notice returns the login failure notice, empty when there is none.
func (s *Shell) Notice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

// Login authenticates and moves to the dashboard of the returned role.
// Any failure leaves the shell on the login screen with MsgLoginFailed.
func (s *Shell) Login(ctx context.Context, username, password string) (State, error) {
	creds := types.Credentials{Username: username, Password: password}
	if err := s.validate.Struct(creds); err != nil {
		return s.failLogin(err)
	}

	res, err := s.auth.Login(ctx, creds)
	if err != nil {
		slog.Debug("login request failed",
			slog.String("username", username),
			slog.String("error", err.Error()))
		return s.failLogin(err)
	}

	next, ok := StateForRole(res.Role)
	if !ok {
		return s.failLogin(fmt.Errorf("unknown role %q", res.Role))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &Session{Username: username, Role: res.Role}
	s.state = next
	s.notice = ""
	slog.Info("logged in",
		slog.String("username", username),
		slog.String("role", string(res.Role)))
	return next, nil
}

func (s *Shell) failLogin(cause error) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	s.state = StateLogin
	s.notice = MsgLoginFailed
	return StateLogin, fmt.Errorf("%w: %v", ErrLoginFailed, cause)
}

// Navigate moves to the screen at path. Only the login screen and the
// dashboard of the session's role are reachable.
func (s *Shell) Navigate(path string) (State, error) {
	target, ok := StateForPath(path)
	if !ok {
		return s.State(), fmt.Errorf("%w: %s", ErrUnknownPath, path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if target == StateLogin {
		s.state = StateLogin
		return s.state, nil
	}
	if s.session == nil {
		return s.state, ErrForbidden
	}
	allowed, _ := StateForRole(s.session.Role)
	if target != allowed {
		return s.state, ErrForbidden
	}
	s.state = target
	return s.state, nil
}

// Logout ends the session and returns to the login screen.
func (s *Shell) Logout() error {
	s.mu.Lock()
	s.session = nil
	s.state = StateLogin
	s.notice = ""
	s.mu.Unlock()

	if err := s.auth.ForgetSession(); err != nil {
		return fmt.Errorf("shell.Logout: %w", err)
	}
	return nil
}
