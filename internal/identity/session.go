package identity

import (
	"context"
	"errors"
	"sync"

	"career-console/pkg/utils"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// User is the signed-in person as reported by the identity provider.
type User struct {
	Subject string `json:"sub,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// Session is the identity capability handed to every component that talks to
// the career backend on behalf of a user.
type Session interface {
	IsAuthenticated() bool
	CurrentUser() (User, bool)
	// Token returns a bearer token, refreshing it silently when the
	// underlying source supports it.
	Token(ctx context.Context) (string, error)
	Logout()
}

// BearerSession wraps a token presented by the caller, for example the
// Authorization header of a BFF request or the --token flag of the CLI.
type BearerSession struct {
	mu        sync.RWMutex
	token     string
	user      User
	loggedOut bool
}

// NewBearerSession reads the user out of the token claims.
func NewBearerSession(token string, secret []byte) (*BearerSession, error) {
	claims, err := utils.ParseClaims(token, secret)
	if err != nil {
		return nil, err
	}
	return &BearerSession{
		token: token,
		user:  User{Subject: claims.Subject, Name: claims.Name, Email: claims.Email},
	}, nil
}

// NewStaticSession builds a session for a known user without parsing a token.
func NewStaticSession(token string, user User) *BearerSession {
	return &BearerSession{token: token, user: user}
}

func (s *BearerSession) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.loggedOut && s.token != ""
}

func (s *BearerSession) CurrentUser() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.loggedOut {
		return User{}, false
	}
	return s.user, true
}

func (s *BearerSession) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.loggedOut || s.token == "" {
		return "", ErrNotAuthenticated
	}
	return s.token, nil
}

func (s *BearerSession) Logout() {
	s.mu.Lock()
	s.loggedOut = true
	s.token = ""
	s.mu.Unlock()
}

// Delegate is a Session whose target can be swapped. Long-lived workflows
// hold a Delegate and point it at the newest session each time the user
// comes back, so background work keeps using a current token.
type Delegate struct {
	mu     sync.RWMutex
	target Session
}

func NewDelegate(target Session) *Delegate {
	return &Delegate{target: target}
}

// Replace points the delegate at target. A nil target is ignored.
func (d *Delegate) Replace(target Session) {
	if target == nil {
		return
	}
	d.mu.Lock()
	d.target = target
	d.mu.Unlock()
}

func (d *Delegate) current() Session {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.target
}

func (d *Delegate) IsAuthenticated() bool {
	t := d.current()
	return t != nil && t.IsAuthenticated()
}

func (d *Delegate) CurrentUser() (User, bool) {
	t := d.current()
	if t == nil {
		return User{}, false
	}
	return t.CurrentUser()
}

func (d *Delegate) Token(ctx context.Context) (string, error) {
	t := d.current()
	if t == nil {
		return "", ErrNotAuthenticated
	}
	return t.Token(ctx)
}

func (d *Delegate) Logout() {
	if t := d.current(); t != nil {
		t.Logout()
	}
}
