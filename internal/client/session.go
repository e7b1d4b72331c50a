package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

// Session caches the signed-in user. It satisfies onboarding.Refresher so
// a finished onboarding flips HasProfile.
type Session struct {
	client *Client

	mu   sync.RWMutex
	user *User
}

func NewSession(c *Client) *Session {
	return &Session{client: c}
}

// User returns the cached user, or nil when signed out.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Load restores the session from the stored token. A token the API rejects
// with 401 is discarded and the session stays signed out; other failures
// keep the token and are returned.
func (s *Session) Load(ctx context.Context) error {
	token, err := s.client.tokens.Token()
	if err != nil {
		return err
	}
	if token == "" {
		s.set(nil)
		return nil
	}
	if err := s.Refresh(ctx); err != nil {
		s.set(nil)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return s.client.tokens.Clear()
		}
		return err
	}
	return nil
}

// Refresh re-fetches the current user.
func (s *Session) Refresh(ctx context.Context) error {
	u, err := s.client.FetchCurrentUser(ctx)
	if err != nil {
		return err
	}
	s.set(&u)
	return nil
}

func (s *Session) Signup(ctx context.Context, name, email, password, confirmation string) error {
	u, err := s.client.Signup(ctx, name, email, password, confirmation)
	if err != nil {
		return err
	}
	s.set(&u)
	return nil
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	u, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.set(&u)
	return nil
}

func (s *Session) Logout(ctx context.Context) error {
	s.set(nil)
	return s.client.Logout(ctx)
}

func (s *Session) set(u *User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}
