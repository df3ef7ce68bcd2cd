// Package session holds the bearer token the console presents to the
// backend. The token is minted and verified server-side; this holder
// only stores it, inspects its expiry claim, and clears it when the
// backend answers 401.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoToken = errors.New("no auth token stored")

// Store is a concurrency-safe token holder with an invalidation hook.
// The hook is where a UI plugs in its redirect-to-login behavior.
type Store struct {
	mu           sync.RWMutex
	token        string
	onInvalidate func()
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// SetToken stores a bearer token, replacing any previous one.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Token returns the stored bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Clear drops the stored token without firing the invalidation hook.
func (s *Store) Clear() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

// OnInvalidate registers the hook fired when the session is invalidated
// by a 401 response.
func (s *Store) OnInvalidate(fn func()) {
	s.mu.Lock()
	s.onInvalidate = fn
	s.mu.Unlock()
}

// Invalidate clears the token and fires the hook. Called by the API
// client on 401; the error is never surfaced as a user-facing message.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.token = ""
	fn := s.onInvalidate
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// ExpiresAt returns the exp claim of the stored token. The signature is
// not verified: the HMAC secret lives server-side, and a forged expiry
// only affects when the client proactively re-authenticates.
func (s *Store) ExpiresAt() (time.Time, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return time.Time{}, ErrNoToken
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("token has no exp claim")
	}
	return claims.ExpiresAt.Time, nil
}

// Expired reports whether the stored token has an expiry in the past.
// Tokens without a readable expiry are treated as live; the backend is
// the authority and will answer 401 if they are not.
func (s *Store) Expired(now time.Time) bool {
	exp, err := s.ExpiresAt()
	if err != nil {
		return false
	}
	return exp.Before(now)
}
