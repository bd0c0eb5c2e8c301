// Package session holds the bearer token for the lifetime of the agent
// process. Tokens never touch disk: restarting the agent is the security
// boundary that ends the session, mirroring browser session storage.
package session

import "sync"

// TokenStore holds at most one bearer token.
type TokenStore struct {
	mu    sync.Mutex
	token string
}

// NewTokenStore creates an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the current token, if any.
func (s *TokenStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// Set replaces any existing token.
func (s *TokenStore) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Clear removes the token.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}
