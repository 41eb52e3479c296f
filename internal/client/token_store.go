package client

import "sync"

// TokenStore holds the current AuthData behind a read/write lock. The pair
// is replaced wholesale on every Set; readers observe either the old pair
// or the new one, never a mix.
type TokenStore struct {
	mu   sync.RWMutex
	data *AuthData
}

// NewTokenStore creates an empty token store
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Set replaces the stored pair
func (s *TokenStore) Set(data AuthData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = &data
}

// Clear removes the stored pair
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
}

// Get returns a copy of the stored pair, or nil if none is set
func (s *TokenStore) Get() *AuthData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil
	}
	cp := *s.data
	return &cp
}

// AccessToken returns the current access token, or "" if none is set
func (s *TokenStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return ""
	}
	return s.data.AccessToken
}

// RefreshToken returns the current refresh token, or "" if none is set
func (s *TokenStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return ""
	}
	return s.data.RefreshToken
}
