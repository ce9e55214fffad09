package sessioninfra

import (
	"context"
	"sync"
	"time"
)

// MemoryBannedTokenStore is a process-local revocation list. Expired entries
// are dropped lazily on lookup; the token they shadowed has expired too.
type MemoryBannedTokenStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time // token -> ban expiry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryBannedTokenStore creates an in-memory revocation list. ttl must be
// at least the token validity window.
func NewMemoryBannedTokenStore(ttl time.Duration) *MemoryBannedTokenStore {
	return &MemoryBannedTokenStore{
		entries: make(map[string]time.Time),
		ttl:     ttl,
		now:     time.Now,
	}
}

// BanToken records the token with the revocation TTL.
func (s *MemoryBannedTokenStore) BanToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[token] = s.now().Add(s.ttl)
	return nil
}

// IsBanned checks token membership, treating expired bans as absent.
func (s *MemoryBannedTokenStore) IsBanned(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	expiresAt, exists := s.entries[token]
	s.mu.RUnlock()

	if !exists {
		return false, nil
	}
	if s.now().After(expiresAt) {
		s.mu.Lock()
		delete(s.entries, token)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}
