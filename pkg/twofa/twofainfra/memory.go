package twofainfra

import (
	"context"
	"sync"
	"time"

	"github.com/Abraxas-365/gatekeeper/pkg/account"
	"github.com/Abraxas-365/gatekeeper/pkg/twofa"
)

type pendingEntry struct {
	attemptID twofa.LoginAttemptID
	code      twofa.Code
	expiresAt time.Time
}

// MemoryCodeStore is a process-local twofa.CodeStore. The map is not
// TTL-native, so expiry is enforced lazily on read.
type MemoryCodeStore struct {
	mu      sync.RWMutex
	entries map[string]pendingEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCodeStore creates an in-memory code store with the given entry TTL.
func NewMemoryCodeStore(ttl time.Duration) *MemoryCodeStore {
	return &MemoryCodeStore{
		entries: make(map[string]pendingEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// AddCode stores the pair, replacing any existing entry for the email.
func (s *MemoryCodeStore) AddCode(_ context.Context, email account.Email, attemptID twofa.LoginAttemptID, code twofa.Code) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[email.String()] = pendingEntry{
		attemptID: attemptID,
		code:      code,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

// GetCode fetches the pending challenge; expired entries read as absent.
func (s *MemoryCodeStore) GetCode(_ context.Context, email account.Email) (twofa.LoginAttemptID, twofa.Code, error) {
	s.mu.RLock()
	entry, exists := s.entries[email.String()]
	s.mu.RUnlock()

	if !exists || s.now().After(entry.expiresAt) {
		return twofa.LoginAttemptID{}, twofa.Code{}, twofa.ErrNotFound()
	}
	return entry.attemptID, entry.code, nil
}

// RemoveCode deletes the challenge; removing a missing entry is a no-op.
func (s *MemoryCodeStore) RemoveCode(_ context.Context, email account.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, email.String())
	return nil
}
