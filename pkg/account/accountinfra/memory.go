package accountinfra

import (
	"context"
	"sync"

	"github.com/Abraxas-365/gatekeeper/pkg/account"
)

// MemoryUserStore is a process-local account.UserStore backed by a map.
// Used in development and tests.
type MemoryUserStore struct {
	mu     sync.RWMutex
	users  map[string]account.User
	hasher *account.Hasher
}

// NewMemoryUserStore creates an empty in-memory user store.
func NewMemoryUserStore(hasher *account.Hasher) *MemoryUserStore {
	return &MemoryUserStore{
		users:  make(map[string]account.User),
		hasher: hasher,
	}
}

// AddUser hashes the password and stores the principal.
func (s *MemoryUserStore) AddUser(ctx context.Context, email account.Email, password account.Password, requires2FA bool) error {
	// Hash before taking the lock; the computation takes hundreds of ms.
	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[email.String()]; exists {
		return account.ErrUserAlreadyExists()
	}

	s.users[email.String()] = account.User{
		Email:        email,
		PasswordHash: hash,
		Requires2FA:  requires2FA,
	}
	return nil
}

// GetUser fetches a principal by normalized email.
func (s *MemoryUserStore) GetUser(_ context.Context, email account.Email) (*account.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[email.String()]
	if !exists {
		return nil, account.ErrUserNotFound()
	}
	return &user, nil
}

// ValidateUser verifies the credential pair against the stored hash.
func (s *MemoryUserStore) ValidateUser(ctx context.Context, email account.Email, password account.Password) error {
	user, err := s.GetUser(ctx, email)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(ctx, user.PasswordHash, password)
	if err != nil {
		return err
	}
	if !ok {
		return account.ErrInvalidCredentials()
	}
	return nil
}
