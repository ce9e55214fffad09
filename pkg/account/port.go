package account

import "context"

// UserStore persists principals. Implementations hash passwords before
// writing; a raw password never reaches the backing storage.
type UserStore interface {
	// AddUser registers a new principal. Returns CodeUserAlreadyExists if the
	// normalized email is taken.
	AddUser(ctx context.Context, email Email, password Password, requires2FA bool) error

	// GetUser fetches a principal by email. Returns CodeUserNotFound if absent.
	GetUser(ctx context.Context, email Email) (*User, error)

	// ValidateUser checks the credential pair. Returns CodeUserNotFound for an
	// unknown email and CodeInvalidCredentials for a wrong password; callers
	// facing untrusted clients must collapse the two.
	ValidateUser(ctx context.Context, email Email, password Password) error
}
