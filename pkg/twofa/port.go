package twofa

import (
	"context"

	"github.com/Abraxas-365/gatekeeper/pkg/account"
)

// CodeStore holds at most one pending (attempt ID, code) pair per principal,
// expiring entries after a fixed window independent of explicit removal.
type CodeStore interface {
	// AddCode stores a pending challenge, replacing any existing entry for the
	// email. Only the latest login attempt's code is valid.
	AddCode(ctx context.Context, email account.Email, attemptID LoginAttemptID, code Code) error

	// GetCode returns the pending challenge for the email, or CodeNotFound.
	GetCode(ctx context.Context, email account.Email) (LoginAttemptID, Code, error)

	// RemoveCode deletes the pending challenge. Removing a non-existent entry
	// is not an error.
	RemoveCode(ctx context.Context, email account.Email) error
}
