package twofa

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/Abraxas-365/gatekeeper/pkg/errx"
	"github.com/google/uuid"
)

// ============================================================================
// LoginAttemptID
// ============================================================================

// LoginAttemptID identifies one pending two-factor challenge. A fresh ID is
// generated for every login that triggers the second factor.
type LoginAttemptID struct {
	value string
}

// NewLoginAttemptID generates a random attempt ID.
func NewLoginAttemptID() LoginAttemptID {
	return LoginAttemptID{value: uuid.NewString()}
}

// ParseLoginAttemptID validates a client-supplied attempt ID.
func ParseLoginAttemptID(raw string) (LoginAttemptID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return LoginAttemptID{}, ErrInvalidAttemptID()
	}
	return LoginAttemptID{value: id.String()}, nil
}

// String returns the textual form of the ID.
func (id LoginAttemptID) String() string { return id.value }

// ============================================================================
// Code
// ============================================================================

// Code is a 6-digit one-time code, uniformly random over 100000-999999.
type Code struct {
	value string
}

// NewCode generates a random code.
func NewCode() (Code, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return Code{}, twofaErrors.NewWithCause(CodeGenerationFailed, err)
	}
	return Code{value: fmt.Sprintf("%06d", n.Int64()+100000)}, nil
}

// ParseCode validates a client-supplied code: exactly 6 ASCII digits with a
// non-zero leading digit.
func ParseCode(raw string) (Code, error) {
	if len(raw) != 6 {
		return Code{}, ErrInvalidCode()
	}
	for i, r := range raw {
		if r < '0' || r > '9' {
			return Code{}, ErrInvalidCode()
		}
		if i == 0 && r == '0' {
			return Code{}, ErrInvalidCode()
		}
	}
	return Code{value: raw}, nil
}

// String returns the code digits. Never log the returned value.
func (c Code) String() string { return c.value }

// ============================================================================
// Error Registry
// ============================================================================

var twofaErrors = errx.NewRegistry("TWOFA")

var (
	CodeInvalidAttemptID = twofaErrors.Register("INVALID_ATTEMPT_ID", errx.TypeValidation, 400, "Invalid login attempt ID")
	CodeInvalidCode      = twofaErrors.Register("INVALID_CODE", errx.TypeValidation, 400, "Invalid two-factor code")
	CodeNotFound         = twofaErrors.Register("NOT_FOUND", errx.TypeNotFound, 404, "No pending two-factor challenge")
	CodeGenerationFailed = twofaErrors.Register("GENERATION_FAILED", errx.TypeInternal, 500, "Failed to generate code")
	CodeStoreFailure     = twofaErrors.Register("STORE_FAILURE", errx.TypeInternal, 500, "Two-factor store failure")
)

func ErrInvalidAttemptID() *errx.Error { return twofaErrors.New(CodeInvalidAttemptID) }
func ErrInvalidCode() *errx.Error      { return twofaErrors.New(CodeInvalidCode) }
func ErrNotFound() *errx.Error         { return twofaErrors.New(CodeNotFound) }
