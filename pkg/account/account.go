package account

import (
	"net/mail"
	"strings"
	"unicode"

	"github.com/Abraxas-365/gatekeeper/pkg/errx"
)

// ============================================================================
// Email
// ============================================================================

// Email is a validated, normalized email address. The zero value is invalid;
// construction through ParseEmail is the only validation point.
type Email struct {
	value string
}

// ParseEmail validates and normalizes a raw address. The address is lowered
// and trimmed so lookups and uniqueness are case-insensitive.
func ParseEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return Email{}, ErrInvalidEmail().WithDetail("reason", "empty address")
	}
	if strings.Count(normalized, "@") != 1 {
		return Email{}, ErrInvalidEmail().WithDetail("reason", "address must contain a single @")
	}

	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized {
		return Email{}, ErrInvalidEmail().WithDetail("reason", "malformed address")
	}

	local, domain, _ := strings.Cut(normalized, "@")
	if local == "" || domain == "" {
		return Email{}, ErrInvalidEmail().WithDetail("reason", "malformed address")
	}

	return Email{value: normalized}, nil
}

// String returns the normalized address.
func (e Email) String() string { return e.value }

// IsZero reports whether the email was never parsed.
func (e Email) IsZero() bool { return e.value == "" }

// ============================================================================
// Password
// ============================================================================

// Password is a raw password that satisfied the registration policy. It is
// never persisted; stores hash it before writing.
type Password struct {
	value string
}

// ParsePassword enforces the registration policy: at least 8 characters with
// one uppercase letter, one lowercase letter, one digit and one
// non-alphanumeric character.
func ParsePassword(raw string) (Password, error) {
	if len(raw) < 8 {
		return Password{}, ErrPasswordPolicy().WithDetail("reason", "must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range raw {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return Password{}, ErrPasswordPolicy().WithDetail("reason", "must contain an uppercase letter")
	case !hasLower:
		return Password{}, ErrPasswordPolicy().WithDetail("reason", "must contain a lowercase letter")
	case !hasDigit:
		return Password{}, ErrPasswordPolicy().WithDetail("reason", "must contain a digit")
	case !hasSpecial:
		return Password{}, ErrPasswordPolicy().WithDetail("reason", "must contain a special character")
	}

	return Password{value: raw}, nil
}

// Expose returns the raw password for hashing or verification.
// Never log the returned value.
func (p Password) Expose() string { return p.value }

// String implements fmt.Stringer and redacts the secret.
func (p Password) String() string { return "[REDACTED]" }

// ============================================================================
// User
// ============================================================================

// User is a registered principal. Immutable after signup.
type User struct {
	Email        Email  `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	Requires2FA  bool   `db:"requires_2fa" json:"requires_2fa"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("ACCOUNT")

var (
	CodeInvalidEmail       = ErrRegistry.Register("INVALID_EMAIL", errx.TypeValidation, 400, "Invalid email address")
	CodePasswordPolicy     = ErrRegistry.Register("PASSWORD_POLICY", errx.TypeValidation, 400, "Password does not meet policy")
	CodeUserAlreadyExists  = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, 409, "User already exists")
	CodeUserNotFound       = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, 404, "User not found")
	CodeInvalidCredentials = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeAuthorization, 401, "Invalid credentials")
	CodeHashFailure        = ErrRegistry.Register("HASH_FAILURE", errx.TypeInternal, 500, "Password hashing failed")
	CodeStoreFailure       = ErrRegistry.Register("STORE_FAILURE", errx.TypeInternal, 500, "User store failure")
)

func ErrInvalidEmail() *errx.Error       { return ErrRegistry.New(CodeInvalidEmail) }
func ErrPasswordPolicy() *errx.Error     { return ErrRegistry.New(CodePasswordPolicy) }
func ErrUserAlreadyExists() *errx.Error  { return ErrRegistry.New(CodeUserAlreadyExists) }
func ErrUserNotFound() *errx.Error       { return ErrRegistry.New(CodeUserNotFound) }
func ErrInvalidCredentials() *errx.Error { return ErrRegistry.New(CodeInvalidCredentials) }
