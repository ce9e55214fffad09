package session

import (
	"time"

	"github.com/Abraxas-365/gatekeeper/pkg/errx"
)

// Claims is the decoded content of a validated session token.
type Claims struct {
	Subject   string    `json:"sub"` // the principal's email
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("SESSION")

var (
	// Input-shape failures. No side effect was performed.
	CodeInvalidCredentials = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeValidation, 400, "Invalid credentials")

	// Wrong email/password/code. Deliberately one code for "unknown user" and
	// "wrong secret" so responses cannot be used to enumerate accounts.
	CodeIncorrectCredentials = ErrRegistry.Register("INCORRECT_CREDENTIALS", errx.TypeAuthorization, 401, "Incorrect credentials")

	// Token lifecycle. Distinguishable internally; the verify-token boundary
	// coarsens everything to CodeInvalidToken.
	CodeMissingToken = ErrRegistry.Register("MISSING_TOKEN", errx.TypeValidation, 400, "Missing session token")
	CodeInvalidToken = ErrRegistry.Register("INVALID_TOKEN", errx.TypeAuthorization, 401, "Invalid session token")
	CodeTokenExpired = ErrRegistry.Register("TOKEN_EXPIRED", errx.TypeAuthorization, 401, "Session token expired")
	CodeTokenRevoked = ErrRegistry.Register("TOKEN_REVOKED", errx.TypeAuthorization, 401, "Session token revoked")
	CodeBadSignature = ErrRegistry.Register("BAD_SIGNATURE", errx.TypeAuthorization, 401, "Session token signature mismatch")
	CodeMalformed    = ErrRegistry.Register("MALFORMED_TOKEN", errx.TypeAuthorization, 401, "Malformed session token")

	CodeIssueFailed  = ErrRegistry.Register("ISSUE_FAILED", errx.TypeInternal, 500, "Token issuance failed")
	CodeStoreFailure = ErrRegistry.Register("STORE_FAILURE", errx.TypeInternal, 500, "Session store failure")
)

func ErrInvalidCredentials() *errx.Error   { return ErrRegistry.New(CodeInvalidCredentials) }
func ErrIncorrectCredentials() *errx.Error { return ErrRegistry.New(CodeIncorrectCredentials) }
func ErrMissingToken() *errx.Error         { return ErrRegistry.New(CodeMissingToken) }
func ErrInvalidToken() *errx.Error         { return ErrRegistry.New(CodeInvalidToken) }
func ErrTokenExpired() *errx.Error         { return ErrRegistry.New(CodeTokenExpired) }
func ErrTokenRevoked() *errx.Error         { return ErrRegistry.New(CodeTokenRevoked) }
func ErrBadSignature() *errx.Error         { return ErrRegistry.New(CodeBadSignature) }
func ErrMalformed() *errx.Error            { return ErrRegistry.New(CodeMalformed) }
