package session

import (
	"context"

	"github.com/Abraxas-365/gatekeeper/pkg/account"
)

// BannedTokenStore holds tokens that must be rejected despite an
// otherwise-valid signature and expiry. Entries must not expire before the
// token they shadow.
type BannedTokenStore interface {
	// BanToken records the serialized token for rejection.
	BanToken(ctx context.Context, token string) error

	// IsBanned reports whether the token has been banned. Called on every
	// token validation; implementations should favor O(1) lookup.
	IsBanned(ctx context.Context, token string) (bool, error)
}

// TokenService issues and validates signed bearer tokens.
type TokenService interface {
	// Issue builds and signs a token for the principal.
	Issue(email account.Email) (string, error)

	// Validate checks revocation first (cheap membership test, stable error
	// class) and only then signature and expiry. Returns the decoded claims
	// on success.
	Validate(ctx context.Context, token string) (*Claims, error)
}
