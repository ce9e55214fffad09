package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abraxas-365/gatekeeper/pkg/account"
	"github.com/golang-jwt/jwt/v5"
)

// JWTService implements TokenService using HS256-signed JWTs.
type JWTService struct {
	secretKey []byte
	tokenTTL  time.Duration
	issuer    string
	banned    BannedTokenStore
}

// NewJWTService creates a token service signing with secretKey. The banned
// store is consulted on every validation.
func NewJWTService(secretKey string, tokenTTL time.Duration, issuer string, banned BannedTokenStore) *JWTService {
	if tokenTTL == 0 {
		tokenTTL = 15 * time.Minute
	}
	if issuer == "" {
		issuer = "gatekeeper"
	}

	return &JWTService{
		secretKey: []byte(secretKey),
		tokenTTL:  tokenTTL,
		issuer:    issuer,
		banned:    banned,
	}
}

// TokenTTL returns the configured validity window. Revocation stores mirror it.
func (j *JWTService) TokenTTL() time.Duration { return j.tokenTTL }

// Issue builds claims {sub, iat, exp} for the principal and signs them.
func (j *JWTService) Issue(email account.Email) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Issuer:    j.issuer,
		Subject:   email.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", ErrRegistry.NewWithCause(CodeIssueFailed, err)
	}
	return signed, nil
}

// Validate checks the revocation list, then signature and expiry.
func (j *JWTService) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrMissingToken()
	}

	// Revocation first: a banned token short-circuits without paying for
	// signature verification.
	banned, err := j.banned.IsBanned(ctx, tokenString)
	if err != nil {
		return nil, ErrRegistry.NewWithCause(CodeStoreFailure, err)
	}
	if banned {
		return nil, ErrTokenRevoked()
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secretKey, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired()
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature()
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed()
		default:
			return nil, ErrRegistry.NewWithCause(CodeInvalidToken, err)
		}
	}

	registered, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken()
	}

	claims := &Claims{Subject: registered.Subject}
	if registered.IssuedAt != nil {
		claims.IssuedAt = registered.IssuedAt.Time
	}
	if registered.ExpiresAt != nil {
		claims.ExpiresAt = registered.ExpiresAt.Time
	}
	return claims, nil
}
