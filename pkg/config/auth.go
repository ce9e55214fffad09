package config

import "time"

// AuthConfig configures token issuance and password hashing.
type AuthConfig struct {
	JWTSecret    string
	Issuer       string
	TokenTTL     time.Duration
	TwoFACodeTTL time.Duration
	HashWorkers  int
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret:    getEnv("JWT_SECRET", ""),
		Issuer:       getEnv("JWT_ISSUER", "gatekeeper"),
		TokenTTL:     getEnvDuration("TOKEN_TTL", 15*time.Minute),
		TwoFACodeTTL: getEnvDuration("TWO_FA_CODE_TTL", 10*time.Minute),
		HashWorkers:  getEnvInt("HASH_WORKERS", 4),
	}
}
