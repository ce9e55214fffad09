package sessioninfra

import (
	"context"
	"time"

	"github.com/Abraxas-365/gatekeeper/pkg/asyncx"
	"github.com/redis/go-redis/v9"
)

const bannedKeyPrefix = "banned_token:"

// writeAttempts bounds retries of ban writes; a lost write would leave a
// revoked token usable, so transient failures get a second chance.
const writeAttempts = 3

func bannedKey(token string) string {
	return bannedKeyPrefix + token
}

// RedisBannedTokenStore implements session.BannedTokenStore on Redis.
// Each entry carries a TTL mirroring the token lifetime, so a ban never
// expires before the token it shadows; afterwards Redis forgets it on its own.
type RedisBannedTokenStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisBannedTokenStore creates a Redis-backed revocation list. ttl must be
// at least the token validity window.
func NewRedisBannedTokenStore(rdb *redis.Client, ttl time.Duration) *RedisBannedTokenStore {
	return &RedisBannedTokenStore{rdb: rdb, ttl: ttl}
}

// BanToken records the token with the revocation TTL.
func (s *RedisBannedTokenStore) BanToken(ctx context.Context, token string) error {
	if _, err := asyncx.Retry(ctx, writeAttempts, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.rdb.Set(ctx, bannedKey(token), "true", s.ttl).Err()
	}); err != nil {
		return sessionErrors.NewWithCause(ErrWrite, err)
	}
	return nil
}

// IsBanned checks token membership. EXISTS makes this an O(1) hot-path call.
func (s *RedisBannedTokenStore) IsBanned(ctx context.Context, token string) (bool, error) {
	n, err := s.rdb.Exists(ctx, bannedKey(token)).Result()
	if err != nil {
		return false, sessionErrors.NewWithCause(ErrRead, err)
	}
	return n > 0, nil
}
