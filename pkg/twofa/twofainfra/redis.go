package twofainfra

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Abraxas-365/gatekeeper/pkg/account"
	"github.com/Abraxas-365/gatekeeper/pkg/asyncx"
	"github.com/Abraxas-365/gatekeeper/pkg/twofa"
	"github.com/redis/go-redis/v9"
)

const codeKeyPrefix = "two_fa_code:"

// writeAttempts bounds retries of challenge writes; a lost write aborts the
// login attempt, so transient failures get a second chance.
const writeAttempts = 3

func codeKey(email account.Email) string {
	return codeKeyPrefix + email.String()
}

// challengePair is the persisted record shape: attempt ID and code.
type challengePair struct {
	AttemptID string `json:"attempt_id"`
	Code      string `json:"code"`
}

// RedisCodeStore implements twofa.CodeStore on Redis. Expiry is native:
// SET with TTL, no sweeping required.
type RedisCodeStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCodeStore creates a Redis-backed code store with the given entry TTL.
func NewRedisCodeStore(rdb *redis.Client, ttl time.Duration) *RedisCodeStore {
	return &RedisCodeStore{rdb: rdb, ttl: ttl}
}

// AddCode stores the pair under the email key with the configured TTL.
// SET overwrites, which gives the replace-on-new-login semantics for free.
func (s *RedisCodeStore) AddCode(ctx context.Context, email account.Email, attemptID twofa.LoginAttemptID, code twofa.Code) error {
	data, err := json.Marshal(challengePair{
		AttemptID: attemptID.String(),
		Code:      code.String(),
	})
	if err != nil {
		return twofaErrors.NewWithCause(ErrMarshal, err)
	}

	if _, err := asyncx.Retry(ctx, writeAttempts, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.rdb.Set(ctx, codeKey(email), data, s.ttl).Err()
	}); err != nil {
		return twofaErrors.NewWithCause(ErrWrite, err)
	}
	return nil
}

// GetCode fetches the pending challenge for the email.
func (s *RedisCodeStore) GetCode(ctx context.Context, email account.Email) (twofa.LoginAttemptID, twofa.Code, error) {
	data, err := s.rdb.Get(ctx, codeKey(email)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return twofa.LoginAttemptID{}, twofa.Code{}, twofa.ErrNotFound()
		}
		return twofa.LoginAttemptID{}, twofa.Code{}, twofaErrors.NewWithCause(ErrRead, err)
	}

	var pair challengePair
	if err := json.Unmarshal(data, &pair); err != nil {
		return twofa.LoginAttemptID{}, twofa.Code{}, twofaErrors.NewWithCause(ErrUnmarshal, err)
	}

	attemptID, err := twofa.ParseLoginAttemptID(pair.AttemptID)
	if err != nil {
		return twofa.LoginAttemptID{}, twofa.Code{}, twofaErrors.NewWithCause(ErrUnmarshal, err)
	}
	code, err := twofa.ParseCode(pair.Code)
	if err != nil {
		return twofa.LoginAttemptID{}, twofa.Code{}, twofaErrors.NewWithCause(ErrUnmarshal, err)
	}

	return attemptID, code, nil
}

// RemoveCode deletes the challenge. DEL on a missing key is a no-op, which
// matches the idempotent contract.
func (s *RedisCodeStore) RemoveCode(ctx context.Context, email account.Email) error {
	if _, err := asyncx.Retry(ctx, writeAttempts, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.rdb.Del(ctx, codeKey(email)).Err()
	}); err != nil {
		return twofaErrors.NewWithCause(ErrWrite, err)
	}
	return nil
}
