package account

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/Abraxas-365/gatekeeper/pkg/asyncx"
	"github.com/Abraxas-365/gatekeeper/pkg/errx"
	"golang.org/x/crypto/argon2"
)

const argon2Version = argon2.Version // 0x13

// Argon2idParams tunes the password hashing cost. The defaults are deliberate
// hundreds-of-milliseconds territory.
type Argon2idParams struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2idParams returns the production hashing parameters.
func DefaultArgon2idParams() Argon2idParams {
	return Argon2idParams{
		MemoryKiB:   19 * 1024,
		Iterations:  2,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Hasher computes and verifies Argon2id password hashes. All computation runs
// through a bounded gate so a burst of hash requests cannot starve the
// goroutines serving unrelated requests.
type Hasher struct {
	params Argon2idParams
	gate   *asyncx.Gate
}

// NewHasher creates a hasher with the given parameters and at most workers
// concurrent hash computations.
func NewHasher(params Argon2idParams, workers int) *Hasher {
	return &Hasher{
		params: params,
		gate:   asyncx.NewGate(workers),
	}
}

// Hash derives an encoded hash from the password with a fresh random salt.
// The encoded form is self-describing:
//
//	$argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<key_b64>
func (h *Hasher) Hash(ctx context.Context, password Password) (string, error) {
	fut, err := asyncx.Go(ctx, h.gate, func() (string, error) {
		return h.hash(password.Expose())
	})
	if err != nil {
		return "", errx.Wrap(err, "hash dispatch aborted", errx.TypeInternal)
	}
	return fut.AwaitCtx(ctx)
}

// Verify reports whether candidate matches the encoded hash. Malformed or
// unsupported hashes verify as false rather than erroring: a stored hash the
// service cannot read is indistinguishable from a wrong password to callers.
func (h *Hasher) Verify(ctx context.Context, encodedHash string, candidate Password) (bool, error) {
	fut, err := asyncx.Go(ctx, h.gate, func() (bool, error) {
		return h.verify(encodedHash, candidate.Expose()), nil
	})
	if err != nil {
		return false, errx.Wrap(err, "verify dispatch aborted", errx.TypeInternal)
	}
	return fut.AwaitCtx(ctx)
}

func (h *Hasher) hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", ErrRegistry.NewWithCause(CodeHashFailure, err)
	}

	key := argon2.IDKey(
		[]byte(password),
		salt,
		h.params.Iterations,
		h.params.MemoryKiB,
		h.params.Parallelism,
		h.params.KeyLength,
	)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Version,
		h.params.MemoryKiB,
		h.params.Iterations,
		h.params.Parallelism,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	), nil
}

func (h *Hasher) verify(encoded, candidate string) bool {
	params, salt, expected, err := decodeHash(encoded)
	if err != nil {
		return false
	}

	key := argon2.IDKey(
		[]byte(candidate),
		salt,
		params.Iterations,
		params.MemoryKiB,
		params.Parallelism,
		uint32(len(expected)),
	)

	return subtle.ConstantTimeCompare(key, expected) == 1
}

// decodeHash parses the encoded form and returns params, salt and expected key.
func decodeHash(encoded string) (Argon2idParams, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Argon2idParams{}, nil, nil, fmt.Errorf("unsupported hash format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2Version {
		return Argon2idParams{}, nil, nil, fmt.Errorf("unsupported argon2 version")
	}

	var p Argon2idParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.MemoryKiB, &p.Iterations, &p.Parallelism); err != nil {
		return Argon2idParams{}, nil, nil, fmt.Errorf("malformed hash parameters")
	}
	if p.MemoryKiB == 0 || p.Iterations == 0 || p.Parallelism == 0 {
		return Argon2idParams{}, nil, nil, fmt.Errorf("malformed hash parameters")
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil || len(salt) < 8 {
		return Argon2idParams{}, nil, nil, fmt.Errorf("malformed salt")
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil || len(key) < 16 {
		return Argon2idParams{}, nil, nil, fmt.Errorf("malformed key")
	}

	return p, salt, key, nil
}
