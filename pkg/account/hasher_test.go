package account_test

import (
	"context"
	"strings"
	"testing"

	"github.com/Abraxas-365/gatekeeper/pkg/account"
)

// testParams keeps the tests fast; production costs live in
// DefaultArgon2idParams.
func testParams() account.Argon2idParams {
	return account.Argon2idParams{
		MemoryKiB:   8,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func mustPassword(t *testing.T, raw string) account.Password {
	t.Helper()
	p, err := account.ParsePassword(raw)
	if err != nil {
		t.Fatalf("ParsePassword(%q): %v", raw, err)
	}
	return p
}

func TestHasher_RoundTrip(t *testing.T) {
	h := account.NewHasher(testParams(), 2)
	ctx := context.Background()
	password := mustPassword(t, "Password123!")

	encoded, err := h.Hash(ctx, password)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %q", encoded)
	}
	if strings.Contains(encoded, password.Expose()) {
		t.Fatal("encoded hash contains the raw password")
	}

	ok, err := h.Verify(ctx, encoded, password)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("correct password did not verify")
	}

	ok, err = h.Verify(ctx, encoded, mustPassword(t, "Wrong456789!"))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatal("wrong password verified")
	}
}

func TestHasher_SaltsAreUnique(t *testing.T) {
	h := account.NewHasher(testParams(), 2)
	ctx := context.Background()
	password := mustPassword(t, "Password123!")

	first, err := h.Hash(ctx, password)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	second, err := h.Hash(ctx, password)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password are identical")
	}
}

func TestHasher_MalformedHashVerifiesFalse(t *testing.T) {
	h := account.NewHasher(testParams(), 2)
	ctx := context.Background()
	password := mustPassword(t, "Password123!")

	for _, encoded := range []string{
		"",
		"not-a-hash",
		"$argon2i$v=19$m=8,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$AAAA",
		"$argon2id$v=18$m=8,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$AAAA",
		"$argon2id$v=19$m=0,t=0,p=0$c2FsdHNhbHRzYWx0c2FsdA$AAAA",
		"$argon2id$v=19$m=8,t=1,p=1$!!!$AAAA",
	} {
		ok, err := h.Verify(ctx, encoded, password)
		if err != nil {
			t.Errorf("Verify(%q) errored: %v", encoded, err)
			continue
		}
		if ok {
			t.Errorf("Verify(%q) = true for malformed hash", encoded)
		}
	}
}
