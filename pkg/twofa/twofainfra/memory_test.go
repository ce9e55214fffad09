package twofainfra

import (
	"context"
	"testing"
	"time"

	"github.com/Abraxas-365/gatekeeper/pkg/account"
	"github.com/Abraxas-365/gatekeeper/pkg/errx"
	"github.com/Abraxas-365/gatekeeper/pkg/twofa"
)

func testEmail(t *testing.T) account.Email {
	t.Helper()
	email, err := account.ParseEmail("alice@example.com")
	if err != nil {
		t.Fatalf("ParseEmail: %v", err)
	}
	return email
}

func testChallenge(t *testing.T) (twofa.LoginAttemptID, twofa.Code) {
	t.Helper()
	code, err := twofa.NewCode()
	if err != nil {
		t.Fatalf("NewCode: %v", err)
	}
	return twofa.NewLoginAttemptID(), code
}

func TestMemoryCodeStore_AddGetRemove(t *testing.T) {
	store := NewMemoryCodeStore(10 * time.Minute)
	ctx := context.Background()
	email := testEmail(t)
	attemptID, code := testChallenge(t)

	if err := store.AddCode(ctx, email, attemptID, code); err != nil {
		t.Fatalf("AddCode: %v", err)
	}

	gotID, gotCode, err := store.GetCode(ctx, email)
	if err != nil {
		t.Fatalf("GetCode: %v", err)
	}
	if gotID.String() != attemptID.String() || gotCode.String() != code.String() {
		t.Fatal("stored pair does not match")
	}

	if err := store.RemoveCode(ctx, email); err != nil {
		t.Fatalf("RemoveCode: %v", err)
	}
	if _, _, err := store.GetCode(ctx, email); !errx.IsCode(err, twofa.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND after removal, got %v", err)
	}
}

func TestMemoryCodeStore_AddOverwrites(t *testing.T) {
	store := NewMemoryCodeStore(10 * time.Minute)
	ctx := context.Background()
	email := testEmail(t)

	firstID, firstCode := testChallenge(t)
	if err := store.AddCode(ctx, email, firstID, firstCode); err != nil {
		t.Fatalf("AddCode: %v", err)
	}

	secondID, secondCode := testChallenge(t)
	if err := store.AddCode(ctx, email, secondID, secondCode); err != nil {
		t.Fatalf("AddCode: %v", err)
	}

	gotID, gotCode, err := store.GetCode(ctx, email)
	if err != nil {
		t.Fatalf("GetCode: %v", err)
	}
	if gotID.String() != secondID.String() || gotCode.String() != secondCode.String() {
		t.Fatal("second challenge did not replace the first")
	}
}

func TestMemoryCodeStore_RemoveMissingIsNoop(t *testing.T) {
	store := NewMemoryCodeStore(10 * time.Minute)

	if err := store.RemoveCode(context.Background(), testEmail(t)); err != nil {
		t.Fatalf("RemoveCode on missing entry: %v", err)
	}
}

func TestMemoryCodeStore_Expiry(t *testing.T) {
	store := NewMemoryCodeStore(10 * time.Minute)
	ctx := context.Background()
	email := testEmail(t)
	attemptID, code := testChallenge(t)

	current := time.Now()
	store.now = func() time.Time { return current }

	if err := store.AddCode(ctx, email, attemptID, code); err != nil {
		t.Fatalf("AddCode: %v", err)
	}

	current = current.Add(9 * time.Minute)
	if _, _, err := store.GetCode(ctx, email); err != nil {
		t.Fatalf("entry expired early: %v", err)
	}

	current = current.Add(2 * time.Minute)
	if _, _, err := store.GetCode(ctx, email); !errx.IsCode(err, twofa.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND after expiry, got %v", err)
	}
}
