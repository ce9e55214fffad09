package sessioninfra

import (
	"context"
	"testing"
	"time"
)

func TestMemoryBannedTokenStore_BanAndCheck(t *testing.T) {
	store := NewMemoryBannedTokenStore(15 * time.Minute)
	ctx := context.Background()

	banned, err := store.IsBanned(ctx, "token-a")
	if err != nil {
		t.Fatalf("IsBanned: %v", err)
	}
	if banned {
		t.Fatal("unseen token reported banned")
	}

	if err := store.BanToken(ctx, "token-a"); err != nil {
		t.Fatalf("BanToken: %v", err)
	}

	banned, err = store.IsBanned(ctx, "token-a")
	if err != nil {
		t.Fatalf("IsBanned: %v", err)
	}
	if !banned {
		t.Fatal("banned token reported clean")
	}

	// Other tokens are unaffected.
	banned, err = store.IsBanned(ctx, "token-b")
	if err != nil {
		t.Fatalf("IsBanned: %v", err)
	}
	if banned {
		t.Fatal("unrelated token reported banned")
	}
}

func TestMemoryBannedTokenStore_BanExpires(t *testing.T) {
	store := NewMemoryBannedTokenStore(15 * time.Minute)
	ctx := context.Background()

	current := time.Now()
	store.now = func() time.Time { return current }

	if err := store.BanToken(ctx, "token-a"); err != nil {
		t.Fatalf("BanToken: %v", err)
	}

	current = current.Add(14 * time.Minute)
	if banned, _ := store.IsBanned(ctx, "token-a"); !banned {
		t.Fatal("ban dropped before the token could have expired")
	}

	// Past the ban TTL the token itself has expired; the entry is garbage.
	current = current.Add(2 * time.Minute)
	if banned, _ := store.IsBanned(ctx, "token-a"); banned {
		t.Fatal("ban outlived its TTL")
	}
	if _, exists := store.entries["token-a"]; exists {
		t.Fatal("expired entry not dropped on lookup")
	}
}
