package websocket

import (
	"testing"
	"time"
)

func TestTokenStoreClaimOnce(t *testing.T) {
	store := NewTokenStore(time.Minute)
	defer store.Close()

	token := store.Mint("user-1")

	userID, ok := store.Claim(token)
	if !ok {
		t.Fatal("first claim failed")
	}
	if userID != "user-1" {
		t.Fatalf("claimed user %q, want user-1", userID)
	}

	if _, ok := store.Claim(token); ok {
		t.Fatal("second claim of the same token succeeded")
	}
}

func TestTokenStoreUnknownToken(t *testing.T) {
	store := NewTokenStore(time.Minute)
	defer store.Close()

	if _, ok := store.Claim("never-minted"); ok {
		t.Fatal("claim of an unknown token succeeded")
	}
}

func TestTokenStoreExpiry(t *testing.T) {
	store := NewTokenStore(10 * time.Millisecond)
	defer store.Close()

	token := store.Mint("user-1")
	time.Sleep(30 * time.Millisecond)

	if _, ok := store.Claim(token); ok {
		t.Fatal("claim of an expired token succeeded")
	}
	// An expired token stays dead on replay.
	if _, ok := store.Claim(token); ok {
		t.Fatal("replay of an expired token succeeded")
	}
}

func TestTokenStoreDistinctTokensPerMint(t *testing.T) {
	store := NewTokenStore(time.Minute)
	defer store.Close()

	a := store.Mint("user-1")
	b := store.Mint("user-1")
	if a == b {
		t.Fatal("two mints produced the same token")
	}

	if userID, ok := store.Claim(a); !ok || userID != "user-1" {
		t.Fatalf("claim of first token: ok=%v user=%q", ok, userID)
	}
	if userID, ok := store.Claim(b); !ok || userID != "user-1" {
		t.Fatalf("claim of second token: ok=%v user=%q", ok, userID)
	}
}
