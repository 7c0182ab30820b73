package store

import (
	"errors"
	"testing"
	"time"

	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
)

func TestKeyringTokenStore_Token(t *testing.T) {
	keyring.MockInit()
	k := NewKeyringTokenStore()

	if _, err := k.LoadToken("acc-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadToken() on empty keyring error = %v, want ErrNotFound", err)
	}

	want := &oauth2.Token{AccessToken: "at", RefreshToken: "rt", Expiry: time.Unix(1700000000, 0).UTC()}
	if err := k.SaveToken("acc-1", want); err != nil {
		t.Fatalf("SaveToken() error: %v", err)
	}
	got, err := k.LoadToken("acc-1")
	if err != nil {
		t.Fatalf("LoadToken() error: %v", err)
	}
	if got.RefreshToken != "rt" {
		t.Errorf("RefreshToken = %q, want %q", got.RefreshToken, "rt")
	}
	if !got.Expiry.Equal(want.Expiry) {
		t.Errorf("Expiry = %v, want %v", got.Expiry, want.Expiry)
	}

	if err := k.DeleteToken("acc-1"); err != nil {
		t.Fatalf("DeleteToken() error: %v", err)
	}
	if err := k.DeleteToken("acc-1"); err != nil {
		t.Errorf("second DeleteToken() error: %v", err)
	}
}

func TestKeyringTokenStore_APIKey(t *testing.T) {
	keyring.MockInit()
	k := NewKeyringTokenStore()

	if _, err := k.LoadAPIKey(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadAPIKey() error = %v, want ErrNotFound", err)
	}
	if err := k.SaveAPIKey("sk-test"); err != nil {
		t.Fatalf("SaveAPIKey() error: %v", err)
	}
	got, err := k.LoadAPIKey()
	if err != nil {
		t.Fatalf("LoadAPIKey() error: %v", err)
	}
	if got != "sk-test" {
		t.Errorf("LoadAPIKey() = %q, want %q", got, "sk-test")
	}
	if err := k.DeleteAPIKey(); err != nil {
		t.Fatalf("DeleteAPIKey() error: %v", err)
	}
	if _, err := k.LoadAPIKey(); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadAPIKey() after delete error = %v, want ErrNotFound", err)
	}
}
