package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
)

const (
	serviceName = "escalytics"

	// apiKeyUser is the keyring entry holding the text-generation API key.
	apiKeyUser = "generation-api-key"
)

// KeyringTokenStore persists OAuth2 tokens and the generation API key in the
// OS keyring (macOS Keychain, Windows Credential Manager, or Linux Secret
// Service).
type KeyringTokenStore struct{}

// NewKeyringTokenStore returns a new KeyringTokenStore.
func NewKeyringTokenStore() *KeyringTokenStore {
	return &KeyringTokenStore{}
}

// SaveToken stores the given OAuth2 token in the OS keyring under the account ID.
func (k *KeyringTokenStore) SaveToken(accountID string, token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := keyring.Set(serviceName, accountID, string(data)); err != nil {
		return fmt.Errorf("failed to save token to keyring: %w", err)
	}
	return nil
}

// LoadToken retrieves the OAuth2 token for the given account ID from the OS keyring.
func (k *KeyringTokenStore) LoadToken(accountID string) (*oauth2.Token, error) {
	data, err := get(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load token from keyring: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal([]byte(data), &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token: %w", err)
	}
	return &token, nil
}

// DeleteToken removes the OAuth2 token for the given account ID from the OS keyring.
func (k *KeyringTokenStore) DeleteToken(accountID string) error {
	if err := keyring.Delete(serviceName, accountID); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}

// SaveAPIKey stores the text-generation API key.
func (k *KeyringTokenStore) SaveAPIKey(key string) error {
	if err := keyring.Set(serviceName, apiKeyUser, key); err != nil {
		return fmt.Errorf("failed to save api key to keyring: %w", err)
	}
	return nil
}

// LoadAPIKey returns the stored API key, or ErrNotFound.
func (k *KeyringTokenStore) LoadAPIKey() (string, error) {
	key, err := get(apiKeyUser)
	if err != nil {
		return "", fmt.Errorf("failed to load api key from keyring: %w", err)
	}
	return key, nil
}

// DeleteAPIKey removes the stored API key. Deleting a missing key is not an error.
func (k *KeyringTokenStore) DeleteAPIKey() error {
	if err := keyring.Delete(serviceName, apiKeyUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete api key from keyring: %w", err)
	}
	return nil
}

func get(user string) (string, error) {
	data, err := keyring.Get(serviceName, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	return data, err
}
