package secret

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringStore keeps secrets in the system keychain
type KeyringStore struct{}

// NewKeyringStore returns a store if the keychain accepts a probe write
func NewKeyringStore() (*KeyringStore, error) {
	const probe = "availability_probe"
	if err := keyring.Set(Service, probe, "ok"); err != nil {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(Service, probe)

	return &KeyringStore{}, nil
}

func (k *KeyringStore) Get(account string) (string, error) {
	if account == "" {
		return "", ErrInvalidAccount
	}

	value, err := keyring.Get(Service, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read from keyring: %w", err)
	}
	return value, nil
}

func (k *KeyringStore) Set(account, value string) error {
	if account == "" {
		return ErrInvalidAccount
	}
	if err := keyring.Set(Service, account, value); err != nil {
		return fmt.Errorf("failed to write to keyring: %w", err)
	}
	return nil
}

func (k *KeyringStore) Delete(account string) error {
	if account == "" {
		return ErrInvalidAccount
	}

	if err := keyring.Delete(Service, account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}
