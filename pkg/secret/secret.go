package secret

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Service is the name secrets are filed under in the system keychain
const Service = "followwatch"

var (
	// ErrNotFound is returned when no secret exists for an account
	ErrNotFound = errors.New("secret not found")
	// ErrInvalidAccount is returned for an empty account name
	ErrInvalidAccount = errors.New("account name is required")
)

// Store keeps one secret per account name
type Store interface {
	Get(account string) (string, error)
	Set(account, value string) error
	Delete(account string) error
}

// Manager consults several stores in order
type Manager struct {
	stores []Store
}

// NewManager uses the system keychain when it works and an encrypted file in
// dir otherwise. An empty dir selects the per-user config directory.
func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		var err error
		dir, err = ConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
	}

	var stores []Store
	if ks, err := NewKeyringStore(); err == nil {
		stores = append(stores, ks)
	}

	fs, err := NewEncryptedFileStore(filepath.Join(dir, "secrets.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, fs)

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores builds a manager over explicit stores
func NewManagerWithStores(stores ...Store) *Manager {
	return &Manager{stores: stores}
}

// Get returns the first secret found for account
func (m *Manager) Get(account string) (string, error) {
	if account == "" {
		return "", ErrInvalidAccount
	}

	var errs []error
	for _, s := range m.stores {
		value, err := s.Get(account)
		if err == nil {
			return value, nil
		}
		if !errors.Is(err, ErrNotFound) {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return "", fmt.Errorf("%w: %w", ErrNotFound, errors.Join(errs...))
	}
	return "", ErrNotFound
}

// Set writes the secret to the first store that accepts it
func (m *Manager) Set(account, value string) error {
	if account == "" {
		return ErrInvalidAccount
	}

	var errs []error
	for _, s := range m.stores {
		err := s.Set(account, value)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return errors.New("no secret store available")
	}
	return fmt.Errorf("failed to store secret: %w", errors.Join(errs...))
}

// Delete removes the secret from every store holding it
func (m *Manager) Delete(account string) error {
	if account == "" {
		return ErrInvalidAccount
	}

	deleted := false
	var errs []error
	for _, s := range m.stores {
		err := s.Delete(account)
		switch {
		case err == nil:
			deleted = true
		case !errors.Is(err, ErrNotFound):
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// ConfigDir returns the per-user configuration directory, creating it
func ConfigDir() (string, error) {
	var dir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, "Library", "Application Support", "followwatch")
	case "windows":
		dir = filepath.Join(os.Getenv("APPDATA"), "followwatch")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			dir = filepath.Join(xdg, "followwatch")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dir = filepath.Join(home, ".config", "followwatch")
		}
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}
