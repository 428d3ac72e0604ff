package secret

import (
	"errors"

	"followwatch/pkg/config"
)

// FillEmailPassword loads the SMTP password for cfg.Username from store when
// the environment did not provide one. A missing secret is not an error; the
// notifier reports it when it is actually needed.
func FillEmailPassword(cfg *config.EmailConfig, store Store) error {
	if !cfg.Enabled || cfg.Password != "" || cfg.Username == "" {
		return nil
	}

	password, err := store.Get(cfg.Username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	cfg.Password = password
	return nil
}
