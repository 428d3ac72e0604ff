package snapshot

import (
	"fmt"

	"followwatch/pkg/config"
	errs "followwatch/pkg/errors"
	"followwatch/pkg/logger"
)

// Open builds the store selected by cfg. The returned function releases it.
func Open(cfg config.StorageConfig, log logger.Logger) (Store, func() error, error) {
	switch cfg.Backend {
	case "", config.BackendFile:
		fs, err := NewFileStore(cfg.Directory, log)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() error { return nil }, nil
	case config.BackendSQLite:
		db, err := NewSQLiteStore(cfg.SQLitePath, log)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		return nil, nil, errs.New(errs.ErrorTypeConfig, fmt.Sprintf("unknown storage backend %q", cfg.Backend))
	}
}
