package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	errs "followwatch/pkg/errors"
	"followwatch/pkg/logger"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	key       TEXT PRIMARY KEY,
	channel   TEXT NOT NULL,
	taken_at  TEXT NOT NULL,
	followers TEXT NOT NULL
);
`

// SQLiteStore keeps one row per channel in a SQLite database
type SQLiteStore struct {
	db     *sql.DB
	logger logger.Logger
}

// NewSQLiteStore opens the database at path, creating it and its schema if
// they do not exist.
func NewSQLiteStore(path string, log logger.Logger) (*SQLiteStore, error) {
	log = logger.OrDefault(log)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errs.Wrap(errs.ErrorTypePersistence, err,
				fmt.Sprintf("failed to create database directory %s", dir))
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypePersistence, err, fmt.Sprintf("failed to open database %s", path))
	}
	// one connection keeps writers serialized
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errs.Wrap(errs.ErrorTypePersistence, err, "failed to initialize schema")
	}

	log.DebugWithFields("snapshot database ready", map[string]interface{}{
		"path": path,
	})

	return &SQLiteStore{db: db, logger: log}, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads the channel's row
func (s *SQLiteStore) Load(ctx context.Context, channel string) (*Snapshot, error) {
	key := Key(channel)
	if key == "" {
		return nil, errs.New(errs.ErrorTypePersistence, "empty channel key")
	}

	var (
		storedChannel string
		takenAt       string
		followersJSON string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT channel, taken_at, followers FROM snapshots WHERE key = ?`, key,
	).Scan(&storedChannel, &takenAt, &followersJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(channel)
		}
		return nil, errs.Wrap(errs.ErrorTypePersistence, err, "failed to query snapshot")
	}

	ts, err := time.Parse(time.RFC3339Nano, takenAt)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypePersistence, err, "invalid snapshot timestamp")
	}

	var followers []string
	if err := json.Unmarshal([]byte(followersJSON), &followers); err != nil {
		return nil, errs.Wrap(errs.ErrorTypePersistence, err, "invalid snapshot follower list")
	}

	return New(storedChannel, followers, ts), nil
}

// Save replaces the channel's row inside a transaction
func (s *SQLiteStore) Save(ctx context.Context, snap *Snapshot) error {
	key := snap.Key()
	if key == "" {
		return errs.New(errs.ErrorTypePersistence, "empty channel key")
	}

	followers, err := json.Marshal(snap.Followers())
	if err != nil {
		return errs.Wrap(errs.ErrorTypePersistence, err, "failed to encode follower list")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Wrap(errs.ErrorTypePersistence, err, "failed to begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (key, channel, taken_at, followers) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			channel = excluded.channel,
			taken_at = excluded.taken_at,
			followers = excluded.followers`,
		key, snap.Channel(), snap.Timestamp().UTC().Format(time.RFC3339Nano), string(followers))
	if err != nil {
		s.logger.ErrorWithFields("failed to write snapshot row", map[string]interface{}{
			"channel": snap.Channel(),
			"error":   err.Error(),
		})
		return errs.Wrap(errs.ErrorTypePersistence, err, "failed to write snapshot")
	}

	if err := tx.Commit(); err != nil {
		return errs.Wrap(errs.ErrorTypePersistence, err, "failed to commit snapshot")
	}

	s.logger.DebugWithFields("snapshot saved", map[string]interface{}{
		"channel":   snap.Channel(),
		"followers": snap.Len(),
	})
	return nil
}
