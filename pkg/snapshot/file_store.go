package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	errs "followwatch/pkg/errors"
	"followwatch/pkg/logger"
)

// FileStore keeps one JSON file per channel in a directory
type FileStore struct {
	dir    string
	logger logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFileStore creates the directory if needed and returns a store over it
func NewFileStore(dir string, log logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errs.Wrap(errs.ErrorTypePersistence, err, "failed to create snapshot directory")
	}

	return &FileStore{
		dir:    dir,
		logger: logger.OrDefault(log),
		locks:  make(map[string]*sync.Mutex),
	}, nil
}

// Path returns the file a channel's snapshot is stored in
func (fs *FileStore) Path(channel string) string {
	return filepath.Join(fs.dir, Key(channel)+".json")
}

// lock returns the mutex serializing access to one key
func (fs *FileStore) lock(key string) *sync.Mutex {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	l, ok := fs.locks[key]
	if !ok {
		l = &sync.Mutex{}
		fs.locks[key] = l
	}
	return l
}

// Load reads the channel's snapshot
func (fs *FileStore) Load(ctx context.Context, channel string) (*Snapshot, error) {
	key := Key(channel)
	if err := validKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrorTypePersistence, err, "load cancelled")
	}

	l := fs.lock(key)
	l.Lock()
	defer l.Unlock()

	path := fs.Path(channel)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(channel)
		}
		return nil, errs.Wrap(errs.ErrorTypePersistence, err, "failed to read snapshot file")
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		fs.logger.ErrorWithFields("failed to decode snapshot", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return nil, errs.Wrap(errs.ErrorTypePersistence, err, fmt.Sprintf("failed to decode snapshot %s", path))
	}

	fs.logger.DebugWithFields("snapshot loaded", map[string]interface{}{
		"channel":   s.Channel(),
		"followers": s.Len(),
		"taken_at":  s.Timestamp(),
	})

	return &s, nil
}

// Save writes the snapshot to a temporary file in the same directory and
// renames it over the previous one, so readers see either the old record or
// the new one.
func (fs *FileStore) Save(ctx context.Context, s *Snapshot) error {
	key := s.Key()
	if err := validKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(errs.ErrorTypePersistence, err, "save cancelled")
	}

	l := fs.lock(key)
	l.Lock()
	defer l.Unlock()

	path := fs.Path(s.Channel())
	file, err := os.CreateTemp(fs.dir, key+".*.tmp")
	if err != nil {
		return errs.Wrap(errs.ErrorTypePersistence, err, "failed to create temporary snapshot file")
	}
	tempPath := file.Name()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s); err != nil {
		file.Close()
		os.Remove(tempPath)
		return errs.Wrap(errs.ErrorTypePersistence, err, "failed to encode snapshot")
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return errs.Wrap(errs.ErrorTypePersistence, err, "failed to sync snapshot file")
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return errs.Wrap(errs.ErrorTypePersistence, err, "failed to close snapshot file")
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errs.Wrap(errs.ErrorTypePersistence, err, "failed to replace snapshot file")
	}

	fs.logger.DebugWithFields("snapshot saved", map[string]interface{}{
		"channel":   s.Channel(),
		"followers": s.Len(),
		"path":      path,
	})

	return nil
}
