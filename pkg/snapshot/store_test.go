package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"followwatch/pkg/config"
	errs "followwatch/pkg/errors"
	"followwatch/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactories lets every contract test run against both backends
func storeFactories() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"file": func(t *testing.T) Store {
			fs, err := NewFileStore(filepath.Join(t.TempDir(), "snapshots"), logger.NewTestLogger())
			require.NoError(t, err)
			return fs
		},
		"sqlite": func(t *testing.T) Store {
			db, err := NewSQLiteStore(filepath.Join(t.TempDir(), "db", "followwatch.db"), logger.NewTestLogger())
			require.NoError(t, err)
			t.Cleanup(func() { db.Close() })
			return db
		},
	}
}

func TestStoreLoadMissing(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := factory(t)

			s, err := store.Load(context.Background(), "nobody")
			require.Error(t, err)
			assert.Nil(t, s)
			assert.True(t, errs.IsNotFound(err))
		})
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ts := time.Date(2024, 6, 1, 10, 0, 0, 500, time.UTC)

	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			ctx := context.Background()

			require.NoError(t, store.Save(ctx, New("MixedCase", []string{"b", "A", "c"}, ts)))

			// the key is case-insensitive, the payload is not
			loaded, err := store.Load(ctx, "mixedcase")
			require.NoError(t, err)
			assert.Equal(t, "MixedCase", loaded.Channel())
			assert.True(t, ts.Equal(loaded.Timestamp()))
			assert.Equal(t, []string{"b", "A", "c"}, loaded.Followers())
		})
	}
}

func TestStoreSaveReplaces(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			ctx := context.Background()

			require.NoError(t, store.Save(ctx, New("chan", []string{"old1", "old2"}, time.Unix(100, 0))))
			require.NoError(t, store.Save(ctx, New("CHAN", []string{"new"}, time.Unix(200, 0))))

			loaded, err := store.Load(ctx, "Chan")
			require.NoError(t, err)
			assert.Equal(t, "CHAN", loaded.Channel())
			assert.Equal(t, []string{"new"}, loaded.Followers())
			assert.Equal(t, int64(200), loaded.Timestamp().Unix())
		})
	}
}

func TestStoreKeysAreIndependent(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			ctx := context.Background()

			require.NoError(t, store.Save(ctx, New("one", []string{"x"}, time.Unix(1, 0))))
			require.NoError(t, store.Save(ctx, New("two", []string{"y"}, time.Unix(2, 0))))

			one, err := store.Load(ctx, "one")
			require.NoError(t, err)
			two, err := store.Load(ctx, "two")
			require.NoError(t, err)
			assert.Equal(t, []string{"x"}, one.Followers())
			assert.Equal(t, []string{"y"}, two.Followers())
		})
	}
}

func TestStoreEmptyFollowers(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			ctx := context.Background()

			require.NoError(t, store.Save(ctx, New("quiet", nil, time.Unix(1, 0))))
			loaded, err := store.Load(ctx, "quiet")
			require.NoError(t, err)
			assert.Empty(t, loaded.Followers())
		})
	}
}

func TestStoreConcurrentSaves(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			ctx := context.Background()

			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					followers := []string{fmt.Sprintf("f%d", i), fmt.Sprintf("g%d", i)}
					assert.NoError(t, store.Save(ctx, New("busy", followers, time.Unix(int64(i), 0))))
				}(i)
			}
			wg.Wait()

			loaded, err := store.Load(ctx, "busy")
			require.NoError(t, err)
			got := loaded.Followers()
			require.Len(t, got, 2)
			// both entries come from the same writer
			assert.Equal(t, strings.TrimPrefix(got[0], "f"), strings.TrimPrefix(got[1], "g"))
		})
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir, nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, fs.Save(context.Background(), New("chan", []string{"a"}, time.Unix(int64(i), 0))))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "chan.json", entries[0].Name())
}

func TestFileStoreFileFormat(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir, nil)
	require.NoError(t, err)

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, fs.Save(context.Background(), New("Streamer", []string{"Viewer"}, ts)))

	data, err := os.ReadFile(filepath.Join(dir, "streamer.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"channel":"Streamer","timestamp":"2024-01-02T03:04:05Z","followers":["Viewer"]}`, string(data))
}

func TestFileStoreCorruptRecord(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir, logger.NewTestLogger())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(fs.Path("broken"), []byte(`{"channel":`), 0644))

	_, err = fs.Load(context.Background(), "broken")
	require.Error(t, err)
	assert.False(t, errs.IsNotFound(err))
	assert.True(t, errs.Is(err, errs.ErrorTypePersistence))
}

func TestFileStoreFailedSaveKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, fs.Save(ctx, New("chan", []string{"keep"}, time.Unix(1, 0))))
	before, err := os.ReadFile(fs.Path("chan"))
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	require.Error(t, fs.Save(cancelled, New("chan", []string{"lost"}, time.Unix(2, 0))))

	after, err := os.ReadFile(fs.Path("chan"))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestFileStoreRejectsPathChannels(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)

	err = fs.Save(context.Background(), New("../escape", []string{"a"}, time.Now()))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrorTypePersistence))

	_, err = fs.Load(context.Background(), "a/b")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	store, closeFn, err := Open(config.StorageConfig{Backend: config.BackendFile, Directory: dir}, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)
	assert.NoError(t, closeFn())

	store, closeFn, err = Open(config.StorageConfig{
		Backend:    config.BackendSQLite,
		SQLitePath: filepath.Join(dir, "s.db"),
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	assert.NoError(t, closeFn())

	_, _, err = Open(config.StorageConfig{Backend: "redis"}, nil)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrorTypeConfig))
}
