package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Email.Username = "unfollowerbot@example.com"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 100, cfg.Twitch.PageSize)
	assert.Equal(t, 80, cfg.Twitch.Stride)
	assert.Equal(t, "asc", cfg.Twitch.Direction)
	assert.Equal(t, "application/vnd.twitchtv.v3+json", cfg.Twitch.Accept)
	assert.Equal(t, time.Second, cfg.RateLimit.MinInterval)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "./snapshots", cfg.Storage.Directory)
	assert.Equal(t, "smtp.gmail.com", cfg.Email.Host)
	assert.Equal(t, 587, cfg.Email.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FOLLOWWATCH_CLIENT_ID", "abc123")
	t.Setenv("FOLLOWWATCH_MIN_INTERVAL", "250ms")
	t.Setenv("FOLLOWWATCH_STORAGE_BACKEND", "SQLite")
	t.Setenv("FOLLOWWATCH_SNAPSHOT_DIR", "/tmp/snaps")
	t.Setenv("FOLLOWWATCH_SMTP_PORT", "2525")
	t.Setenv("FOLLOWWATCH_SMTP_USERNAME", "bot@example.com")
	t.Setenv("FOLLOWWATCH_SMTP_PASSWORD", "hunter2")
	t.Setenv("FOLLOWWATCH_EMAIL_ENABLED", "false")
	t.Setenv("FOLLOWWATCH_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "abc123", cfg.Twitch.ClientID)
	assert.Equal(t, 250*time.Millisecond, cfg.RateLimit.MinInterval)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/snaps", cfg.Storage.Directory)
	assert.Equal(t, 2525, cfg.Email.Port)
	assert.Equal(t, "bot@example.com", cfg.Email.Username)
	assert.Equal(t, "hunter2", cfg.Email.Password)
	assert.False(t, cfg.Email.Enabled)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvLegacyPassword(t *testing.T) {
	t.Setenv("FOLLOWWATCH_SMTP_PASSWORD", "")
	t.Setenv("UNFOLLOWERBOT_EMAIL_PASSWORD", "legacy-secret")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())
	assert.Equal(t, "legacy-secret", cfg.Email.Password)
}

func TestLoadFromEnvInvalidValues(t *testing.T) {
	t.Setenv("FOLLOWWATCH_MIN_INTERVAL", "soon")
	t.Setenv("FOLLOWWATCH_SMTP_PORT", "eighty")

	cfg := DefaultConfig()
	err := cfg.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOLLOWWATCH_MIN_INTERVAL")
	assert.Contains(t, err.Error(), "FOLLOWWATCH_SMTP_PORT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{
			name:    "page size too large",
			mutate:  func(c *Config) { c.Twitch.PageSize = 250 },
			wantErr: "page size",
		},
		{
			name:    "stride larger than page",
			mutate:  func(c *Config) { c.Twitch.Stride = 120 },
			wantErr: "stride",
		},
		{
			name:   "stride equal to page size",
			mutate: func(c *Config) { c.Twitch.Stride = 100 },
		},
		{
			name:    "bad direction",
			mutate:  func(c *Config) { c.Twitch.Direction = "sideways" },
			wantErr: "direction",
		},
		{
			name:    "negative interval",
			mutate:  func(c *Config) { c.RateLimit.MinInterval = -time.Second },
			wantErr: "interval",
		},
		{
			name:    "zero interval",
			mutate:  func(c *Config) { c.RateLimit.MinInterval = 0 },
			wantErr: "interval",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Storage.Backend = "s3" },
			wantErr: "unknown storage backend",
		},
		{
			name: "sqlite without path",
			mutate: func(c *Config) {
				c.Storage.Backend = BackendSQLite
				c.Storage.SQLitePath = ""
			},
			wantErr: "sqlite path",
		},
		{
			name:    "email enabled without username",
			mutate:  func(c *Config) { c.Email.Username = "" },
			wantErr: "SMTP username",
		},
		{
			name: "email disabled without username",
			mutate: func(c *Config) {
				c.Email.Enabled = false
				c.Email.Username = ""
			},
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "followwatch.yaml")
	content := `
twitch:
  client_id: from-file
  stride: 100
rate_limit:
  min_interval: 1500ms
storage:
  backend: sqlite
  sqlite_path: /var/lib/followwatch/db.sqlite
email:
  username: bot@example.com
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "from-file", cfg.Twitch.ClientID)
	assert.Equal(t, 100, cfg.Twitch.Stride)
	assert.Equal(t, 100, cfg.Twitch.PageSize, "unset keys keep their defaults")
	assert.Equal(t, 1500*time.Millisecond, cfg.RateLimit.MinInterval)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "bot@example.com", cfg.Email.Username)
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := validConfig()
	cfg.Email.Password = "never-written"
	cfg.Twitch.ClientID = "saved"

	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "never-written")

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, "saved", loaded.Twitch.ClientID)
	assert.Empty(t, loaded.Email.Password)
}

func TestLoadPrecedence(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
storage:
  directory: /from/file
email:
  username: file@example.com
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("FOLLOWWATCH_LOG_LEVEL", "error")
	t.Setenv("FOLLOWWATCH_SNAPSHOT_DIR", "/from/env")

	cfg, err := Load(path, map[string]interface{}{
		"snapshot-dir": "/from/flag",
	})
	require.NoError(t, err)

	assert.Equal(t, "/from/flag", cfg.Storage.Directory)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "file@example.com", cfg.Email.Username)
}

func TestLoadFailsValidation(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FOLLOWWATCH_SMTP_USERNAME", "")

	_, err := Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")

	cfg, err := Load("", map[string]interface{}{"no-email": true})
	require.NoError(t, err)
	assert.False(t, cfg.Email.Enabled)
}

func TestValidateRecipients(t *testing.T) {
	assert.NoError(t, ValidateRecipients([]string{"a@example.com", "b.c@example.org"}))

	err := ValidateRecipients([]string{"a@example.com", "not-an-address"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not-an-address")

	assert.Error(t, ValidateRecipients(nil))
}

func TestParseRecipients(t *testing.T) {
	got := ParseRecipients(" a@example.com;b@example.com, ;c@example.com ")
	assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com"}, got)
	assert.Empty(t, ParseRecipients(""))
}
