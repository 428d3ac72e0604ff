package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for followwatch
type Config struct {
	// Remote follows endpoint
	Twitch TwitchConfig `yaml:"twitch" json:"twitch"`

	// Request pacing
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Snapshot store
	Storage StorageConfig `yaml:"storage" json:"storage"`

	// Report delivery by email
	Email EmailConfig `yaml:"email" json:"email"`

	// Additional notification channels
	Notifications NotificationConfig `yaml:"notifications" json:"notifications"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TwitchConfig holds the follows endpoint configuration
type TwitchConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	ClientID  string        `yaml:"client_id" json:"client_id"`
	Accept    string        `yaml:"accept" json:"accept"`
	PageSize  int           `yaml:"page_size" json:"page_size"`
	Stride    int           `yaml:"stride" json:"stride"`
	Direction string        `yaml:"direction" json:"direction"`
	MaxPages  int           `yaml:"max_pages" json:"max_pages"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// RateLimitConfig holds request pacing configuration
type RateLimitConfig struct {
	// MinInterval is the minimum time between the starts of two page requests
	MinInterval time.Duration `yaml:"min_interval" json:"min_interval"`
	// RequestsPerMinute adds a token bucket cap on top of MinInterval; 0 disables it
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// StorageConfig selects and configures the snapshot store
type StorageConfig struct {
	Backend    string `yaml:"backend" json:"backend"`
	Directory  string `yaml:"directory" json:"directory"`
	SQLitePath string `yaml:"sqlite_path" json:"sqlite_path"`
}

// EmailConfig holds SMTP delivery settings. The password is never read from
// the config file; it comes from the environment or the system keychain.
type EmailConfig struct {
	Enabled     bool          `yaml:"enabled" json:"enabled"`
	Host        string        `yaml:"host" json:"host"`
	Port        int           `yaml:"port" json:"port"`
	Username    string        `yaml:"username" json:"username"`
	Password    string        `yaml:"-" json:"-"`
	FromName    string        `yaml:"from_name" json:"from_name"`
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	RetryDelay  time.Duration `yaml:"retry_delay" json:"retry_delay"`
}

// NotificationConfig holds the non-email notification preferences
type NotificationConfig struct {
	Desktop bool `yaml:"desktop" json:"desktop"`
	Log     bool `yaml:"log" json:"log"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level" json:"level"`
	File       string `yaml:"file" json:"file"`
	MaxSize    int    `yaml:"max_size" json:"max_size"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	MaxAge     int    `yaml:"max_age" json:"max_age"`
	Compress   bool   `yaml:"compress" json:"compress"`
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	// MaxPageSize is the largest page the follows endpoint accepts
	MaxPageSize = 100
)

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Twitch: TwitchConfig{
			BaseURL:   "https://api.twitch.tv/kraken",
			Accept:    "application/vnd.twitchtv.v3+json",
			PageSize:  100,
			Stride:    80,
			Direction: "asc",
			MaxPages:  0,
			Timeout:   30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			MinInterval:       time.Second,
			RequestsPerMinute: 0,
		},
		Storage: StorageConfig{
			Backend:    BackendFile,
			Directory:  "./snapshots",
			SQLitePath: "./snapshots/followwatch.db",
		},
		Email: EmailConfig{
			Enabled:     true,
			Host:        "smtp.gmail.com",
			Port:        587,
			FromName:    "unfollowerbot",
			MaxAttempts: 3,
			RetryDelay:  2 * time.Second,
		},
		Notifications: NotificationConfig{
			Desktop: false,
			Log:     true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   false,
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if clientID := os.Getenv("FOLLOWWATCH_CLIENT_ID"); clientID != "" {
		c.Twitch.ClientID = clientID
	}
	if baseURL := os.Getenv("FOLLOWWATCH_API_URL"); baseURL != "" {
		c.Twitch.BaseURL = baseURL
	}

	if interval := os.Getenv("FOLLOWWATCH_MIN_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			errs = append(errs, fmt.Errorf("FOLLOWWATCH_MIN_INTERVAL: %w", err))
		} else {
			c.RateLimit.MinInterval = d
		}
	}

	if backend := os.Getenv("FOLLOWWATCH_STORAGE_BACKEND"); backend != "" {
		c.Storage.Backend = strings.ToLower(backend)
	}
	if dir := os.Getenv("FOLLOWWATCH_SNAPSHOT_DIR"); dir != "" {
		c.Storage.Directory = dir
	}
	if dbPath := os.Getenv("FOLLOWWATCH_SQLITE_PATH"); dbPath != "" {
		c.Storage.SQLitePath = dbPath
	}

	if enabled := os.Getenv("FOLLOWWATCH_EMAIL_ENABLED"); enabled != "" {
		c.Email.Enabled = strings.ToLower(enabled) == "true"
	}
	if host := os.Getenv("FOLLOWWATCH_SMTP_HOST"); host != "" {
		c.Email.Host = host
	}
	if port := os.Getenv("FOLLOWWATCH_SMTP_PORT"); port != "" {
		val, err := strconv.Atoi(port)
		if err != nil {
			errs = append(errs, fmt.Errorf("FOLLOWWATCH_SMTP_PORT: %w", err))
		} else {
			c.Email.Port = val
		}
	}
	if user := os.Getenv("FOLLOWWATCH_SMTP_USERNAME"); user != "" {
		c.Email.Username = user
	}
	if password := os.Getenv("FOLLOWWATCH_SMTP_PASSWORD"); password != "" {
		c.Email.Password = password
	} else if legacy := os.Getenv("UNFOLLOWERBOT_EMAIL_PASSWORD"); legacy != "" {
		c.Email.Password = legacy
	}

	if logLevel := os.Getenv("FOLLOWWATCH_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("FOLLOWWATCH_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".followwatch.yaml",
		".followwatch.yml",
		filepath.Join(home, ".config", "followwatch", "config.yaml"),
		filepath.Join(home, ".config", "followwatch", "config.yml"),
		filepath.Join(home, ".followwatch.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Twitch.BaseURL == "" {
		errs = append(errs, errors.New("twitch base URL is required"))
	}
	if c.Twitch.PageSize <= 0 || c.Twitch.PageSize > MaxPageSize {
		errs = append(errs, fmt.Errorf("page size must be between 1 and %d", MaxPageSize))
	}
	// A stride larger than the page would skip followers between pages.
	if c.Twitch.Stride <= 0 || c.Twitch.Stride > c.Twitch.PageSize {
		errs = append(errs, errors.New("stride must be positive and not exceed the page size"))
	}
	switch strings.ToLower(c.Twitch.Direction) {
	case "asc", "desc":
	default:
		errs = append(errs, errors.New("direction must be asc or desc"))
	}
	if c.Twitch.MaxPages < 0 {
		errs = append(errs, errors.New("max pages cannot be negative"))
	}
	if c.Twitch.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.RateLimit.MinInterval <= 0 {
		errs = append(errs, errors.New("minimum request interval must be positive"))
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("requests per minute cannot be negative"))
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.Directory == "" {
			errs = append(errs, errors.New("snapshot directory is required"))
		}
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite path is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.Storage.Backend))
	}

	if c.Email.Enabled {
		if c.Email.Host == "" {
			errs = append(errs, errors.New("SMTP host is required when email is enabled"))
		}
		if c.Email.Port <= 0 {
			errs = append(errs, errors.New("SMTP port must be positive"))
		}
		if c.Email.Username == "" {
			errs = append(errs, errors.New("SMTP username is required when email is enabled"))
		}
		if c.Email.MaxAttempts <= 0 {
			errs = append(errs, errors.New("email max attempts must be positive"))
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

var recipientValidator = validator.New()

// ValidateRecipients checks that every recipient is a well-formed address
func ValidateRecipients(recipients []string) error {
	if len(recipients) == 0 {
		return errors.New("at least one recipient is required")
	}

	var errs []error
	for _, r := range recipients {
		if err := recipientValidator.Var(r, "required,email"); err != nil {
			errs = append(errs, fmt.Errorf("invalid recipient %q", r))
		}
	}
	return errors.Join(errs...)
}

// ParseRecipients splits a ';' or ',' separated recipient list
func ParseRecipients(list string) []string {
	fields := strings.FieldsFunc(list, func(r rune) bool {
		return r == ';' || r == ','
	})

	recipients := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			recipients = append(recipients, f)
		}
	}
	return recipients
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if dir, ok := flags["snapshot-dir"].(string); ok && dir != "" {
		c.Storage.Directory = dir
	}
	if backend, ok := flags["storage"].(string); ok && backend != "" {
		c.Storage.Backend = strings.ToLower(backend)
	}
	if clientID, ok := flags["client-id"].(string); ok && clientID != "" {
		c.Twitch.ClientID = clientID
	}
	if interval, ok := flags["min-interval"].(time.Duration); ok && interval > 0 {
		c.RateLimit.MinInterval = interval
	}
	if stride, ok := flags["stride"].(int); ok && stride > 0 {
		c.Twitch.Stride = stride
	}
	if noEmail, ok := flags["no-email"].(bool); ok && noEmail {
		c.Email.Enabled = false
	}
	if desktop, ok := flags["desktop"].(bool); ok {
		c.Notifications.Desktop = desktop
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile, ok := flags["log-file"].(string); ok && logFile != "" {
		c.Logging.File = logFile
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Missing .env files are fine
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".followwatch.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
