package main

import (
	"fmt"
	"os"

	"followwatch/pkg/config"
	"followwatch/pkg/ui"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage followwatch configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (FOLLOWWATCH_*)
  - .env files
  - Configuration file
  - Default values (lowest priority)`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created as 'followwatch.yaml' in the current directory unless a
different path is given with --config.`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging every source. The SMTP password is
never printed.`,
	RunE: runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

const exampleConfig = `# followwatch configuration file
#
# Every option can also be set with an environment variable, for example
# FOLLOWWATCH_CLIENT_ID, FOLLOWWATCH_SNAPSHOT_DIR or FOLLOWWATCH_SMTP_USERNAME.

# Follows endpoint
twitch:
  base_url: "https://api.twitch.tv/kraken"
  # Client-ID header sent with every request
  client_id: ""
  accept: "application/vnd.twitchtv.v3+json"
  # Entries per page, at most 100
  page_size: 100
  # Offset advance per page. Keep it below page_size so pages overlap and
  # followers that shift position between requests are not missed.
  stride: 80
  direction: "asc"
  # Give up after this many pages; 0 means no limit
  max_pages: 0
  timeout: 30s

# Request pacing
rate_limit:
  # Minimum time between two page requests; must be positive
  min_interval: 1s
  # Optional per-minute cap; 0 disables it
  requests_per_minute: 0

# Snapshot storage
storage:
  # file or sqlite
  backend: "file"
  directory: "./snapshots"
  sqlite_path: "./snapshots/followwatch.db"

# Report email. The password is read from FOLLOWWATCH_SMTP_PASSWORD or from
# the secret store ('followwatch secret set'), never from this file.
email:
  enabled: true
  host: "smtp.gmail.com"
  port: 587
  username: ""
  from_name: "unfollowerbot"
  max_attempts: 3
  retry_delay: 2s

notifications:
  # Show a desktop notification when followers change
  desktop: false
  # Log the full report
  log: true

logging:
  # debug, info, warn, error
  level: "info"
  # Optional JSON log file, rotated by size
  file: ""
  max_size: 100
  max_backups: 3
  max_age: 7
  compress: false
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = "followwatch.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Fprintln(ui.Output, "\nNext steps:")
	fmt.Fprintln(ui.Output, "1. Set your SMTP username and Twitch client ID")
	fmt.Fprintln(ui.Output, "2. Store the SMTP password with 'followwatch secret set'")
	fmt.Fprintln(ui.Output, "3. Run 'followwatch config validate'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(map[string]interface{}{})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	fmt.Fprint(ui.Output, string(data))
	fmt.Fprintln(ui.Output)
	ui.PrintInfo("SMTP password", passwordState(cfg))
	if configFile != "" {
		ui.PrintInfo("Configuration file", configFile)
	}
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(map[string]interface{}{})
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	var warnings []string
	if cfg.Twitch.ClientID == "" {
		warnings = append(warnings, "no Twitch client ID configured")
	}
	if cfg.Email.Enabled && cfg.Email.Password == "" {
		warnings = append(warnings, "email is enabled but no SMTP password is available")
	}
	if cfg.Twitch.Stride == cfg.Twitch.PageSize {
		warnings = append(warnings, "stride equals page size; followers shifting between pages can be missed")
	}
	for _, w := range warnings {
		ui.PrintWarning(w)
	}

	ui.PrintSuccess("Configuration is valid")
	ui.PrintInfo("Storage", describeStorage(cfg.Storage))
	ui.PrintInfo("Paging", fmt.Sprintf("%d per page, stride %d, %s between requests",
		cfg.Twitch.PageSize, cfg.Twitch.Stride, cfg.RateLimit.MinInterval))
	return nil
}

func passwordState(cfg *config.Config) string {
	switch {
	case !cfg.Email.Enabled:
		return "not needed"
	case cfg.Email.Password != "":
		return "set"
	default:
		return "missing"
	}
}

func describeStorage(s config.StorageConfig) string {
	if s.Backend == config.BackendSQLite {
		return "sqlite " + s.SQLitePath
	}
	return "files in " + s.Directory
}
