package main

import (
	"fmt"
	"time"

	"followwatch/pkg/config"
	"followwatch/pkg/notify"
	"followwatch/pkg/tracker"
	"followwatch/pkg/ui"

	"github.com/spf13/cobra"
)

var (
	snapshotDir string
	storage     string
	clientID    string
	minInterval time.Duration
	stride      int
	noEmail     bool
	desktop     bool
	dryRun      bool
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update <channel> <recipients>",
	Short: "Fetch followers, store the snapshot and email any changes",
	Long: `Fetch the channel's current followers and compare them to the stored
snapshot. The new list always replaces the snapshot. When anyone followed or
unfollowed since the last run, a report is emailed to every recipient.

Recipients are separated by ';' or ','. The first run for a channel only
records a baseline.`,
	Example: `  # Daily cron job
  followwatch update somestreamer "me@example.com;you@example.com"

  # Compare and store without sending email
  followwatch update somestreamer me@example.com --no-email`,
	Args: cobra.ExactArgs(2),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	addFetchFlags(updateCmd)
	updateCmd.Flags().BoolVar(&noEmail, "no-email", false, "do not send the report by email")
	updateCmd.Flags().BoolVar(&desktop, "desktop", false, "also show a desktop notification")
	updateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "compare without saving or notifying")
}

// addFetchFlags registers the flags shared by commands that query the API
func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&snapshotDir, "snapshot-dir", "", "directory holding snapshot files")
	cmd.Flags().StringVar(&storage, "storage", "", "snapshot backend (file, sqlite)")
	cmd.Flags().StringVar(&clientID, "client-id", "", "Twitch API client ID")
	cmd.Flags().DurationVar(&minInterval, "min-interval", 0, "minimum time between page requests")
	cmd.Flags().IntVar(&stride, "stride", 0, "offset advance between pages")
}

// fetchFlags collects the shared fetch flags as config overrides
func fetchFlags(cmd *cobra.Command) map[string]interface{} {
	flags := map[string]interface{}{
		"snapshot-dir": snapshotDir,
		"storage":      storage,
		"client-id":    clientID,
		"min-interval": minInterval,
		"stride":       stride,
	}
	if cmd.Flags().Changed("desktop") {
		flags["desktop"] = desktop
	}
	return flags
}

func runUpdate(cmd *cobra.Command, args []string) error {
	channel, err := parseChannel(args[0])
	if err != nil {
		return err
	}
	recipients := config.ParseRecipients(args[1])
	if err := config.ValidateRecipients(recipients); err != nil {
		return err
	}

	flags := fetchFlags(cmd)
	flags["no-email"] = noEmail || dryRun

	cfg, err := loadConfig(flags)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	notifier, err := notify.FromConfig(cfg, a.log)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	outcome, err := a.tracker(notifier, dryRun).Update(ctx, channel, recipients)
	if outcome != nil {
		printOutcome(outcome)
	}
	return err
}

// printOutcome writes a short human summary of an update run
func printOutcome(o *tracker.Outcome) {
	if quiet {
		return
	}

	ui.PrintInfo("Channel", o.Current.Channel())
	ui.PrintInfo("Followers", fmt.Sprintf("%d", o.Current.Len()))

	switch o.State {
	case tracker.NoBaseline:
		ui.PrintSuccess("Baseline recorded; changes are reported from the next run")
	case tracker.NoChange:
		ui.PrintInfo("Previous", o.Previous.Timestamp().Local().Format(time.DateTime))
		ui.PrintSuccess("No follower changes")
	case tracker.Reported:
		ui.PrintInfo("Previous", o.Previous.Timestamp().Local().Format(time.DateTime))
		ui.PrintList("Unfollowed", "-", ui.Red, o.Report.Diff.Removed)
		ui.PrintList("New followers", "+", ui.Green, o.Report.Diff.Added)
		if o.NotifyErr != nil {
			ui.PrintWarning("Snapshot saved but the report was not delivered", o.NotifyErr)
		}
	}
}
