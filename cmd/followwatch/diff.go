package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// diffCmd represents the diff command
var diffCmd = &cobra.Command{
	Use:   "diff <channel>",
	Short: "Show follower changes since the stored snapshot without saving",
	Long: `Fetch the channel's current followers and print the difference from the
stored snapshot. Nothing is saved and no report is sent.`,
	Example: `  followwatch diff somestreamer`,
	Args:    cobra.ExactArgs(1),
	RunE:    runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
	addFetchFlags(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	channel, err := parseChannel(args[0])
	if err != nil {
		return err
	}

	flags := fetchFlags(cmd)
	flags["no-email"] = true

	cfg, err := loadConfig(flags)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	outcome, err := a.tracker(nil, true).Update(ctx, channel, nil)
	if err != nil {
		return err
	}
	printOutcome(outcome)
	return nil
}
