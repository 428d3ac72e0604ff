package main

import (
	"fmt"
	"time"

	errs "followwatch/pkg/errors"
	"followwatch/pkg/twitch"
	"followwatch/pkg/ui"

	"github.com/spf13/cobra"
)

var showProfiles bool

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <channel>",
	Short: "Print the stored follower snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVar(&snapshotDir, "snapshot-dir", "", "directory holding snapshot files")
	showCmd.Flags().StringVar(&storage, "storage", "", "snapshot backend (file, sqlite)")
	showCmd.Flags().BoolVar(&showProfiles, "links", false, "print profile URLs instead of names")
}

func runShow(cmd *cobra.Command, args []string) error {
	channel, err := parseChannel(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(map[string]interface{}{
		"snapshot-dir": snapshotDir,
		"storage":      storage,
		"no-email":     true,
	})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.store.Load(cmd.Context(), channel)
	if errs.IsNotFound(err) {
		ui.PrintWarning("No snapshot stored for " + channel)
		return nil
	}
	if err != nil {
		return err
	}

	ui.PrintInfo("Channel", snap.Channel())
	ui.PrintInfo("Taken", snap.Timestamp().Local().Format(time.DateTime))

	followers := snap.Followers()
	if showProfiles {
		for i, name := range followers {
			followers[i] = twitch.ProfileURL(name)
		}
	}
	ui.PrintList("Followers", "*", ui.Dim, followers)
	return nil
}
