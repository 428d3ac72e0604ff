package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	errs "followwatch/pkg/errors"
	"followwatch/pkg/identity"
	"followwatch/pkg/logger"
	"followwatch/pkg/notify"
	"followwatch/pkg/report"
	"followwatch/pkg/snapshot"
)

// Fetcher returns a channel's complete follower list
type Fetcher interface {
	Fetch(ctx context.Context, channel string) ([]string, error)
}

// State is how an update run ended
type State int

const (
	// NoBaseline means the channel had no stored snapshot; nothing was compared
	NoBaseline State = iota
	// NoChange means the follower list matched the baseline
	NoChange
	// Reported means followers changed and the report was handed to the notifier
	Reported
)

func (s State) String() string {
	switch s {
	case NoBaseline:
		return "no_baseline"
	case NoChange:
		return "no_change"
	case Reported:
		return "reported"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome describes a completed update
type Outcome struct {
	State    State
	Previous *snapshot.Snapshot
	Current  *snapshot.Snapshot
	// Report is set when the diff was not empty
	Report *report.Report
	// NotifyErr is the delivery failure, if any. The new snapshot is stored
	// regardless.
	NotifyErr error
}

// Options tunes an update run
type Options struct {
	// DryRun fetches and compares without saving or notifying
	DryRun bool
	// Now stamps new snapshots; defaults to time.Now
	Now func() time.Time
}

// Tracker runs updates for one channel at a time
type Tracker struct {
	store    snapshot.Store
	fetcher  Fetcher
	notifier notify.Notifier
	opts     Options
	logger   logger.Logger
}

// New creates a Tracker. A nil notifier discards reports.
func New(store snapshot.Store, fetcher Fetcher, notifier notify.Notifier, opts Options, log logger.Logger) *Tracker {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Tracker{
		store:    store,
		fetcher:  fetcher,
		notifier: notifier,
		opts:     opts,
		logger:   logger.OrDefault(log),
	}
}

// Update loads the channel's baseline, captures the current follower list,
// stores it as the new baseline and notifies recipients when followers
// changed. The snapshot is saved before notifying; on any error returned
// before that point the stored baseline is untouched.
func (t *Tracker) Update(ctx context.Context, channel string, recipients []string) (*Outcome, error) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return nil, errs.New(errs.ErrorTypeConfig, "channel is required")
	}

	log := t.logger.WithField("channel", channel)

	previous, err := t.store.Load(ctx, channel)
	switch {
	case err == nil:
		log.InfoWithFields("loaded baseline", map[string]interface{}{
			"followers": previous.Len(),
			"taken_at":  previous.Timestamp(),
		})
	case errs.IsNotFound(err):
		log.Info("no baseline snapshot, this run records one")
		previous = nil
	default:
		log.WithError(err).Error("failed to load baseline")
		return nil, errs.Wrap(errs.ErrorTypePersistence, err, "failed to load baseline snapshot")
	}

	followers, err := t.fetcher.Fetch(ctx, channel)
	if err != nil {
		log.WithError(err).Error("failed to fetch followers")
		return nil, errs.Wrap(errs.ErrorTypeFetch, err, fmt.Sprintf("failed to fetch followers of %s", channel))
	}

	current := snapshot.Capture(channel, followers, t.opts.Now())
	outcome := &Outcome{Previous: previous, Current: current}

	if previous == nil {
		outcome.State = NoBaseline
	} else {
		diff := identity.Diff(previous.Followers(), current.Followers())
		if diff.Empty() {
			outcome.State = NoChange
			log.Info("no follower changes")
		} else {
			outcome.State = Reported
			outcome.Report = report.New(previous, current, diff)
			log.InfoWithFields("follower changes found", map[string]interface{}{
				"removed": len(diff.Removed),
				"added":   len(diff.Added),
			})
		}
	}

	if t.opts.DryRun {
		log.InfoWithFields("dry run, nothing saved", map[string]interface{}{
			"state": outcome.State.String(),
		})
		return outcome, nil
	}

	if err := t.store.Save(ctx, current); err != nil {
		log.WithError(err).Error("failed to save snapshot")
		return nil, errs.Wrap(errs.ErrorTypePersistence, err, "failed to save snapshot")
	}
	log.InfoWithFields("saved snapshot", map[string]interface{}{
		"followers": current.Len(),
	})

	if outcome.State != Reported {
		return outcome, nil
	}

	log.InfoWithFields("sending report", map[string]interface{}{
		"recipients": strings.Join(recipients, ", "),
	})
	if err := t.notifier.Notify(ctx, recipients, outcome.Report); err != nil {
		outcome.NotifyErr = err
		log.WithError(err).Error("failed to deliver report; new baseline kept")
		return outcome, errs.Wrap(errs.ErrorTypeNotify, err, "failed to deliver report")
	}

	return outcome, nil
}
