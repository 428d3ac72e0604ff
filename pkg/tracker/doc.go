// Package tracker runs one follower update for a channel.
//
// An update moves through these steps:
//
//	load baseline -> fetch followers -> diff -> save snapshot -> notify
//
// A missing baseline is normal on the first run: the capture is saved and
// nothing is compared or sent. Load, fetch and save failures abort the run
// and leave the stored baseline as it was. A notifier failure happens after
// the save, so the new baseline is kept and the error is reported in
// Outcome.NotifyErr.
package tracker
