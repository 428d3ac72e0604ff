// Package snapshot stores the most recent follower list of each channel.
//
// A Snapshot is immutable: its follower slice is copied on the way in and on
// the way out. Stores are keyed by the lower-cased channel name while the
// record keeps the channel as it was given.
//
// Two backends are provided. FileStore writes <dir>/<key>.json through a
// temporary file and rename. SQLiteStore keeps a row per channel and
// replaces it inside a transaction. Both return a not_found error from
// pkg/errors when a channel has no snapshot yet.
package snapshot
