// Package identity compares follower lists without regard to letter case.
//
// Twitch does not keep the casing of a display name stable, so "Alice" in
// one capture and "alice" in the next are the same follower. Diff reports
// each changed follower once, using the casing from the most recent capture
// it appeared in.
package identity
