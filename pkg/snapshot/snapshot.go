package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	errs "followwatch/pkg/errors"
)

// Snapshot is one channel's follower list at one point in time. It is never
// modified after construction.
type Snapshot struct {
	channel   string
	timestamp time.Time
	followers []string
}

// record is the stored form of a Snapshot
type record struct {
	Channel   string    `json:"channel"`
	Timestamp time.Time `json:"timestamp"`
	Followers []string  `json:"followers"`
}

// New creates a snapshot with a private copy of followers
func New(channel string, followers []string, ts time.Time) *Snapshot {
	list := make([]string, len(followers))
	copy(list, followers)
	return &Snapshot{channel: channel, timestamp: ts, followers: list}
}

// Capture creates a snapshot stamped with now in UTC
func Capture(channel string, followers []string, now time.Time) *Snapshot {
	return New(channel, followers, now.UTC())
}

func (s *Snapshot) Channel() string      { return s.channel }
func (s *Snapshot) Timestamp() time.Time { return s.timestamp }
func (s *Snapshot) Len() int             { return len(s.followers) }

// Followers returns a copy of the follower list in capture order
func (s *Snapshot) Followers() []string {
	list := make([]string, len(s.followers))
	copy(list, s.followers)
	return list
}

// Key returns the store key for the snapshot's channel
func (s *Snapshot) Key() string {
	return Key(s.channel)
}

// MarshalJSON encodes the snapshot as {channel, timestamp, followers}
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	followers := s.followers
	if followers == nil {
		followers = []string{}
	}
	return json.Marshal(record{
		Channel:   s.channel,
		Timestamp: s.timestamp.UTC(),
		Followers: followers,
	})
}

// UnmarshalJSON decodes a stored record
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	if r.Channel == "" {
		return fmt.Errorf("snapshot record has no channel")
	}
	*s = *New(r.Channel, r.Followers, r.Timestamp)
	return nil
}

// Key folds a channel name into the key its snapshot is stored under
func Key(channel string) string {
	return strings.ToLower(strings.TrimSpace(channel))
}

// validKey rejects keys that cannot name a single record
func validKey(key string) error {
	if key == "" {
		return errs.New(errs.ErrorTypePersistence, "empty channel key")
	}
	if key == "." || key == ".." || strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return errs.New(errs.ErrorTypePersistence, fmt.Sprintf("invalid channel key %q", key))
	}
	return nil
}

// Store persists the latest snapshot of each channel. Load fails with a
// not_found error when the channel has no snapshot. Save replaces the
// channel's previous snapshot atomically.
type Store interface {
	Load(ctx context.Context, channel string) (*Snapshot, error)
	Save(ctx context.Context, s *Snapshot) error
}

// notFound builds the error returned for a channel without a snapshot
func notFound(channel string) error {
	return errs.New(errs.ErrorTypeNotFound, fmt.Sprintf("no snapshot for channel %q", channel))
}
