package snapshot

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCopiesFollowers(t *testing.T) {
	followers := []string{"a", "b"}
	s := New("Chan", followers, time.Now())

	followers[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, s.Followers())

	got := s.Followers()
	got[1] = "changed"
	assert.Equal(t, []string{"a", "b"}, s.Followers())
}

func TestCaptureUsesUTC(t *testing.T) {
	loc := time.FixedZone("test", 5*3600)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, loc)

	s := Capture("chan", nil, now)
	assert.Equal(t, time.UTC, s.Timestamp().Location())
	assert.True(t, now.Equal(s.Timestamp()))
	assert.Equal(t, 0, s.Len())
}

func TestKey(t *testing.T) {
	assert.Equal(t, "somechannel", Key("SomeChannel"))
	assert.Equal(t, "somechannel", New(" SOMECHANNEL ", nil, time.Time{}).Key())
}

func TestSnapshotJSON(t *testing.T) {
	ts := time.Date(2024, 3, 9, 8, 30, 15, 123456789, time.UTC)
	s := New("StreamerName", []string{"Zed", "amy", "Bob"}, ts)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"channel":"StreamerName","timestamp":"2024-03-09T08:30:15.123456789Z","followers":["Zed","amy","Bob"]}`,
		string(data))

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "StreamerName", decoded.Channel())
	assert.True(t, ts.Equal(decoded.Timestamp()))
	assert.Equal(t, []string{"Zed", "amy", "Bob"}, decoded.Followers())
}

func TestSnapshotJSONEmptyFollowers(t *testing.T) {
	data, err := json.Marshal(New("c", nil, time.Unix(0, 0)))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"followers":[]`)
}

func TestSnapshotUnmarshalRejectsMissingChannel(t *testing.T) {
	var s Snapshot
	err := json.Unmarshal([]byte(`{"timestamp":"2024-01-01T00:00:00Z","followers":[]}`), &s)
	assert.Error(t, err)
}

func TestValidKey(t *testing.T) {
	assert.NoError(t, validKey("streamer_1"))
	assert.Error(t, validKey(""))
	assert.Error(t, validKey(".."))
	assert.Error(t, validKey("a/b"))
	assert.Error(t, validKey(`a\b`))
}
