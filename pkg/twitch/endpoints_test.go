package twitch

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowsURL(t *testing.T) {
	tests := []struct {
		name      string
		channel   string
		limit     int
		offset    int
		direction string
		expected  string
	}{
		{
			name:      "first page",
			channel:   "streamer",
			limit:     100,
			offset:    0,
			direction: DirectionAsc,
			expected:  BaseURL + "/channels/streamer/follows?direction=ASC&limit=100&offset=0",
		},
		{
			name:      "later page descending",
			channel:   "streamer",
			limit:     50,
			offset:    160,
			direction: DirectionDesc,
			expected:  BaseURL + "/channels/streamer/follows?direction=DESC&limit=50&offset=160",
		},
		{
			name:     "defaults applied",
			channel:  "streamer",
			limit:    0,
			offset:   -5,
			expected: BaseURL + "/channels/streamer/follows?direction=ASC&limit=100&offset=0",
		},
		{
			name:      "limit clamped",
			channel:   "streamer",
			limit:     500,
			direction: DirectionAsc,
			expected:  BaseURL + "/channels/streamer/follows?direction=ASC&limit=100&offset=0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FollowsURL(BaseURL, tt.channel, tt.limit, tt.offset, tt.direction)
			assert.Equal(t, tt.expected, result)

			_, err := url.Parse(result)
			require.NoError(t, err)
		})
	}
}

func TestFollowsURLTrimsBase(t *testing.T) {
	assert.Equal(t,
		"http://localhost/channels/x/follows?direction=ASC&limit=10&offset=0",
		FollowsURL("http://localhost/", "x", 10, 0, "asc"))
}

func TestProfileURL(t *testing.T) {
	assert.Equal(t, "https://www.twitch.tv/somebody", ProfileURL("SomeBody"))
	assert.Equal(t, "", ProfileURL(""))
}

func TestIsValidChannel(t *testing.T) {
	tests := []struct {
		channel string
		valid   bool
	}{
		{"streamer", true},
		{"Stream_er_01", true},
		{"", false},
		{"has space", false},
		{"dots.not.allowed", false},
		{"abcdefghijklmnopqrstuvwxyz", false},
	}

	for _, tt := range tests {
		t.Run(tt.channel, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidChannel(tt.channel))
		})
	}
}

func TestSanitizeChannel(t *testing.T) {
	assert.Equal(t, "streamer", SanitizeChannel("  #streamer "))
	assert.Equal(t, "streamer", SanitizeChannel("@streamer"))
	assert.Equal(t, "streamer", SanitizeChannel("https://www.twitch.tv/streamer/"))
}
