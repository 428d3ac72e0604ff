package twitch

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// BaseURL is the root of the kraken API
	BaseURL = "https://api.twitch.tv/kraken"

	// AcceptV3 pins the kraken response format
	AcceptV3 = "application/vnd.twitchtv.v3+json"

	// DefaultPageSize is the number of follows requested per page
	DefaultPageSize = 100

	// MaxPageSize is the largest page the endpoint accepts
	MaxPageSize = 100

	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

// FollowsURL constructs the URL for one page of a channel's followers
func FollowsURL(baseURL, channel string, limit, offset int, direction string) string {
	if limit <= 0 {
		limit = DefaultPageSize
	} else if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	if direction == "" {
		direction = DirectionAsc
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("direction", strings.ToUpper(direction))

	return fmt.Sprintf("%s/channels/%s/follows?%s",
		strings.TrimRight(baseURL, "/"), url.PathEscape(channel), params.Encode())
}

// ProfileURL returns the public channel page for a user
func ProfileURL(name string) string {
	if name == "" {
		return ""
	}
	return "https://www.twitch.tv/" + url.PathEscape(strings.ToLower(name))
}

// IsValidChannel checks a channel name against Twitch login rules:
// 1 to 25 characters of letters, digits and underscores.
func IsValidChannel(channel string) bool {
	if channel == "" || len(channel) > 25 {
		return false
	}

	for _, char := range channel {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '_') {
			return false
		}
	}

	return true
}

// SanitizeChannel strips a leading '#' or '@', a profile URL prefix and
// trailing slashes or spaces.
func SanitizeChannel(channel string) string {
	channel = strings.TrimSpace(channel)
	channel = strings.TrimPrefix(channel, "https://www.twitch.tv/")
	channel = strings.TrimPrefix(channel, "https://twitch.tv/")
	channel = strings.TrimLeft(channel, "#@")
	return strings.TrimRight(channel, "/ ")
}
