package twitch

import "time"

// FollowsResponse is one page of the follows endpoint. Follows is a pointer
// so a body without the key can be told apart from an empty page.
type FollowsResponse struct {
	Total   int       `json:"_total"`
	Follows *[]Follow `json:"follows"`
}

// Follow is a single follow relationship
type Follow struct {
	CreatedAt     time.Time `json:"created_at"`
	Notifications bool      `json:"notifications"`
	User          User      `json:"user"`
}

// User is the following account
type User struct {
	ID          int64  `json:"_id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// Identity returns the name a follower is tracked by: the login name, or the
// display name when the login is missing.
func (u User) Identity() string {
	if u.Name != "" {
		return u.Name
	}
	return u.DisplayName
}
