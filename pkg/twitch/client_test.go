package twitch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	errs "followwatch/pkg/errors"
	"followwatch/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer serves handler and returns a client pointed at it
func newTestServer(t *testing.T, log logger.Logger, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second, log)
}

func followsBody(names ...string) string {
	entries := make([]string, 0, len(names))
	for _, n := range names {
		entries = append(entries, fmt.Sprintf(
			`{"created_at":"2017-03-01T12:00:00Z","notifications":false,"user":{"_id":1,"name":%q,"display_name":%q}}`,
			strings.ToLower(n), n))
	}
	return fmt.Sprintf(`{"_total":%d,"follows":[%s]}`, len(names), strings.Join(entries, ","))
}

func TestNewClient(t *testing.T) {
	client := NewClient("", 30*time.Second, nil)

	assert.Equal(t, BaseURL, client.baseURL)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	assert.Equal(t, AcceptV3, client.headers["Accept"])
	assert.NotNil(t, client.logger)
}

func TestFollowsPage(t *testing.T) {
	var gotPath, gotQuery, gotAccept, gotClientID string
	client := newTestServer(t, logger.NewTestLogger(), func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAccept = r.Header.Get("Accept")
		gotClientID = r.Header.Get("Client-ID")
		fmt.Fprint(w, followsBody("Alice", "bob"))
	})
	client.SetClientID("abc123")

	names, err := client.FollowsPage(context.Background(), "somechannel", 100, 80, DirectionAsc)
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob"}, names)
	assert.Equal(t, "/channels/somechannel/follows", gotPath)
	assert.Equal(t, "direction=ASC&limit=100&offset=80", gotQuery)
	assert.Equal(t, AcceptV3, gotAccept)
	assert.Equal(t, "abc123", gotClientID)
}

func TestFollowsPageEmpty(t *testing.T) {
	client := newTestServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"_total":0,"follows":[]}`)
	})

	names, err := client.FollowsPage(context.Background(), "quiet", 100, 0, DirectionAsc)
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestFollowsPageDisplayNameFallback(t *testing.T) {
	client := newTestServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"follows":[{"user":{"display_name":"OnlyDisplay"}}]}`)
	})

	names, err := client.FollowsPage(context.Background(), "c", 100, 0, DirectionAsc)
	require.NoError(t, err)
	assert.Equal(t, []string{"OnlyDisplay"}, names)
}

func TestFollowsPageMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{"follows": [`},
		{name: "missing follows", body: `{"_total": 3}`},
		{name: "null follows", body: `{"follows": null}`},
		{name: "user without name", body: `{"follows":[{"user":{}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			})

			names, err := client.FollowsPage(context.Background(), "c", 100, 0, DirectionAsc)
			require.Error(t, err)
			assert.Nil(t, names)
			assert.True(t, errs.Is(err, errs.ErrorTypeParsing))
		})
	}
}

func TestFollowsPageStatusErrors(t *testing.T) {
	tests := []struct {
		status   int
		expected errs.ErrorType
	}{
		{http.StatusUnauthorized, errs.ErrorTypeAuth},
		{http.StatusForbidden, errs.ErrorTypeAuth},
		{http.StatusNotFound, errs.ErrorTypeNotFound},
		{http.StatusTooManyRequests, errs.ErrorTypeRateLimit},
		{http.StatusBadGateway, errs.ErrorTypeServerError},
		{http.StatusTeapot, errs.ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client := newTestServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := client.FollowsPage(context.Background(), "c", 100, 0, DirectionAsc)
			require.Error(t, err)

			var apiErr *errs.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.expected, apiErr.Type)
			assert.Equal(t, tt.status, apiErr.Code)
		})
	}
}

func TestFollowsPageNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	tl := logger.NewTestLogger()
	client := NewClient(url, time.Second, tl)

	_, err := client.FollowsPage(context.Background(), "c", 100, 0, DirectionAsc)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrorTypeNetwork))
	assert.True(t, tl.HasMessage("HTTP request failed"))
}

func TestFollowsPageLogsBodyPreview(t *testing.T) {
	tl := logger.NewTestLogger()
	client := newTestServer(t, tl, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, strings.Repeat("x", 500))
	})

	_, err := client.FollowsPage(context.Background(), "c", 100, 0, DirectionAsc)
	require.Error(t, err)

	errorsLogged := tl.GetMessagesByLevel("ERROR")
	require.Len(t, errorsLogged, 1)
	preview, ok := errorsLogged[0].Fields["body_preview"].(string)
	require.True(t, ok)
	assert.Len(t, preview, 203)
}

func TestFollowsPageContextCancelled(t *testing.T) {
	client := newTestServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, followsBody("a"))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FollowsPage(ctx, "c", 100, 0, DirectionAsc)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
