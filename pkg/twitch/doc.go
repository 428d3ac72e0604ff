// Package twitch provides a client for the kraken channel follows endpoint.
//
// The client fetches one page at a time and maps HTTP failures to the typed
// errors in pkg/errors. It does not paginate or retry on its own; see
// pkg/fetcher for the paging loop.
//
//	client := twitch.NewClient(twitch.BaseURL, 30*time.Second, log)
//	client.SetClientID(cfg.Twitch.ClientID)
//	names, err := client.FollowsPage(ctx, "shroud", 100, 0, twitch.DirectionAsc)
package twitch
