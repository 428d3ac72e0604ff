// Package ratelimit paces requests to the follows endpoint.
//
// Interval is the limiter the fetcher uses by default: it guarantees that
// two consecutive requests start at least the configured duration apart,
// sleeping only for the part of the interval not already spent elsewhere.
// TokenBucket adds an optional per-minute cap, and Chain combines limiters.
//
//	limiter := ratelimit.ForConfig(time.Second, 0)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
//	// issue the request
package ratelimit
