// Package fetcher walks a paged follows endpoint until it runs dry.
//
// Each request asks for PageSize entries at the current offset, then the
// offset advances by Stride. With the default stride of 80 and page size of
// 100 consecutive pages overlap by 20 entries, which absorbs followers
// shifting position between requests. Overlapping entries are collapsed so
// the result lists each identity once, in the order it was first seen.
//
// The first empty page ends the loop. Requests are paced by a
// ratelimit.Limiter and a failed page is never retried.
package fetcher
