package fetcher

import (
	"context"
	"fmt"
	"time"

	errs "followwatch/pkg/errors"
	"followwatch/pkg/logger"
	"followwatch/pkg/ratelimit"
)

// PageSource returns one page of a channel's follower identities. An empty
// result means there is no more data.
type PageSource interface {
	FollowsPage(ctx context.Context, channel string, limit, offset int, direction string) ([]string, error)
}

// Options controls the paging loop
type Options struct {
	// PageSize is the number of entries requested per page
	PageSize int
	// Stride is how far the offset advances after each page. A stride
	// smaller than PageSize makes consecutive pages overlap.
	Stride int
	// Direction is the ordering passed to the endpoint
	Direction string
	// MaxPages stops the loop with an error after this many pages; 0 means
	// no limit.
	MaxPages int
}

// DefaultOptions returns the paging parameters used against kraken
func DefaultOptions() Options {
	return Options{
		PageSize:  100,
		Stride:    80,
		Direction: "asc",
	}
}

// Validate checks that the stride never skips entries
func (o Options) Validate() error {
	if o.PageSize <= 0 {
		return errs.New(errs.ErrorTypeConfig, "page size must be positive")
	}
	if o.Stride <= 0 || o.Stride > o.PageSize {
		return errs.New(errs.ErrorTypeConfig,
			fmt.Sprintf("stride must be between 1 and page size (%d), got %d", o.PageSize, o.Stride))
	}
	if o.MaxPages < 0 {
		return errs.New(errs.ErrorTypeConfig, "max pages cannot be negative")
	}
	return nil
}

// Fetcher collects a channel's complete follower list page by page
type Fetcher struct {
	source  PageSource
	limiter ratelimit.Limiter
	opts    Options
	logger  logger.Logger
}

// New creates a Fetcher. A nil limiter disables pacing.
func New(source PageSource, limiter ratelimit.Limiter, opts Options, log logger.Logger) *Fetcher {
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}
	return &Fetcher{
		source:  source,
		limiter: limiter,
		opts:    opts,
		logger:  logger.OrDefault(log),
	}
}

// Fetch requests pages until one comes back empty and returns the union of
// every identity seen, in order of first appearance. Any page failure fails
// the whole fetch; nothing partial is returned.
func (f *Fetcher) Fetch(ctx context.Context, channel string) ([]string, error) {
	if err := f.opts.Validate(); err != nil {
		return nil, err
	}

	log := f.logger.WithField("channel", channel)
	start := time.Now()

	// Pacing is scoped to this call
	f.limiter.Reset()

	seen := make(map[string]struct{})
	followers := make([]string, 0)
	offset := 0

	for page := 1; ; page++ {
		if f.opts.MaxPages > 0 && page > f.opts.MaxPages {
			log.ErrorWithFields("page limit reached before end of data", map[string]interface{}{
				"max_pages": f.opts.MaxPages,
				"collected": len(followers),
			})
			return nil, errs.New(errs.ErrorTypeFetch,
				fmt.Sprintf("no empty page after %d pages", f.opts.MaxPages))
		}

		if err := f.limiter.Wait(ctx); err != nil {
			return nil, errs.Wrap(errs.ErrorTypeFetch, err, "rate limiter wait cancelled")
		}

		batch, err := f.source.FollowsPage(ctx, channel, f.opts.PageSize, offset, f.opts.Direction)
		if err != nil {
			log.WithError(err).ErrorWithFields("page request failed", map[string]interface{}{
				"page":   page,
				"offset": offset,
			})
			return nil, errs.Wrap(errs.ErrorTypeFetch, err,
				fmt.Sprintf("failed to fetch page %d (offset %d)", page, offset))
		}

		if len(batch) == 0 {
			log.InfoWithFields("fetch complete", map[string]interface{}{
				"pages":     page,
				"followers": len(followers),
				"duration":  time.Since(start).String(),
			})
			return followers, nil
		}

		added := 0
		for _, name := range batch {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			followers = append(followers, name)
			added++
		}

		log.DebugWithFields("page fetched", map[string]interface{}{
			"page":   page,
			"offset": offset,
			"batch":  len(batch),
			"new":    added,
		})

		offset += f.opts.Stride
	}
}
