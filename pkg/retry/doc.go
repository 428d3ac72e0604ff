// Package retry provides backoff and retry logic for transient failures.
//
// followwatch only retries report delivery. Page fetches are never retried:
// a failed page aborts the whole fetch so the stored baseline stays intact.
//
//	err := retry.Do(ctx, func(ctx context.Context) error {
//		return client.DialAndSendWithContext(ctx, msg)
//	}, &retry.Config{
//		MaxAttempts: 3,
//		Backoff:     retry.DefaultExponentialBackoff(),
//		Logger:      log,
//	})
package retry
