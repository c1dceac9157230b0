// Package kvutil provides helpers for NATS JetStream KeyValue buckets.
package kvutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	defaultAttempts   = 3
	defaultBackoff    = 10 * time.Millisecond
	defaultMaxBackoff = 500 * time.Millisecond
)

// Retry controls how EnsureBucket retries a failed create or open.
type Retry struct {
	// Attempts is the total number of tries (default: 3).
	Attempts int

	// Backoff is the base delay between tries (default: 10ms).
	Backoff time.Duration

	// MaxBackoff caps the jittered delay (default: 500ms).
	MaxBackoff time.Duration
}

func (r Retry) normalized() Retry {
	if r.Attempts <= 0 {
		r.Attempts = defaultAttempts
	}
	if r.Backoff <= 0 {
		r.Backoff = defaultBackoff
	}
	if r.MaxBackoff <= 0 {
		r.MaxBackoff = defaultMaxBackoff
	}

	return r
}

// EnsureBucket creates or opens a KV bucket.
//
// Two CLI invocations may race to create the same bucket; the loser sees
// ErrBucketExists and opens the bucket instead. Other failures are retried
// with jittered backoff until the attempts run out or ctx is done.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - js: JetStream context
//   - cfg: KV bucket configuration
//   - retry: Retry policy, zero value uses the defaults
//
// Returns:
//   - jetstream.KeyValue: The KV bucket instance
//   - error: Last error after all attempts, or the context error
//
// Example:
//
//	kv, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
//	    Bucket:  "tawzi-final",
//	    History: 10,
//	}, kvutil.Retry{})
func EnsureBucket(ctx context.Context, js jetstream.JetStream, cfg jetstream.KeyValueConfig, retry Retry) (jetstream.KeyValue, error) {
	retry = retry.normalized()

	var (
		lastErr error
		delay   time.Duration
	)
	for attempt := range retry.Attempts {
		kv, err := js.CreateKeyValue(ctx, cfg)
		if err == nil {
			return kv, nil
		}

		if errors.Is(err, jetstream.ErrBucketExists) {
			kv, openErr := js.KeyValue(ctx, cfg.Bucket)
			if openErr == nil {
				return kv, nil
			}
			lastErr = fmt.Errorf("bucket exists but failed to open: %w", openErr)
		} else {
			lastErr = err
		}

		if ctx.Err() != nil {
			return nil, fmt.Errorf("context done while ensuring KV bucket %s: %w", cfg.Bucket, ctx.Err())
		}

		if attempt < retry.Attempts-1 {
			delay = jitterBackoff(delay, retry.Backoff, backoffMultiplier, retry.MaxBackoff, nil)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return nil, fmt.Errorf("failed to create/open KV bucket %s after %d attempts: %w",
		cfg.Bucket, retry.Attempts, lastErr)
}
