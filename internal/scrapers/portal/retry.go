package portal

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds how often a page that is not yet rendered is fetched again.
type RetryPolicy struct {
	// MaxAttempts is the total number of fetches per load, 0 means unbounded.
	MaxAttempts int
	// FallbackAfter is the attempt after which assignments show a placeholder
	// message while they keep retrying.
	FallbackAfter int
	// InitialDelay is the first delay between attempts, it grows exponentially
	// up to MaxDelay. 0 retries immediately.
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   30,
		FallbackAfter: 10,
		InitialDelay:  250 * time.Millisecond,
		MaxDelay:      5 * time.Second,
	}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff = &backoff.ZeroBackOff{}
	if p.InitialDelay > 0 {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = p.InitialDelay
		if p.MaxDelay > 0 {
			exp.MaxInterval = p.MaxDelay
		}
		exp.MaxElapsedTime = 0
		exp.Reset()
		b = exp
	}
	if p.MaxAttempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(p.MaxAttempts-1))
	}
	return backoff.WithContext(b, ctx)
}

// run calls op until it succeeds, returns an error other than
// ErrNotYetRendered, the attempts run out or ctx is done. attempts start at 1.
func (p RetryPolicy) run(ctx context.Context, op func(attempt int) error) error {
	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := op(attempt)
		if err == nil || errors.Is(err, ErrNotYetRendered) {
			return err
		}
		return backoff.Permanent(err)
	}, p.backOff(ctx))
}
