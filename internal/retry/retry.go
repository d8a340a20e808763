// Package retry implements the bounded retry wrapper applied to every
// network-facing storage operation.
//
// A Policy wraps exactly one underlying call. Retries are immediate (no
// backoff), happen only for errors the Transient classifier accepts, and the
// final attempt's error is returned unchanged.
package retry

import (
	"context"
)

// DefaultRetries is the number of retries applied when the caller does not
// override it: one retry after the first failure.
const DefaultRetries = 1

// Policy configures the retry wrapper for a single operation.
type Policy struct {
	// Retries is the number of attempts after the first failure.
	// Given Retries = N the operation runs at most N+1 times.
	// Negative values are treated as zero.
	Retries int

	// Transient classifies errors worth retrying. Required; an error the
	// classifier rejects propagates immediately without further attempts.
	Transient func(error) bool

	// OnRetry, if set, is invoked before each retry attempt.
	OnRetry func(attempt int, err error)
}

// Do runs op under the policy. The context is checked before every attempt
// so a cancelled recursive operation stops between retries.
func (p Policy) Do(ctx context.Context, op func() error) error {
	retries := p.Retries
	if retries < 0 {
		retries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op()
		if err == nil {
			return nil
		}
		lastErr = err

		if p.Transient == nil || !p.Transient(err) {
			return err
		}
		if attempt < retries && p.OnRetry != nil {
			p.OnRetry(attempt+1, err)
		}
	}

	return lastErr
}

// Do runs op with the given retry count and classifier.
func Do(ctx context.Context, retries int, transient func(error) bool, op func() error) error {
	return Policy{Retries: retries, Transient: transient}.Do(ctx, op)
}
