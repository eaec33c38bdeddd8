// Package retry provides a small retry executor for operations that can
// fail transiently, such as database calls against a connection-limited
// pool. Transient errors are retried with linearly increasing backoff;
// everything else propagates immediately.
package retry

import (
	"context"
	"log/slog"
	"time"
)

// Default policy values.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
)

// Classifier reports whether an error is transient and worth retrying.
type Classifier func(error) bool

// Policy describes how an operation is retried. The zero value is not
// usable; construct it with NewPolicy or fill the fields explicitly.
type Policy struct {
	// MaxAttempts is the total number of times the operation is invoked,
	// including the first attempt.
	MaxAttempts int

	// BaseDelay is the backoff unit: after attempt n (1-based) the
	// executor sleeps n * BaseDelay before the next attempt.
	BaseDelay time.Duration

	// Transient classifies retryable errors. A nil classifier treats
	// every error as permanent.
	Transient Classifier

	// Logger, if set, records retry attempts at debug level.
	Logger *slog.Logger
}

// NewPolicy returns a Policy with the default attempt budget and backoff
// using the given classifier.
func NewPolicy(transient Classifier) Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		Transient:   transient,
	}
}

// Do invokes op until it succeeds, fails permanently, or the attempt
// budget is exhausted. On a transient error it sleeps attempt*BaseDelay
// and tries again; on any other error it returns immediately. When the
// budget runs out, the last observed error is returned. Context
// cancellation aborts the backoff wait.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	baseDelay := p.BaseDelay
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if p.Transient == nil || !p.Transient(lastErr) {
			return lastErr
		}

		if attempt == maxAttempts {
			break
		}

		delay := time.Duration(attempt) * baseDelay
		if p.Logger != nil {
			p.Logger.Debug("transient error, backing off",
				"attempt", attempt,
				"max_attempts", maxAttempts,
				"delay", delay,
				"error", lastErr)
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}

	return lastErr
}
