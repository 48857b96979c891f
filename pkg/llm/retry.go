package llm

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// RetryPolicy defines exponential backoff behavior for retryable LLM failures.
type RetryPolicy struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	Jitter        bool
}

// DefaultRetryPolicy returns the retry policy used for triage calls.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   3,
		InitialDelay:  500 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
	}
}

// Delay computes the backoff delay before the given attempt (attempt >= 2).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	delay := float64(p.InitialDelay)
	for i := 2; i < attempt; i++ {
		delay *= p.BackoffFactor
	}
	if max := float64(p.MaxDelay); delay > max {
		delay = max
	}
	if p.Jitter {
		// Up to 25% jitter to avoid synchronized retries.
		delay += delay * 0.25 * rand.Float64()
	}
	return time.Duration(delay)
}

// RetryMiddleware wraps a client with retry logic. Only errors classified as
// retryable are retried; auth and bad-prompt failures surface immediately.
func RetryMiddleware(policy RetryPolicy) Middleware {
	return func(next Client) Client {
		return WrapClient(
			func(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
				var lastErr error

				for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
					if attempt > 1 {
						select {
						case <-ctx.Done():
							return CompletionResponse{}, fmt.Errorf("retry cancelled: %w", ctx.Err())
						case <-time.After(policy.Delay(attempt)):
						}
					}

					resp, err := next.Complete(ctx, req)
					if err == nil {
						return resp, nil
					}
					lastErr = err

					if !Classify(err).Retryable() {
						break
					}
				}

				return CompletionResponse{}, lastErr
			},
			next.ModelName,
		)
	}
}
