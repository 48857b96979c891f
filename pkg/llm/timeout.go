package llm

import (
	"context"
	"time"
)

// DefaultCallTimeout bounds a single completion call. Provider SDK defaults
// are effectively unbounded, which would stall the whole message pipeline.
const DefaultCallTimeout = 60 * time.Second

// TimeoutMiddleware wraps a client so every completion call carries a
// bounded deadline.
func TimeoutMiddleware(d time.Duration) Middleware {
	if d <= 0 {
		d = DefaultCallTimeout
	}
	return func(next Client) Client {
		return WrapClient(
			func(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
				ctx, cancel := context.WithTimeout(ctx, d)
				defer cancel()
				return next.Complete(ctx, req)
			},
			next.ModelName,
		)
	}
}
