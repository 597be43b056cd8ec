package ratelimit

import (
	"context"
	"time"
)

// Limits caps requests per sliding window. A zero limit disables that window.
type Limits struct {
	RequestsPerMinute int
	RequestsPerHour   int
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed bool
	// Limit and Remaining describe the tightest window that was checked.
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limits Limits) (Decision, error)
	Reset(ctx context.Context, key string) error
}
