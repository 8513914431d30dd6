package httputil

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter spaces out outgoing requests to a metadata service.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter allows qps requests per second with a burst of one. A qps of
// zero or less disables limiting.
func NewLimiter(qps float64) *Limiter {
	limit := rate.Inf
	if qps > 0 {
		limit = rate.Limit(qps)
	}
	return &Limiter{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until a request may be sent or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether a request may be sent right now without waiting.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}
