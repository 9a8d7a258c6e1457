package request

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// EndpointLimit defines individual endpoint rate limits that are set when a
// Requester is created.
type EndpointLimit int

// Unset is the zero endpoint functionality
const Unset EndpointLimit = 0

// Limiter interface groups rate limit functionality for the REST wrapper so
// exchanges can shell global rates over per-endpoint sub rates.
type Limiter interface {
	Limit(context.Context, EndpointLimit) error
}

// BasicLimit is a single rate bucket applied to every endpoint
type BasicLimit struct {
	r *rate.Limiter
}

// Limit waits for a slot in the bucket regardless of endpoint
func (b *BasicLimit) Limit(ctx context.Context, _ EndpointLimit) error {
	return b.r.Wait(ctx)
}

// EndpointLimits maps endpoint functionality to its own rate bucket
type EndpointLimits map[EndpointLimit]*rate.Limiter

// Limit waits for a slot in the bucket assigned to the endpoint. Endpoints
// with no assigned bucket are unthrottled.
func (e EndpointLimits) Limit(ctx context.Context, ep EndpointLimit) error {
	l, ok := e[ep]
	if !ok {
		return nil
	}
	return l.Wait(ctx)
}

// NewRateLimit creates a new rate.Limiter based on a time interval and how
// many actions are allowed within it, broken down to an actions-per-second
// basis. Burst is kept at one as bursting is not supported for out-bound
// requests.
func NewRateLimit(interval time.Duration, actions int) *rate.Limiter {
	if actions <= 0 || interval <= 0 {
		// Returns an unrestricted rate limiter
		return rate.NewLimiter(rate.Inf, 1)
	}
	rps := float64(actions) / interval.Seconds()
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// NewBasicRateLimit returns a Limiter with a single bucket for all endpoints
func NewBasicRateLimit(interval time.Duration, actions int) Limiter {
	return &BasicLimit{NewRateLimit(interval, actions)}
}

// InitiateRateLimit sleeps for a rate limit slot on the requested endpoint
func (r *Requester) InitiateRateLimit(ctx context.Context, e EndpointLimit) error {
	if r.limiter == nil {
		return nil
	}
	if err := r.limiter.Limit(ctx, e); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}
