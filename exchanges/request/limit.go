package request

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Const here define individual functionality sub types for rate limiting
const (
	Unset EndpointLimit = iota
	Auth
	UnAuth
)

// ErrDelayNotAllowed is returned when a request would have to wait for the
// rate limiter and the context forbids waiting
var ErrDelayNotAllowed = errors.New("delay not allowed")

// EndpointLimit defines individual endpoint rate limits
type EndpointLimit uint16

// NewRateLimit creates a new RateLimit based of time interval and how many
// actions allowed and breaks it down to an actions-per-second basis -- Burst
// rate is kept as one as this is not supported for out-bound requests.
func NewRateLimit(interval time.Duration, actions int) *rate.Limiter {
	if actions <= 0 || interval <= 0 {
		// Returns an un-restricted rate limiter
		return rate.NewLimiter(rate.Inf, 1)
	}
	rps := float64(actions) / interval.Seconds()
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// InitiateRateLimit sleeps until the limiter allows another request. There
// is no limit when the requester has no limiter.
func (r *Requester) InitiateRateLimit(ctx context.Context, _ EndpointLimit) error {
	if r.limiter == nil {
		return nil
	}
	if !hasDelayNotAllowed(ctx) {
		return r.limiter.Wait(ctx)
	}
	res := r.limiter.Reserve()
	if d := res.Delay(); d > 0 {
		res.Cancel()
		return fmt.Errorf("%w: would wait %s", ErrDelayNotAllowed, d)
	}
	return nil
}
