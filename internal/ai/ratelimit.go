package ai

import (
	"context"

	"golang.org/x/time/rate"
)

type limited struct {
	next    Delegate
	limiter *rate.Limiter
}

// WithRateLimit throttles outbound calls to perSecond with the given burst.
// A wait that is cancelled by ctx fails like any other backend error.
func WithRateLimit(d Delegate, perSecond float64, burst int) Delegate {
	if burst < 1 {
		burst = 1
	}
	return &limited{
		next:    d,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (l *limited) Complete(ctx context.Context, req Request) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", &ProviderError{Provider: "rate_limiter", Err: err}
	}
	return l.next.Complete(ctx, req)
}
