package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

type timeoutGateway struct {
	next    Gateway
	timeout time.Duration
}

// WithTimeout bounds every call to next by d. Expiry is reported as a
// KindTimeout GatewayError. A non-positive d returns next unchanged.
func WithTimeout(next Gateway, d time.Duration) Gateway {
	if d <= 0 {
		return next
	}
	return &timeoutGateway{next: next, timeout: d}
}

func (g *timeoutGateway) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.next.Complete(ctx, prompt)
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		return "", &GatewayError{Provider: "gateway", Kind: KindTimeout, Err: err}
	}
	return text, err
}

type rateLimitedGateway struct {
	next    Gateway
	limiter *rate.Limiter
}

// WithRateLimit allows at most perMinute calls per minute through next,
// with a burst of one. Callers wait for a slot until their context ends.
func WithRateLimit(next Gateway, perMinute int) Gateway {
	if perMinute <= 0 {
		return next
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	return &rateLimitedGateway{next: next, limiter: limiter}
}

func (g *rateLimitedGateway) Complete(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", &GatewayError{Provider: "gateway", Kind: KindQuota, Err: err}
	}
	return g.next.Complete(ctx, prompt)
}
