package llm

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while the breaker is refusing calls.
var ErrCircuitOpen = errors.New("circuit open after consecutive failures")

// CircuitBreaker opens after a run of consecutive failures and stays open
// for a cooldown. The first call after the cooldown is let through; its
// outcome closes or reopens the circuit.
type CircuitBreaker struct {
	mu                  sync.Mutex
	consecutiveFailures int
	threshold           int
	cooldown            time.Duration
	openedAt            time.Time
	open                bool
	now                 func() time.Time
}

// NewCircuitBreaker creates a circuit breaker with the given threshold.
func NewCircuitBreaker(threshold int, cooldown time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 3
	}
	return &CircuitBreaker{
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// Allow reports whether a call may proceed.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if !cb.open {
		return true
	}
	if cb.now().Sub(cb.openedAt) >= cb.cooldown {
		// half-open: one trial call, reopened on failure
		cb.openedAt = cb.now()
		return true
	}
	return false
}

// RecordFailure increments the failure counter.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.consecutiveFailures++
	if cb.consecutiveFailures >= cb.threshold {
		cb.open = true
		cb.openedAt = cb.now()
	}
}

// RecordSuccess resets the failure counter.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.consecutiveFailures = 0
	cb.open = false
}

// Open reports whether the circuit is currently open.
func (cb *CircuitBreaker) Open() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.open
}

// ConsecutiveFailures returns the current failure count.
func (cb *CircuitBreaker) ConsecutiveFailures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.consecutiveFailures
}

type breakerGateway struct {
	next    Gateway
	breaker *CircuitBreaker
}

// WithBreaker fails fast with a KindUnavailable error while cb is open.
// Calls abandoned by the caller's own cancellation are not counted.
func WithBreaker(next Gateway, cb *CircuitBreaker) Gateway {
	if cb == nil {
		return next
	}
	return &breakerGateway{next: next, breaker: cb}
}

func (g *breakerGateway) Complete(ctx context.Context, prompt string) (string, error) {
	if !g.breaker.Allow() {
		return "", &GatewayError{Provider: "gateway", Kind: KindUnavailable, Err: ErrCircuitOpen}
	}

	text, err := g.next.Complete(ctx, prompt)
	switch {
	case err == nil:
		g.breaker.RecordSuccess()
	case errors.Is(ctx.Err(), context.Canceled):
	default:
		g.breaker.RecordFailure()
	}
	return text, err
}
