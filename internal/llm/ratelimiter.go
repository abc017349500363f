package llm

import (
	"context"
	"sync"
	"time"
)

// RateLimitedProvider spaces out completion calls so that at most rpm
// requests per minute reach the underlying provider. Hosted free tiers
// (Groq in particular) enforce strict per-minute quotas.
type RateLimitedProvider struct {
	provider Provider
	interval time.Duration
	mu       sync.Mutex
	nextAt   time.Time
}

// NewRateLimitedProvider wraps the given provider with request pacing.
// An rpm of zero or less disables pacing.
func NewRateLimitedProvider(provider Provider, rpm int) Provider {
	if rpm <= 0 {
		return provider
	}
	return &RateLimitedProvider{
		provider: provider,
		interval: time.Minute / time.Duration(rpm),
	}
}

func (r *RateLimitedProvider) Name() string {
	return r.provider.Name()
}

func (r *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := r.reserve(ctx); err != nil {
		return nil, err
	}
	return r.provider.Complete(ctx, req)
}

// reserve claims the next available send slot and waits until it arrives.
func (r *RateLimitedProvider) reserve(ctx context.Context) error {
	r.mu.Lock()
	now := time.Now()
	slot := r.nextAt
	if slot.Before(now) {
		slot = now
	}
	r.nextAt = slot.Add(r.interval)
	r.mu.Unlock()

	wait := time.Until(slot)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
