package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider re-sends a request after transient failures, waiting
// with exponential backoff between attempts.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps p. MaxAttempts below one means a single attempt.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	cfg.MaxAttempts = max(cfg.MaxAttempts, 1)
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	reasked := false
	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil || attempt >= r.config.MaxAttempts || !retryable(err, &reasked) {
			return resp, err
		}

		timer := time.NewTimer(r.backoff(attempt-1, err))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

// retryable classifies err. A bank that came back unusable or refused
// is asked for once more per request; checks that mark their failure
// permanent, truncation and context errors are never retried.
func retryable(err error, reasked *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var (
		maxTok  *ErrMaxTokensExceeded
		invalid *ErrInvalidResponse
		refused *ErrContentRefused
	)
	switch {
	case errors.As(err, &maxTok):
		return false
	case errors.As(err, &invalid) && permanent(invalid.Err):
		return false
	case errors.As(err, &invalid), errors.As(err, &refused):
		if *reasked {
			return false
		}
		*reasked = true
		return true
	}

	// Rate limits, outages and plain network errors are transient.
	return true
}

// backoff is the wait before retry number attempt+1. A rate limit's
// Retry-After wins; otherwise the wait grows by Multiplier up to MaxWait,
// with 20% jitter either way.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	wait := min(float64(r.config.InitialWait)*math.Pow(r.config.Multiplier, float64(attempt)), float64(r.config.MaxWait))
	return time.Duration(wait * (0.8 + 0.4*rand.Float64()))
}

// TimeoutProvider bounds a whole Generate call, retries included.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps p. A zero timeout returns p unchanged.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: timeout}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
