package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// Mid-turn attempt cap. Every pipeline purpose has its own fallback (the
// observer falls through to heuristic verdicts, the catalog to the static
// bank), so burning the full budget only keeps the candidate waiting for a
// reply the caller can synthesize anyway.
const midTurnAttempts = 2

// retryClass buckets provider errors by how a failed call should be
// re-driven.
type retryClass int

const (
	retryNever  retryClass = iota // caller bug or caller cancellation
	retryOnce                     // malformed reply, one regeneration is enough
	retryBackoff                  // transient, worth waiting out
)

// retrier re-drives transient provider failures with exponential backoff.
// The budget is purpose-aware: calls tagged with a mid-turn purpose get the
// reduced midTurnAttempts cap, untagged calls the configured maximum.
type retrier struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &retrier{inner: p, cfg: cfg}
}

func (r *retrier) Generate(ctx context.Context, req Request) (*Response, error) {
	budget := r.budget(ctx)
	regenerated := false

	var lastErr error
	for attempt := 0; attempt < budget; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		switch classifyRetry(err) {
		case retryNever:
			return nil, err
		case retryOnce:
			if regenerated {
				return nil, err
			}
			regenerated = true
		}

		if attempt == budget-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.backoff(attempt, err)):
		}
	}
	return nil, lastErr
}

func (r *retrier) ModelID() string {
	return r.inner.ModelID()
}

// budget resolves the attempt cap for this call from its purpose label.
func (r *retrier) budget(ctx context.Context) int {
	switch PurposeFrom(ctx) {
	case PurposeVerifier, PurposeClassifier, PurposeQuestionGen:
		if r.cfg.MaxAttempts > midTurnAttempts {
			return midTurnAttempts
		}
	}
	return r.cfg.MaxAttempts
}

func classifyRetry(err error) retryClass {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return retryNever
	}

	// Hitting the token ceiling repeats deterministically.
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return retryNever
	}

	var invResp *ErrInvalidResponse
	if errors.As(err, &invResp) {
		return retryOnce
	}

	// Rate limits, outages, and unclassified network errors.
	return retryBackoff
}

// backoff computes the wait before the next attempt. A provider-suggested
// Retry-After is honored but clamped to MaxWait: an interview turn must not
// stall behind a server asking for a minute of silence.
func (r *retrier) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		if rl.RetryAfter > r.cfg.MaxWait {
			return r.cfg.MaxWait
		}
		return rl.RetryAfter
	}

	wait := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	wait = math.Min(wait, float64(r.cfg.MaxWait))

	// Multiplicative jitter in [0.8, 1.2).
	wait *= 0.8 + 0.4*rand.Float64()
	return time.Duration(wait)
}
