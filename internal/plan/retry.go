package plan

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// RetryPolicy parameterizes the retry decorator.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is the backoff before the second attempt; each further
	// attempt doubles it.
	BaseDelay time.Duration
	// MaxDelay caps the computed backoff.
	MaxDelay time.Duration
}

// DefaultRetryPolicy retries twice more after the first failure.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

// RetryExecutor decorates an Executor with jittered exponential backoff.
// The phase controller does not use it: retry policy is a recommendation the
// plan makes to the target codebase, so retrying engine-side execution is
// strictly opt-in at construction time.
type RetryExecutor struct {
	next   Executor
	policy RetryPolicy
	logger *slog.Logger
	sleep  func(context.Context, time.Duration) error
}

// NewRetryExecutor wraps next with the given policy.
func NewRetryExecutor(next Executor, policy RetryPolicy, logger *slog.Logger) *RetryExecutor {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryExecutor{
		next:   next,
		policy: policy,
		logger: logger,
		sleep:  sleepCtx,
	}
}

// Execute attempts the step up to MaxAttempts times. The last error is
// returned when every attempt fails; context cancellation aborts immediately.
func (r *RetryExecutor) Execute(ctx context.Context, step RefactorStep) error {
	var lastErr error
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		lastErr = r.next.Execute(ctx, step)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
		if attempt == r.policy.MaxAttempts {
			break
		}

		delay := r.backoff(attempt)
		r.logger.Warn("step execution failed, retrying",
			"step", step.Name,
			"attempt", attempt,
			"backoff", delay,
			"error", lastErr)
		if err := r.sleep(ctx, delay); err != nil {
			return lastErr
		}
	}
	return fmt.Errorf("step %q failed after %d attempts: %w", step.Name, r.policy.MaxAttempts, lastErr)
}

// backoff doubles the base delay per attempt and adds up to 50% jitter.
func (r *RetryExecutor) backoff(attempt int) time.Duration {
	delay := r.policy.BaseDelay << (attempt - 1)
	if r.policy.MaxDelay > 0 && delay > r.policy.MaxDelay {
		delay = r.policy.MaxDelay
	}
	if delay > 0 {
		delay += time.Duration(rand.Int63n(int64(delay)/2 + 1))
	}
	return delay
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
