package plan

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Executor applies a single refactor step. Real file mutation is an extension
// point; the engine ships with a simulated implementation only.
type Executor interface {
	Execute(ctx context.Context, step RefactorStep) error
}

// SimulatedExecutor reports success for every step after a bounded delay. It
// stands in until a concrete file-mutation backend exists.
type SimulatedExecutor struct {
	delay  time.Duration
	logger *slog.Logger
}

// NewSimulatedExecutor creates a simulated executor. A zero delay is legal
// and useful in tests.
func NewSimulatedExecutor(delay time.Duration, logger *slog.Logger) *SimulatedExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimulatedExecutor{delay: delay, logger: logger}
}

// Execute simulates applying the step. It honors context cancellation during
// the delay.
func (e *SimulatedExecutor) Execute(ctx context.Context, step RefactorStep) error {
	e.logger.Info("executing step", "step", step.Name, "risk", step.RiskLevel)

	if e.delay > 0 {
		timer := time.NewTimer(e.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// ValidationFailure reports that a step failed one of its named checks.
type ValidationFailure struct {
	Step  string
	Check string
}

func (f *ValidationFailure) Error() string {
	return fmt.Sprintf("step %q failed validation check %q", f.Step, f.Check)
}

// CheckFunc evaluates one named validation check for a step. A nil return
// means the check passed.
type CheckFunc func(ctx context.Context, step RefactorStep, check string) error

// Validator runs every validation check declared on a step. A step counts as
// applied only when all of its checks pass.
type Validator struct {
	check  CheckFunc
	logger *slog.Logger
}

// NewValidator creates a validator. A nil check function accepts every check,
// matching the simulated executor's always-succeeds behavior.
func NewValidator(check CheckFunc, logger *slog.Logger) *Validator {
	if check == nil {
		check = func(context.Context, RefactorStep, string) error { return nil }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{check: check, logger: logger}
}

// Validate runs the step's checks in order and stops at the first failure.
func (v *Validator) Validate(ctx context.Context, step RefactorStep) error {
	for _, check := range step.ValidationSteps {
		v.logger.Debug("running validation check", "step", step.Name, "check", check)
		if err := v.check(ctx, step, check); err != nil {
			v.logger.Warn("validation check failed", "step", step.Name, "check", check, "error", err)
			return &ValidationFailure{Step: step.Name, Check: check}
		}
	}
	return nil
}
