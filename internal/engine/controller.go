package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/NJRca/Metapod/internal/config"
	"github.com/NJRca/Metapod/internal/plan"
	"github.com/NJRca/Metapod/internal/research"
	"github.com/NJRca/Metapod/internal/task"
	"github.com/NJRca/Metapod/internal/telemetry"
)

// PhaseExecutionError wraps any error raised by a phase's delegated work. It
// aborts the remaining phases but is absorbed into the completion report, so
// Run never raises past the engine boundary.
type PhaseExecutionError struct {
	Phase string
	Err   error
}

func (e *PhaseExecutionError) Error() string {
	return fmt.Sprintf("phase %q failed: %v", e.Phase, e.Err)
}

func (e *PhaseExecutionError) Unwrap() error { return e.Err }

// Researcher is the slice of the research engine the controller needs.
type Researcher interface {
	Research(ctx context.Context, topic string, sources []string) research.Result
}

// dependencyFiles are the manifests the forensics phase looks for under the
// project root.
var dependencyFiles = []string{"package.json", "requirements.txt", "go.mod", "Cargo.toml"}

// defaultResearchTopics are covered by the research pass of every run.
var defaultResearchTopics = []string{
	"latest_framework_patterns",
	"security_best_practices",
	"observability_standards",
}

// Controller is the single-threaded state machine that walks the fixed task
// graph in topological order. One controller may run many sessions, but a
// given RefactorContext must only ever be passed to one Run at a time.
type Controller struct {
	fs         afero.Fs
	logger     *slog.Logger
	executor   plan.Executor
	validator  *plan.Validator
	researcher Researcher
	telemetry  telemetry.Client
	now        func() time.Time
}

// Option customizes a Controller.
type Option func(*Controller)

// WithFilesystem injects the filesystem the forensics phase inspects.
func WithFilesystem(fs afero.Fs) Option {
	return func(c *Controller) { c.fs = fs }
}

// WithLogger injects the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithExecutor replaces the simulated step executor.
func WithExecutor(e plan.Executor) Option {
	return func(c *Controller) { c.executor = e }
}

// WithValidator replaces the step validator.
func WithValidator(v *plan.Validator) Option {
	return func(c *Controller) { c.validator = v }
}

// WithResearcher replaces the research engine.
func WithResearcher(r Researcher) Option {
	return func(c *Controller) { c.researcher = r }
}

// WithTelemetry injects the telemetry client.
func WithTelemetry(t telemetry.Client) Option {
	return func(c *Controller) { c.telemetry = t }
}

// NewController builds a controller with simulated execution defaults.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		fs:        afero.NewOsFs(),
		logger:    slog.Default(),
		telemetry: telemetry.NewNoopClient(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.executor == nil {
		c.executor = plan.NewSimulatedExecutor(config.DefaultStepDelay, c.logger)
	}
	if c.validator == nil {
		c.validator = plan.NewValidator(nil, c.logger)
	}
	if c.researcher == nil {
		c.researcher = research.NewResearcher(nil, nil, c.logger)
	}
	return c
}

// Run executes the eight phases in dependency order. It never returns an
// error: any failure is converted into status transitions and a failure
// report. A cancellation signal is honored between phases only.
func (c *Controller) Run(ctx context.Context, rc *RefactorContext, requestLabel string) CompletionReport {
	logger := c.logger.With("session_id", rc.SessionID)
	logger.Info("starting refactor session", "request", requestLabel, "project_root", rc.ProjectRoot, "target_stack", rc.TargetStack)
	c.telemetry.Track(telemetry.EventRunStarted, map[string]any{"target_stack": rc.TargetStack})

	order, err := rc.Graph.TopologicalSort()
	if err != nil {
		// Unreachable for the fixed graph; absorbed per the propagation policy.
		return c.buildReport(rc, requestLabel, &PhaseExecutionError{Phase: rc.CurrentPhase, Err: err})
	}

	for _, id := range order {
		select {
		case <-ctx.Done():
			logger.Warn("run cancelled", "next_phase", id)
			return c.buildReport(rc, requestLabel, &PhaseExecutionError{
				Phase: id,
				Err:   fmt.Errorf("cancelled before phase start: %w", ctx.Err()),
			})
		default:
		}

		if err := c.runPhase(ctx, rc, id, requestLabel, logger); err != nil {
			logger.Error("phase failed, aborting remaining phases", "phase", id, "error", err)
			c.telemetry.Track(telemetry.EventRunFailed, map[string]any{"phase": id})
			return c.buildReport(rc, requestLabel, err)
		}

		// The research pass sits between plan approval and implementation.
		// It degrades quality on failure, never the run.
		if id == PhasePlan {
			c.researchPass(ctx, rc, logger)
		}
	}

	logger.Info("refactor session completed", "tasks", rc.Graph.Len())
	c.telemetry.Track(telemetry.EventRunCompleted, map[string]any{"target_stack": rc.TargetStack})
	return c.buildReport(rc, requestLabel, nil)
}

// runPhase enforces the precondition, transitions the task through its legal
// states, and records notes on success.
func (c *Controller) runPhase(ctx context.Context, rc *RefactorContext, id, requestLabel string, logger *slog.Logger) *PhaseExecutionError {
	ready, err := rc.Graph.CanStart(id)
	if err != nil {
		return &PhaseExecutionError{Phase: id, Err: err}
	}
	if !ready {
		return &PhaseExecutionError{Phase: id, Err: fmt.Errorf("dependencies not completed")}
	}

	rc.CurrentPhase = id
	if err := rc.Graph.Transition(id, task.StatusInProgress); err != nil {
		return &PhaseExecutionError{Phase: id, Err: err}
	}
	logger.Info("phase started", "phase", id)

	notes, workErr := c.phaseWork(ctx, rc, id, requestLabel)
	if workErr != nil {
		_ = rc.Graph.Transition(id, task.StatusFailed)
		return &PhaseExecutionError{Phase: id, Err: workErr}
	}

	if err := rc.Graph.Transition(id, task.StatusCompleted); err != nil {
		return &PhaseExecutionError{Phase: id, Err: err}
	}
	if t, err := rc.Graph.Get(id); err == nil {
		t.Notes = notes
		if id == PhasePR {
			t.ResearchURLs = append([]string(nil), rc.ResearchURLs...)
		}
	}
	logger.Info("phase completed", "phase", id)
	return nil
}

// phaseWork dispatches to the delegated work of each phase and returns the
// notes recorded on the task.
func (c *Controller) phaseWork(ctx context.Context, rc *RefactorContext, id, requestLabel string) (string, error) {
	switch id {
	case PhaseScope:
		return c.analyzeRequest(requestLabel), nil
	case PhaseBaseline:
		return c.captureBaseline(rc)
	case PhasePlan:
		return c.generatePlan(rc)
	case PhaseImplement:
		return c.applySteps(ctx, rc)
	case PhaseTest:
		return c.validateSteps(ctx, rc)
	case PhaseObservability:
		return c.updateObservability(rc), nil
	case PhasePR:
		return c.preparePR(rc), nil
	case PhaseRollout:
		return c.documentRollout(rc), nil
	default:
		return "", fmt.Errorf("no work defined for phase %q", id)
	}
}

// analyzeRequest restates the goal. The request string is an opaque label;
// no natural-language understanding happens here.
func (c *Controller) analyzeRequest(requestLabel string) string {
	summary := requestLabel
	if len(summary) > 100 {
		summary = summary[:100]
	}
	return fmt.Sprintf("Request analysis: %s...", summary)
}

// captureBaseline enumerates dependency manifests and snapshots baseline
// metrics once for the session.
func (c *Controller) captureBaseline(rc *RefactorContext) (string, error) {
	var found []string
	for _, name := range dependencyFiles {
		path := filepath.Join(rc.ProjectRoot, name)
		exists, err := afero.Exists(c.fs, path)
		if err != nil {
			return "", fmt.Errorf("inspect %s: %w", path, err)
		}
		if exists {
			found = append(found, name)
		}
	}

	rc.Baseline = BaselineMetrics{
		Timestamp:       c.now().UTC(),
		DependencyFiles: found,
	}
	return fmt.Sprintf("Dependencies: %d, Baseline captured", len(found)), nil
}

// generatePlan produces the remediation plan and stores it on the session.
func (c *Controller) generatePlan(rc *RefactorContext) (string, error) {
	steps := plan.Generate(rc.ProjectRoot, rc.TargetStack)
	for _, step := range steps {
		if err := task.ValidateStruct(step); err != nil {
			return "", fmt.Errorf("generated step %q: %w", step.Name, err)
		}
	}
	rc.Steps = steps
	return fmt.Sprintf("Plan generated: %d reversible steps across %d categories", len(steps), len(plan.Categories())), nil
}

// applySteps executes and validates every plan step in order.
func (c *Controller) applySteps(ctx context.Context, rc *RefactorContext) (string, error) {
	for _, step := range rc.Steps {
		if err := c.executor.Execute(ctx, step); err != nil {
			return "", fmt.Errorf("execute step %q: %w", step.Name, err)
		}
		if err := c.validator.Validate(ctx, step); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("Applied %d plan steps (simulated)", len(rc.Steps)), nil
}

// validateSteps re-runs every named check across the plan.
func (c *Controller) validateSteps(ctx context.Context, rc *RefactorContext) (string, error) {
	checks := 0
	for _, step := range rc.Steps {
		if err := c.validator.Validate(ctx, step); err != nil {
			return "", err
		}
		checks += len(step.ValidationSteps)
	}
	return fmt.Sprintf("Validation suite green: %d checks across %d steps", checks, len(rc.Steps)), nil
}

// updateObservability records the observability posture the plan requires.
func (c *Controller) updateObservability(rc *RefactorContext) string {
	return fmt.Sprintf("Observability updated: %s", strings.Join(config.ObservabilityRequirements[:3], "; "))
}

// preparePR renders the pull-request body from the session state.
func (c *Controller) preparePR(rc *RefactorContext) string {
	rc.PRBody = PRBody(rc)
	return fmt.Sprintf("PR content generated: %d steps, %d research topics, %d quality gates",
		len(rc.Steps), len(rc.ResearchNotes), len(config.QualityGates))
}

// documentRollout writes the rollout and rollback notes.
func (c *Controller) documentRollout(rc *RefactorContext) string {
	return "Rollout: deploy behind a feature flag, watch error budget and p95; rollback: revert the PR and disable the flag"
}

// researchPass gathers reference material for the default topics. Failures
// only degrade confidence and summary quality.
func (c *Controller) researchPass(ctx context.Context, rc *RefactorContext, logger *slog.Logger) {
	for _, topic := range defaultResearchTopics {
		result := c.researcher.Research(ctx, topic, nil)
		rc.ResearchNotes[topic] = result.Summary
		rc.ResearchURLs = append(rc.ResearchURLs, result.Sources...)
		logger.Info("research topic synthesized",
			"topic", topic,
			"sources", len(result.Sources),
			"confidence", result.Confidence)
	}
}
