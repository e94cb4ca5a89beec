// Package engine owns the refactor session: the fixed eight-phase task
// graph, the controller that walks it, and the completion report.
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/NJRca/Metapod/internal/config"
	"github.com/NJRca/Metapod/internal/plan"
	"github.com/NJRca/Metapod/internal/task"
)

// Phase ids of the fixed workflow graph.
const (
	PhaseScope         = "scope"
	PhaseBaseline      = "baseline"
	PhasePlan          = "plan"
	PhaseImplement     = "implement"
	PhaseTest          = "test"
	PhaseObservability = "observability"
	PhasePR            = "pr"
	PhaseRollout       = "rollout"
)

// BaselineMetrics is the opaque snapshot captured once during forensics.
type BaselineMetrics struct {
	Timestamp       time.Time `json:"timestamp" yaml:"timestamp"`
	TestCount       int       `json:"test_count" yaml:"testCount"`
	Coverage        float64   `json:"coverage" yaml:"coverage"`
	DependencyFiles []string  `json:"dependency_files" yaml:"dependencyFiles"`
}

// RefactorContext is the state of one refactoring session. It is owned by
// exactly one session, mutated only by the controller and its delegates, and
// discarded when the session ends. It must not be shared across concurrent
// Run invocations.
type RefactorContext struct {
	SessionID    string
	ProjectRoot  string
	TargetStack  string
	CurrentPhase string
	Graph        *task.Graph

	ResearchNotes map[string]string
	ResearchURLs  []string
	Baseline      BaselineMetrics

	// Steps is the plan produced by the plan phase, consumed by implement
	// and test.
	Steps []plan.RefactorStep

	// PRBody is the pull-request content generated by the pr phase.
	PRBody string
}

// defaultTasks returns the fixed eight-task workflow in registration order.
// The pr task fans in on both test and observability.
func defaultTasks() []task.Task {
	return []task.Task{
		task.New(PhaseScope, "Scope & acceptance criteria confirmed"),
		task.New(PhaseBaseline, "Baseline tests/telemetry in place", PhaseScope),
		task.New(PhasePlan, "Plan approved (small reversible cuts)", PhaseBaseline),
		task.New(PhaseImplement, "Implement step 1 (inputs validated, errors standardized)", PhasePlan),
		task.New(PhaseTest, "Tests green (unit/contract/property)", PhaseImplement),
		task.New(PhaseObservability, "Observability updated (logs/metrics/traces)", PhaseImplement),
		task.New(PhasePR, "PR opened with checklist & research notes", PhaseTest, PhaseObservability),
		task.New(PhaseRollout, "Rollout plan & rollback documented", PhasePR),
	}
}

// NewSession creates a session with the fixed task graph pre-populated. It
// fails only on graph-construction errors.
func NewSession(projectRoot, targetStack string) (*RefactorContext, error) {
	if targetStack == "" {
		targetStack = config.DefaultTargetStack
	}

	graph := task.NewGraph()
	for _, t := range defaultTasks() {
		if err := graph.Register(t); err != nil {
			return nil, fmt.Errorf("build workflow graph: %w", err)
		}
	}

	return &RefactorContext{
		SessionID:     uuid.NewString(),
		ProjectRoot:   projectRoot,
		TargetStack:   targetStack,
		Graph:         graph,
		ResearchNotes: make(map[string]string),
	}, nil
}

// StatusLine is one row of the session status, ordered for display.
type StatusLine struct {
	ID          string      `json:"id" yaml:"id"`
	Description string      `json:"description" yaml:"description"`
	Status      task.Status `json:"status" yaml:"status"`
}

// GetStatus returns the per-task status in registration order for any
// presentation layer to render.
func GetStatus(rc *RefactorContext) []StatusLine {
	lines := make([]StatusLine, 0, rc.Graph.Len())
	for _, id := range rc.Graph.IDs() {
		t, err := rc.Graph.Get(id)
		if err != nil {
			continue
		}
		lines = append(lines, StatusLine{ID: t.ID, Description: t.Description, Status: t.Status})
	}
	return lines
}
