package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/NJRca/Metapod/internal/config"
	"github.com/NJRca/Metapod/internal/task"
)

// CompletionReport is the result of a run. Failures are encoded here rather
// than raised: a failed run reports how many phases completed, which phase
// failed, and why.
type CompletionReport struct {
	SessionID     string            `json:"session_id" yaml:"sessionId"`
	Request       string            `json:"request" yaml:"request"`
	Completed     int               `json:"completed" yaml:"completed"`
	Total         int               `json:"total" yaml:"total"`
	CurrentPhase  string            `json:"current_phase" yaml:"currentPhase"`
	Failed        bool              `json:"failed" yaml:"failed"`
	FailedPhase   string            `json:"failed_phase,omitempty" yaml:"failedPhase,omitempty"`
	FailureReason string            `json:"failure_reason,omitempty" yaml:"failureReason,omitempty"`
	Tasks         []StatusLine      `json:"tasks" yaml:"tasks"`
	ResearchNotes map[string]string `json:"research_notes,omitempty" yaml:"researchNotes,omitempty"`
	PRBody        string            `json:"pr_body,omitempty" yaml:"prBody,omitempty"`
}

// buildReport snapshots the session state into a report. A nil failure means
// the run completed.
func (c *Controller) buildReport(rc *RefactorContext, requestLabel string, failure *PhaseExecutionError) CompletionReport {
	report := CompletionReport{
		SessionID:     rc.SessionID,
		Request:       requestLabel,
		Total:         rc.Graph.Len(),
		CurrentPhase:  rc.CurrentPhase,
		Tasks:         GetStatus(rc),
		ResearchNotes: rc.ResearchNotes,
		PRBody:        rc.PRBody,
	}
	for _, line := range report.Tasks {
		if line.Status == task.StatusCompleted {
			report.Completed++
		}
	}
	if failure != nil {
		report.Failed = true
		report.FailedPhase = failure.Phase
		report.FailureReason = failure.Err.Error()
	}
	return report
}

// Markdown renders the report for human consumption.
func (r CompletionReport) Markdown() string {
	var b strings.Builder
	b.WriteString("# Metapod Completion Report\n\n")
	b.WriteString("## Task Summary\n")
	fmt.Fprintf(&b, "- Completed: %d/%d tasks\n", r.Completed, r.Total)
	fmt.Fprintf(&b, "- Phase: %s\n", r.CurrentPhase)

	if r.Failed {
		b.WriteString("\n## Failure\n")
		fmt.Fprintf(&b, "- Failed phase: %s\n", r.FailedPhase)
		fmt.Fprintf(&b, "- Reason: %s\n", r.FailureReason)
	}

	b.WriteString("\n## TODO Status\n")
	for _, line := range r.Tasks {
		marker := "❌"
		if line.Status == task.StatusCompleted {
			marker = "✅"
		}
		fmt.Fprintf(&b, "- %s %s\n", marker, line.Description)
	}

	if len(r.ResearchNotes) > 0 {
		b.WriteString("\n## Research Notes\n")
		for _, topic := range sortedKeys(r.ResearchNotes) {
			note := r.ResearchNotes[topic]
			if len(note) > 100 {
				note = note[:100]
			}
			fmt.Fprintf(&b, "- **%s**: %s...\n", topic, note)
		}
	}

	return b.String()
}

// TODOStatus renders the live checklist for display mid-run.
func TODOStatus(rc *RefactorContext) string {
	var items []string
	for _, line := range GetStatus(rc) {
		marker := "⏳"
		if line.Status == task.StatusCompleted {
			marker = "✅"
		}
		items = append(items, fmt.Sprintf("%s %s", marker, line.Description))
	}
	return "```\nTODO Status:\n" + strings.Join(items, "\n") + "\n```"
}

// PRBody renders the pull-request content from the session state. It is a
// pure function of the data model; any presentation layer may re-render it.
func PRBody(rc *RefactorContext) string {
	stackLine := "Stack defaults applied"
	if cfg, ok := config.StackFor(rc.TargetStack); ok {
		stackLine = fmt.Sprintf("Validation: %s, logging: %s, metrics: %s, tracing: %s",
			cfg.Validation, cfg.Logging, cfg.Metrics, cfg.Tracing)
	}

	var files []string
	for _, step := range rc.Steps {
		files = append(files, step.FilesAffected...)
	}

	var b strings.Builder
	b.WriteString("## Summary\n")
	b.WriteString("Refactoring changes following Metapod autonomous agent recommendations.\n\n")
	b.WriteString("## Scope\n")
	fmt.Fprintf(&b, "- Modules/files: %d path globs across %d steps\n", len(files), len(rc.Steps))
	b.WriteString("- Behavior preserved? Y\n\n")
	b.WriteString("## Architecture\n")
	b.WriteString("- Ports & Adapters backbone applied\n")
	b.WriteString("- Error model: RFC 9457 problem+json mapping\n\n")
	b.WriteString("## Security\n")
	fmt.Fprintf(&b, "- Baseline: %s\n\n", strings.Join(config.SecurityRequirements[:2], "; "))
	b.WriteString("## Reliability\n")
	b.WriteString("- Timeouts/retries/backoff/breakers added: Yes\n\n")
	b.WriteString("## Observability\n")
	fmt.Fprintf(&b, "- %s\n", stackLine)
	b.WriteString("- Structured logging with correlation IDs\n\n")
	b.WriteString("## Quality Gates\n")
	for _, gate := range config.QualityGates {
		fmt.Fprintf(&b, "- [ ] %s\n", gate)
	}

	if len(rc.ResearchNotes) > 0 {
		b.WriteString("\n## Research\n")
		for _, topic := range sortedKeys(rc.ResearchNotes) {
			fmt.Fprintf(&b, "- %s\n", topic)
		}
	}

	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
