package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownSuccessfulRun(t *testing.T) {
	c, _ := newTestController(t)
	rc := newTestSession(t)

	report := c.Run(context.Background(), rc, "req")
	require.False(t, report.Failed)

	md := report.Markdown()
	assert.True(t, strings.HasPrefix(md, "# Metapod Completion Report"))
	assert.Contains(t, md, "- Completed: 8/8 tasks")
	assert.Contains(t, md, "- Phase: rollout")
	assert.NotContains(t, md, "## Failure")
	assert.Contains(t, md, "## Research Notes")
	assert.Equal(t, 8, strings.Count(md, "✅"))
}

func TestMarkdownFailedRun(t *testing.T) {
	c, _ := newTestController(t, WithExecutor(&failingExecutor{failOn: "create_hex_structure"}))
	rc := newTestSession(t)

	report := c.Run(context.Background(), rc, "req")
	require.True(t, report.Failed)

	md := report.Markdown()
	assert.Contains(t, md, "## Failure")
	assert.Contains(t, md, "- Failed phase: implement")
	assert.Contains(t, md, "create_hex_structure")
	assert.Contains(t, md, "❌")
}

func TestMarkdownTruncatesResearchNotes(t *testing.T) {
	report := CompletionReport{
		ResearchNotes: map[string]string{
			"security_best_practices": strings.Repeat("x", 300),
		},
	}
	md := report.Markdown()
	assert.Contains(t, md, strings.Repeat("x", 100)+"...")
	assert.NotContains(t, md, strings.Repeat("x", 101))
}

func TestTODOStatus(t *testing.T) {
	rc := newTestSession(t)
	require.NoError(t, rc.Graph.Transition(PhaseScope, "in_progress"))
	require.NoError(t, rc.Graph.Transition(PhaseScope, "completed"))

	out := TODOStatus(rc)
	assert.True(t, strings.HasPrefix(out, "```\nTODO Status:\n"))
	assert.Equal(t, 1, strings.Count(out, "✅"))
	assert.Equal(t, 7, strings.Count(out, "⏳"))
}

func TestPRBodySections(t *testing.T) {
	c, _ := newTestController(t)
	rc := newTestSession(t)

	report := c.Run(context.Background(), rc, "req")
	require.False(t, report.Failed)

	for _, section := range []string{
		"## Summary", "## Scope", "## Architecture", "## Security",
		"## Reliability", "## Observability", "## Quality Gates", "## Research",
	} {
		assert.Contains(t, report.PRBody, section)
	}
	// node-express stack names its recommended libraries.
	assert.Contains(t, report.PRBody, "zod")
	assert.Contains(t, report.PRBody, "- [ ] ")
}

func TestPRBodyUnknownStackFallsBack(t *testing.T) {
	rc := newTestSession(t)
	rc.TargetStack = "lovable-supabase-github"

	body := PRBody(rc)
	assert.Contains(t, body, "Stack defaults applied")
}
