package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/NJRca/Metapod/internal/engine"
	"github.com/NJRca/Metapod/internal/task"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // grey
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
)

func styleFor(status task.Status) lipgloss.Style {
	switch status {
	case task.StatusCompleted:
		return successStyle
	case task.StatusFailed:
		return failureStyle
	case task.StatusInProgress:
		return runningStyle
	default:
		return pendingStyle
	}
}

// renderStatus formats the per-task status lines for terminal display.
func renderStatus(lines []engine.StatusLine) string {
	out := titleStyle.Render("Workflow status") + "\n"
	for _, line := range lines {
		out += fmt.Sprintf("  %s  %s\n",
			styleFor(line.Status).Render(fmt.Sprintf("%-12s", line.Status)),
			line.Description)
	}
	return out
}
