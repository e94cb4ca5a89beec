// Package task models the fixed refactor workflow as a dependency graph of
// typed tasks and enforces legal status transitions over it.
package task

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"     // Not yet started
	StatusInProgress Status = "in_progress" // Phase work is running
	StatusCompleted  Status = "completed"   // Phase work succeeded
	StatusFailed     Status = "failed"      // Phase work failed; terminal
	StatusSkipped    Status = "skipped"     // Deliberately not executed; terminal
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusSkipped:
		return true
	}
	return false
}

// legalTransitions is the exhaustive transition table. FAILED and COMPLETED
// have no retry edge; a new session is the only way to re-run a failed phase.
var legalTransitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusSkipped},
	StatusInProgress: {StatusCompleted, StatusFailed},
	StatusCompleted:  {},
	StatusFailed:     {},
	StatusSkipped:    {},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to Status) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Task is one node in the workflow dependency graph.
type Task struct {
	ID           string   `json:"id" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Status       Status   `json:"status" validate:"required,oneof=pending in_progress completed failed skipped"`
	Dependencies []string `json:"dependencies,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	ResearchURLs []string `json:"research_urls,omitempty"`
}

// New returns a pending task with the given id, description and dependencies.
func New(id, description string, dependencies ...string) Task {
	return Task{
		ID:           id,
		Description:  description,
		Status:       StatusPending,
		Dependencies: dependencies,
	}
}

var validate = validator.New()

// ValidateStruct runs validator tags on any model struct and flattens the
// field errors into a single readable error.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var msgs []string
	for _, e := range validationErrors {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed rule '%s'", e.StructNamespace(), e.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
