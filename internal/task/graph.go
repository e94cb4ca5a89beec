package task

import (
	"errors"
	"fmt"
)

// Graph construction errors. These are the only errors that surface as hard
// failures before a session starts.
var (
	ErrDependencyCycle   = errors.New("dependency cycle detected")
	ErrUnknownDependency = errors.New("unknown dependency")
	ErrUnknownTask       = errors.New("unknown task")
	ErrIllegalTransition = errors.New("illegal status transition")
)

// Graph holds tasks keyed by id and preserves registration order.
// It is not safe for concurrent use; a session owns exactly one graph.
type Graph struct {
	tasks map[string]*Task
	order []string
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{tasks: make(map[string]*Task)}
}

// Register adds a task to the graph. Every declared dependency must already
// be registered, and the resulting graph must stay acyclic.
func (g *Graph) Register(t Task) error {
	if err := ValidateStruct(t); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}
	if _, exists := g.tasks[t.ID]; exists {
		return fmt.Errorf("task %q already registered", t.ID)
	}
	for _, depID := range t.Dependencies {
		if _, ok := g.tasks[depID]; !ok {
			return fmt.Errorf("%w: task %q depends on %q", ErrUnknownDependency, t.ID, depID)
		}
	}

	g.tasks[t.ID] = &t
	g.order = append(g.order, t.ID)

	if err := g.verifyAcyclic(); err != nil {
		delete(g.tasks, t.ID)
		g.order = g.order[:len(g.order)-1]
		return err
	}
	return nil
}

// verifyAcyclic runs a depth-first traversal over the whole graph. A back
// edge to a node still on the traversal stack signals a cycle.
func (g *Graph) verifyAcyclic() error {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)

	var visit func(id string) error
	visit = func(id string) error {
		visited[id] = true
		onStack[id] = true

		t, ok := g.tasks[id]
		if !ok {
			onStack[id] = false
			return nil
		}
		for _, depID := range t.Dependencies {
			if !visited[depID] {
				if err := visit(depID); err != nil {
					return err
				}
			} else if onStack[depID] {
				return fmt.Errorf("%w: %s -> %s", ErrDependencyCycle, id, depID)
			}
		}

		onStack[id] = false
		return nil
	}

	for _, id := range g.order {
		if !visited[id] {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// Get returns the task with the given id.
func (g *Graph) Get(id string) (*Task, error) {
	t, ok := g.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTask, id)
	}
	return t, nil
}

// Len returns the number of registered tasks.
func (g *Graph) Len() int {
	return len(g.tasks)
}

// IDs returns task ids in registration order.
func (g *Graph) IDs() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// CanStart reports whether every dependency of the task is COMPLETED.
func (g *Graph) CanStart(id string) (bool, error) {
	t, err := g.Get(id)
	if err != nil {
		return false, err
	}
	for _, depID := range t.Dependencies {
		dep, err := g.Get(depID)
		if err != nil {
			return false, err
		}
		if dep.Status != StatusCompleted {
			return false, nil
		}
	}
	return true, nil
}

// Transition moves a task to a new status, enforcing the transition table.
func (g *Graph) Transition(id string, to Status) error {
	t, err := g.Get(id)
	if err != nil {
		return err
	}
	if !CanTransition(t.Status, to) {
		return fmt.Errorf("%w: task %q cannot move %s -> %s", ErrIllegalTransition, id, t.Status, to)
	}
	t.Status = to
	return nil
}

// TopologicalSort returns task ids in dependency order, dependencies first.
// Ties are broken by registration order so the result is deterministic.
func (g *Graph) TopologicalSort() ([]string, error) {
	if err := g.verifyAcyclic(); err != nil {
		return nil, err
	}

	var sorted []string
	visited := make(map[string]bool)

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		t := g.tasks[id]
		for _, depID := range t.Dependencies {
			visit(depID)
		}
		sorted = append(sorted, id)
	}

	for _, id := range g.order {
		visit(id)
	}
	return sorted, nil
}
