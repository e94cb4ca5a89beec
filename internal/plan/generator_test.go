package plan

import (
	"reflect"
	"strings"
	"testing"

	"github.com/NJRca/Metapod/internal/task"
)

func TestGenerateIsDeterministic(t *testing.T) {
	first := Generate("/srv/app", "node-express")
	second := Generate("/srv/app", "node-express")
	if !reflect.DeepEqual(first, second) {
		t.Fatal("Generate() returned different plans for identical inputs")
	}
}

func TestGenerateStepCountAndCategories(t *testing.T) {
	steps := Generate(".", "go-gin")
	if len(steps) != 20 {
		t.Fatalf("Generate() returned %d steps, want 20", len(steps))
	}

	counts := make(map[Category]int)
	for _, step := range steps {
		counts[step.Category]++
	}
	want := map[Category]int{
		CategoryArchitecture:  5,
		CategoryErrorHandling: 3,
		CategoryValidation:    4,
		CategoryObservability: 4,
		CategoryReliability:   4,
	}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("category counts = %v, want %v", counts, want)
	}
}

func TestGenerateStepsAreWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for _, step := range Generate(".", "python-fastapi") {
		if seen[step.Name] {
			t.Errorf("duplicate step name %q", step.Name)
		}
		seen[step.Name] = true

		if !step.Reversible {
			t.Errorf("step %q is not reversible", step.Name)
		}
		if len(step.ValidationSteps) == 0 {
			t.Errorf("step %q has no validation checks", step.Name)
		}
		if err := task.ValidateStruct(step); err != nil {
			t.Errorf("step %q failed validation: %v", step.Name, err)
		}
	}
}

func TestGenerateStackNamesValidationLibrary(t *testing.T) {
	cases := []struct {
		stack string
		want  string
	}{
		{"node-express", "zod"},
		{"python-fastapi", "pydantic"},
		{"go-gin", "validator"},
		{"unknown-stack", "appropriate"},
		{"", "appropriate"},
	}
	for _, tc := range cases {
		var found bool
		for _, step := range Generate(".", tc.stack) {
			if step.Name != "setup_validation_library" {
				continue
			}
			found = true
			if !strings.Contains(step.Description, tc.want) {
				t.Errorf("stack %q: description %q does not name %q", tc.stack, step.Description, tc.want)
			}
		}
		if !found {
			t.Errorf("stack %q: plan has no setup_validation_library step", tc.stack)
		}
	}
}

func TestGenerateStackOnlyChangesDescriptions(t *testing.T) {
	a := Generate(".", "node-express")
	b := Generate(".", "go-gin")
	if len(a) != len(b) {
		t.Fatalf("step counts differ across stacks: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Category != b[i].Category || a[i].RiskLevel != b[i].RiskLevel {
			t.Errorf("step %d differs structurally across stacks: %v vs %v", i, a[i], b[i])
		}
	}
}
