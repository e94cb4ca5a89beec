package plan

import (
	"fmt"

	"github.com/NJRca/Metapod/internal/config"
)

// Generate returns the complete ordered refactor plan for a project. The
// result is deterministic for identical inputs: the target stack only changes
// descriptive text (which validation library is named), never step count,
// order, or risk levels. The project root is part of the input contract but
// uninterpreted; no filesystem access happens here.
func Generate(projectRoot, targetStack string) []RefactorStep {
	_ = projectRoot
	var steps []RefactorStep
	steps = append(steps, architectureSteps()...)
	steps = append(steps, errorHandlingSteps()...)
	steps = append(steps, validationSteps(targetStack)...)
	steps = append(steps, observabilitySteps()...)
	steps = append(steps, reliabilitySteps()...)
	return steps
}

// architectureSteps applies the ports-and-adapters (hexagonal) backbone.
func architectureSteps() []RefactorStep {
	return []RefactorStep{
		{
			Name:        "create_hex_structure",
			Category:    CategoryArchitecture,
			Description: "Create hexagonal architecture directory structure",
			FilesAffected: []string{
				"src/core/domain/.gitkeep",
				"src/core/use_cases/.gitkeep",
				"src/core/ports/.gitkeep",
				"src/adapters/web/.gitkeep",
				"src/adapters/database/.gitkeep",
				"src/adapters/external/.gitkeep",
				"src/infrastructure/config/.gitkeep",
				"src/infrastructure/logging/.gitkeep",
				"src/infrastructure/metrics/.gitkeep",
			},
			RiskLevel:       RiskLow,
			Reversible:      true,
			ValidationSteps: []string{"Check directory structure exists", "Verify no existing code broken"},
		},
		{
			Name:            "extract_domain_models",
			Category:        CategoryArchitecture,
			Description:     "Extract pure domain models without dependencies",
			FilesAffected:   []string{"src/core/domain/*"},
			RiskLevel:       RiskMedium,
			Reversible:      true,
			ValidationSteps: []string{"Domain models have no external dependencies", "Tests still pass"},
		},
		{
			Name:            "create_port_interfaces",
			Category:        CategoryArchitecture,
			Description:     "Define port interfaces for repositories and external services",
			FilesAffected:   []string{"src/core/ports/*"},
			RiskLevel:       RiskLow,
			Reversible:      true,
			ValidationSteps: []string{"Interfaces are properly defined", "No implementation details in ports"},
		},
		{
			Name:            "implement_adapters",
			Category:        CategoryArchitecture,
			Description:     "Implement concrete adapters for each port",
			FilesAffected:   []string{"src/adapters/**/*"},
			RiskLevel:       RiskMedium,
			Reversible:      true,
			ValidationSteps: []string{"All ports have implementations", "Adapters pass contract tests"},
		},
		{
			Name:            "refactor_handlers",
			Category:        CategoryArchitecture,
			Description:     "Move business logic from handlers to use cases",
			FilesAffected:   []string{"src/adapters/web/*", "src/core/use_cases/*"},
			RiskLevel:       RiskHigh,
			Reversible:      true,
			ValidationSteps: []string{"Handlers only handle HTTP concerns", "Business logic in use cases", "All tests pass"},
		},
	}
}

// errorHandlingSteps standardizes errors on RFC 9457 Problem Details.
func errorHandlingSteps() []RefactorStep {
	return []RefactorStep{
		{
			Name:            "create_error_models",
			Category:        CategoryErrorHandling,
			Description:     "Create RFC 9457 Problem Details error models",
			FilesAffected:   []string{"src/core/domain/errors*"},
			RiskLevel:       RiskLow,
			Reversible:      true,
			ValidationSteps: []string{"Error models follow RFC 9457", "Models are properly typed"},
		},
		{
			Name:            "create_error_middleware",
			Category:        CategoryErrorHandling,
			Description:     "Create middleware to catch and format all errors",
			FilesAffected:   []string{"src/adapters/web/middleware/error_handler*"},
			RiskLevel:       RiskMedium,
			Reversible:      true,
			ValidationSteps: []string{"All errors are caught", "Errors follow standard format", "No sensitive data leaked"},
		},
		{
			Name:            "update_handler_errors",
			Category:        CategoryErrorHandling,
			Description:     "Update handlers to throw domain-specific errors",
			FilesAffected:   []string{"src/adapters/web/handlers/*"},
			RiskLevel:       RiskMedium,
			Reversible:      true,
			ValidationSteps: []string{"Handlers throw typed errors", "Error responses are consistent"},
		},
	}
}

// validationSteps adds input validation at all boundaries. The stack only
// selects which validation library the descriptions name.
func validationSteps(targetStack string) []RefactorStep {
	library := "appropriate"
	if cfg, ok := config.StackFor(targetStack); ok {
		library = cfg.Validation
	}

	return []RefactorStep{
		{
			Name:            "setup_validation_library",
			Category:        CategoryValidation,
			Description:     fmt.Sprintf("Setup %s validation library", library),
			FilesAffected:   []string{"requirements.txt", "package.json", "go.mod"},
			RiskLevel:       RiskLow,
			Reversible:      true,
			ValidationSteps: []string{"Library installed", "Basic validation works"},
		},
		{
			Name:            "create_validation_schemas",
			Category:        CategoryValidation,
			Description:     "Create validation schemas for request bodies, query params, headers",
			FilesAffected:   []string{"src/adapters/web/schemas/*"},
			RiskLevel:       RiskLow,
			Reversible:      true,
			ValidationSteps: []string{"Schemas cover all inputs", "Schemas are properly typed"},
		},
		{
			Name:            "add_validation_middleware",
			Category:        CategoryValidation,
			Description:     "Add middleware to validate all incoming requests",
			FilesAffected:   []string{"src/adapters/web/middleware/validation*"},
			RiskLevel:       RiskMedium,
			Reversible:      true,
			ValidationSteps: []string{"All requests validated", "Validation errors return 400 with details"},
		},
		{
			Name:            "update_handlers_validation",
			Category:        CategoryValidation,
			Description:     "Update all handlers to use validation schemas",
			FilesAffected:   []string{"src/adapters/web/handlers/*"},
			RiskLevel:       RiskMedium,
			Reversible:      true,
			ValidationSteps: []string{"All handlers validate input", "Invalid input rejected cleanly"},
		},
	}
}

// observabilitySteps wires structured logging, correlation, metrics, tracing.
func observabilitySteps() []RefactorStep {
	return []RefactorStep{
		{
			Name:            "setup_structured_logging",
			Category:        CategoryObservability,
			Description:     "Implement structured JSON logging",
			FilesAffected:   []string{"src/infrastructure/logging/*"},
			RiskLevel:       RiskLow,
			Reversible:      true,
			ValidationSteps: []string{"Logs are JSON formatted", "Log levels work correctly"},
		},
		{
			Name:            "add_correlation_ids",
			Category:        CategoryObservability,
			Description:     "Add correlation IDs to track requests across services",
			FilesAffected:   []string{"src/adapters/web/middleware/correlation*"},
			RiskLevel:       RiskLow,
			Reversible:      true,
			ValidationSteps: []string{"All requests have correlation ID", "IDs propagated in logs"},
		},
		{
			Name:            "setup_metrics",
			Category:        CategoryObservability,
			Description:     "Implement RED metrics collection",
			FilesAffected:   []string{"src/infrastructure/metrics/*"},
			RiskLevel:       RiskLow,
			Reversible:      true,
			ValidationSteps: []string{"Metrics are collected", "Metrics endpoint available"},
		},
		{
			Name:            "setup_tracing",
			Category:        CategoryObservability,
			Description:     "Implement distributed tracing with OpenTelemetry",
			FilesAffected:   []string{"src/infrastructure/tracing/*"},
			RiskLevel:       RiskLow,
			Reversible:      true,
			ValidationSteps: []string{"Traces are generated", "Traces include all operations"},
		},
	}
}

// reliabilitySteps recommends timeouts, retries, breakers and clean shutdown
// for the target codebase. These are plan recommendations; the engine does
// not apply retry policy to its own execution.
func reliabilitySteps() []RefactorStep {
	return []RefactorStep{
		{
			Name:            "add_timeouts",
			Category:        CategoryReliability,
			Description:     "Add configurable timeouts to all external calls",
			FilesAffected:   []string{"src/adapters/external/*", "src/adapters/database/*"},
			RiskLevel:       RiskMedium,
			Reversible:      true,
			ValidationSteps: []string{"All external calls have timeouts", "Timeouts are configurable"},
		},
		{
			Name:            "add_retry_logic",
			Category:        CategoryReliability,
			Description:     "Add retry logic with jittered exponential backoff",
			FilesAffected:   []string{"src/infrastructure/reliability/*"},
			RiskLevel:       RiskMedium,
			Reversible:      true,
			ValidationSteps: []string{"Retries work for transient failures", "Backoff prevents thundering herd"},
		},
		{
			Name:            "add_circuit_breakers",
			Category:        CategoryReliability,
			Description:     "Add circuit breakers to prevent cascade failures",
			FilesAffected:   []string{"src/infrastructure/reliability/circuit_breaker*"},
			RiskLevel:       RiskHigh,
			Reversible:      true,
			ValidationSteps: []string{"Circuit breakers protect against failures", "Breakers have monitoring"},
		},
		{
			Name:            "add_graceful_shutdown",
			Category:        CategoryReliability,
			Description:     "Implement graceful shutdown for clean deployments",
			FilesAffected:   []string{"src/main*", "src/infrastructure/shutdown*"},
			RiskLevel:       RiskMedium,
			Reversible:      true,
			ValidationSteps: []string{"Application shuts down cleanly", "In-flight requests completed"},
		},
	}
}
