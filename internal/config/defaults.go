// Package config provides centralized configuration for Metapod.
// All default values and stack parameterization tables live here to ensure a
// single source of truth.
package config

import "time"

// Workflow defaults.
const (
	// DefaultTargetStack is the stack label used when none is configured.
	// Unknown labels are legal: they only soften descriptive text in the
	// generated plan, never its shape.
	DefaultTargetStack = "lovable-supabase-github"

	// DefaultStepDelay is the simulated work duration for one plan step.
	DefaultStepDelay = 100 * time.Millisecond
)

// Research engine defaults.
const (
	// ResearchTimeout bounds each source fetch.
	ResearchTimeout = 30 * time.Second

	// ResearchUserAgent identifies Metapod to the servers it fetches from.
	ResearchUserAgent = "Metapod-Agent/1.0 (Backend Refactoring Bot)"

	// ResearchMaxSources caps how many candidate URLs one research call fetches.
	ResearchMaxSources = 5

	// ResearchMaxContentLength truncates fetched document text.
	ResearchMaxContentLength = 10000
)

// StackConfig names the libraries a target stack is expected to use. The plan
// generator consumes these for descriptive text only.
type StackConfig struct {
	Validation string `yaml:"validation"`
	HTTPClient string `yaml:"httpClient"`
	Logging    string `yaml:"logging"`
	Metrics    string `yaml:"metrics"`
	Tracing    string `yaml:"tracing"`
	ORM        string `yaml:"orm"`
	Testing    string `yaml:"testing"`
}

// stackConfigs maps known target stacks to their recommended libraries.
var stackConfigs = map[string]StackConfig{
	"node-express": {
		Validation: "zod",
		HTTPClient: "undici",
		Logging:    "pino",
		Metrics:    "prometheus",
		Tracing:    "opentelemetry",
		ORM:        "prisma",
		Testing:    "jest",
	},
	"python-fastapi": {
		Validation: "pydantic",
		HTTPClient: "httpx",
		Logging:    "structlog",
		Metrics:    "prometheus",
		Tracing:    "opentelemetry",
		ORM:        "sqlalchemy",
		Testing:    "pytest",
	},
	"go-gin": {
		Validation: "validator",
		HTTPClient: "net/http",
		Logging:    "zerolog",
		Metrics:    "prometheus",
		Tracing:    "opentelemetry",
		ORM:        "gorm",
		Testing:    "testify",
	},
}

// StackFor returns the configuration for a target stack and whether the stack
// is known.
func StackFor(stack string) (StackConfig, bool) {
	cfg, ok := stackConfigs[stack]
	return cfg, ok
}

// KnownStacks returns the labels of all configured stacks.
func KnownStacks() []string {
	out := make([]string, 0, len(stackConfigs))
	for k := range stackConfigs {
		out = append(out, k)
	}
	return out
}

// ArchitectureRules are the enforceable fitness functions the plan recommends
// to the target codebase.
var ArchitectureRules = []string{
	"No DB/network I/O outside adapters/repositories",
	"All outbound calls must set timeouts; transient paths must have jittered retry",
	"Every handler validates input and returns RFC 9457 problem+json on 4xx/5xx",
	"All logs are structured and carry a correlation/trace ID",
	"Tests required for every new/changed port (contract tests)",
	"Prohibit secrets and PII in logs; add redaction filter tests",
	"CI must run: typecheck, lint/format, unit, contract, SCA, SAST, secret scan, API lint",
}

// SecurityRequirements is the security baseline recommended by the plan.
var SecurityRequirements = []string{
	"Input validation at all edges (body/query/headers)",
	"Fail closed with clear problem+json responses",
	"Secrets via env/secret store, least-privileged DB/cloud roles",
	"No secrets in code",
	"Follow OWASP ASVS & API Top 10",
	"PII tagging, retention, and deletion/export paths",
	"Never log secrets/PII; add redaction filters",
}

// QualityGates are the CI/CD gates the generated PR content references.
var QualityGates = []string{
	"Type-checks must pass",
	"Lint/format compliance",
	"Unit tests >90% coverage",
	"Contract tests for all ports",
	"SCA (dependency scan)",
	"SAST (static analysis)",
	"Secret scanning",
	"API lint compliance",
	"Performance budgets enforced",
	"Error rate budget enforced",
}

// ObservabilityRequirements drive the observability phase notes.
var ObservabilityRequirements = []string{
	"Structured logs with correlation IDs",
	"RED metrics (Rate, Errors, Duration)",
	"Distributed tracing across boundaries",
	"Request/user/tenant/build SHA in logs",
	"Circuit breaker metrics",
	"Database connection pool metrics",
	"Cache hit/miss rates",
}
