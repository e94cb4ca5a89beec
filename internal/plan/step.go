// Package plan produces and applies the ordered remediation steps of a
// refactor plan. Generation is a pure function of its inputs; execution is a
// simulated extension point until a real file-mutation backend exists.
package plan

// RiskLevel classifies how disruptive a step is expected to be.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Category groups related steps within a plan. Every plan contains all five
// categories in this fixed order.
type Category string

const (
	CategoryArchitecture  Category = "architecture"
	CategoryErrorHandling Category = "error_handling"
	CategoryValidation    Category = "input_validation"
	CategoryObservability Category = "observability"
	CategoryReliability   Category = "reliability"
)

// Categories returns the fixed category order of every generated plan.
func Categories() []Category {
	return []Category{
		CategoryArchitecture,
		CategoryErrorHandling,
		CategoryValidation,
		CategoryObservability,
		CategoryReliability,
	}
}

// RefactorStep is one planned remediation unit. Steps are immutable once
// produced by the generator.
type RefactorStep struct {
	Name            string    `json:"name" yaml:"name" validate:"required"`
	Category        Category  `json:"category" yaml:"category" validate:"required,oneof=architecture error_handling input_validation observability reliability"`
	Description     string    `json:"description" yaml:"description" validate:"required"`
	FilesAffected   []string  `json:"files_affected" yaml:"filesAffected"`
	RiskLevel       RiskLevel `json:"risk_level" yaml:"riskLevel" validate:"required,oneof=low medium high"`
	Reversible      bool      `json:"reversible" yaml:"reversible"`
	ValidationSteps []string  `json:"validation_steps" yaml:"validationSteps" validate:"min=1,dive,required"`
}
