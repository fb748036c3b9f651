package models

type IssueType string

const (
	IssueMissingComponents IssueType = "missing_components"
	IssueSocketMismatch    IssueType = "socket_mismatch"
	IssueRAMTypeMismatch   IssueType = "ram_type_mismatch"
	IssueRAMSpeedWarning   IssueType = "ram_speed_warning"
	IssueFormFactor        IssueType = "form_factor"
	IssueInsufficientPower IssueType = "insufficient_power"
	IssueLowPowerMargin    IssueType = "low_power_margin"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ComponentGeneral marks issues that concern the whole build.
const ComponentGeneral = "general"

type ValidationIssue struct {
	ComponentType string         `json:"component_type"`
	IssueType     IssueType      `json:"issue_type"`
	Severity      Severity       `json:"severity"`
	Message       string         `json:"message"`
	Details       map[string]any `json:"details,omitempty"`
}

type ValidationResult struct {
	IsValid               bool              `json:"is_valid"`
	Issues                []ValidationIssue `json:"issues"`
	TotalPowerConsumption *float64          `json:"total_power_consumption,omitempty"`
	RecommendedPSUWattage *float64          `json:"recommended_psu_wattage,omitempty"`
	PerformanceScore      *float64          `json:"performance_score,omitempty"`
}

// HasErrors reports whether any issue blocks the build.
func (r ValidationResult) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}
