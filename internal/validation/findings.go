package validation

import "sort"

// Severity of a validation finding.
type Severity string

const (
	SeverityError   Severity = "Error"
	SeverityWarning Severity = "Warning"
	SeverityInfo    Severity = "Info"
)

// Category of a validation finding.
type Category string

const (
	CategoryMissingCoverage  Category = "MissingCoverage"
	CategoryUnknownId        Category = "UnknownId"
	CategoryQualityIssue     Category = "QualityIssue"
	CategoryOutOfScopeThreat Category = "OutOfScopeThreat"
)

// Finding is one classified discrepancy between the model response and the
// threat model document. Findings inform the user; apart from Error records
// and threats dropped during filtering they never gate the merge.
type Finding struct {
	Severity  Severity `json:"severity"`
	Category  Category `json:"category"`
	ElementID string   `json:"elementId,omitempty"`
	Message   string   `json:"message"`
}

// Summary aggregates a validation run for reporting.
type Summary struct {
	InScopeElements int     `json:"inScopeElements"`
	CoveredElements int     `json:"coveredElements"`
	AcceptedThreats int     `json:"acceptedThreats"`
	Coverage        float64 `json:"coverage"`
	Errors          int     `json:"errors"`
	Warnings        int     `json:"warnings"`
	Infos           int     `json:"infos"`
}

var severityRank = map[Severity]int{
	SeverityError:   0,
	SeverityWarning: 1,
	SeverityInfo:    2,
}

// SortFindings orders findings Error first, then Warning, then Info, keeping
// the original order within each severity.
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		return severityRank[findings[i].Severity] < severityRank[findings[j].Severity]
	})
}
