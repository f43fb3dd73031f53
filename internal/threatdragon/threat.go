package threatdragon

// Threat statuses and severities accepted by Threat Dragon.
const (
	StatusNA        = "NA"
	StatusOpen      = "Open"
	StatusMitigated = "Mitigated"

	SeverityHigh   = "High"
	SeverityMedium = "Medium"
	SeverityLow    = "Low"
)

// Threat is a single threat attached to a diagram element. The JSON field
// order matches what the Threat Dragon editor writes so merged documents stay
// diffable against hand-edited ones.
type Threat struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Status      string `json:"status"`
	Severity    string `json:"severity"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Mitigation  string `json:"mitigation"`
	ModelType   string `json:"modelType"`
}
