package validation

import (
	"fmt"
	"strings"

	"github.com/threatsmith/threatsmith/internal/parser"
	"github.com/threatsmith/threatsmith/internal/threatdragon"
)

var (
	statusCanon = canonSet(
		threatdragon.StatusNA,
		threatdragon.StatusOpen,
		threatdragon.StatusMitigated,
	)
	severityCanon = canonSet(
		threatdragon.SeverityHigh,
		threatdragon.SeverityMedium,
		threatdragon.SeverityLow,
	)
)

func canonSet(values ...string) map[string]string {
	m := make(map[string]string, len(values))
	for _, v := range values {
		m[normalizeToken(v)] = v
	}
	return m
}

// FilterQuality applies the per-threat field rules to identity-accepted
// records and returns the merge-ready threats grouped by element id. A threat
// missing a required field is dropped without touching its siblings;
// everything else is normalized in place and kept.
func FilterQuality(records []parser.Record, fw *Framework) (map[string][]threatdragon.Threat, []Finding) {
	accepted := make(map[string][]threatdragon.Threat)
	var findings []Finding

	for _, rec := range records {
		for _, t := range rec.Threats {
			if missing := missingFields(t); len(missing) > 0 {
				findings = append(findings, Finding{
					Severity:  SeverityError,
					Category:  CategoryQualityIssue,
					ElementID: rec.ElementID,
					Message:   fmt.Sprintf("threat %s dropped, missing required %s", describeThreat(t), strings.Join(missing, ", ")),
				})
				continue
			}

			if strings.TrimSpace(t.Mitigation) == "" {
				findings = append(findings, Finding{
					Severity:  SeverityWarning,
					Category:  CategoryQualityIssue,
					ElementID: rec.ElementID,
					Message:   fmt.Sprintf("threat %q has no mitigation", t.Title),
				})
			}

			if canonical, ok := fw.Canonical(t.Type); ok {
				t.Type = canonical
			} else {
				findings = append(findings, Finding{
					Severity:  SeverityWarning,
					Category:  CategoryQualityIssue,
					ElementID: rec.ElementID,
					Message:   fmt.Sprintf("threat %q type %q is not a %s category, set to %s", t.Title, t.Type, fw.Name, CategoryOther),
				})
				t.Type = CategoryOther
			}

			if canonical, ok := statusCanon[normalizeToken(t.Status)]; ok {
				t.Status = canonical
			} else {
				findings = append(findings, Finding{
					Severity:  SeverityWarning,
					Category:  CategoryQualityIssue,
					ElementID: rec.ElementID,
					Message:   fmt.Sprintf("threat %q status %q reset to %s", t.Title, t.Status, threatdragon.StatusOpen),
				})
				t.Status = threatdragon.StatusOpen
			}

			if canonical, ok := severityCanon[normalizeToken(t.Severity)]; ok {
				t.Severity = canonical
			} else {
				findings = append(findings, Finding{
					Severity:  SeverityWarning,
					Category:  CategoryQualityIssue,
					ElementID: rec.ElementID,
					Message:   fmt.Sprintf("threat %q severity %q reset to %s", t.Title, t.Severity, threatdragon.SeverityMedium),
				})
				t.Severity = threatdragon.SeverityMedium
			}

			accepted[rec.ElementID] = append(accepted[rec.ElementID], t)
		}
	}
	return accepted, findings
}

func missingFields(t threatdragon.Threat) []string {
	var missing []string
	if strings.TrimSpace(t.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(t.Type) == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(t.Description) == "" {
		missing = append(missing, "description")
	}
	return missing
}

func describeThreat(t threatdragon.Threat) string {
	if strings.TrimSpace(t.Title) == "" {
		return "without a title"
	}
	return fmt.Sprintf("%q", t.Title)
}
