package report

import (
	"fmt"
	"os"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/threatsmith/threatsmith/internal/validation"
)

const (
	toolName = "threatsmith"
	toolURI  = "https://github.com/threatsmith/threatsmith"
)

// WriteSarif exports findings as a SARIF run for CI consumption. One rule per
// finding category, severities mapped Error to error, Warning to warning and
// Info to note; the element id rides along as a result property.
func (r *Reporter) WriteSarif(outputFile, modelFile string, findings []validation.Finding) error {
	doc, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(toolName, toolURI)
	for _, f := range findings {
		ruleID := string(f.Category)
		run.AddRule(ruleID).
			WithDescription(describeCategory(f.Category)).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{
				Level: toSarifLevel(f.Severity),
			})

		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(modelFile)),
		)

		result := sarif.NewRuleResult(ruleID).
			WithMessage(sarif.NewTextMessage(f.Message)).
			WithLevel(toSarifLevel(f.Severity)).
			WithLocations([]*sarif.Location{location})
		if f.ElementID != "" {
			result.Properties = map[string]interface{}{"ElementId": f.ElementID}
		}
		run.AddResult(result)
	}
	doc.AddRun(run)

	file, err := os.OpenFile(outputFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create SARIF file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := doc.PrettyWrite(file); err != nil {
		return fmt.Errorf("failed to write SARIF file: %w", err)
	}
	return nil
}

func describeCategory(c validation.Category) string {
	switch c {
	case validation.CategoryMissingCoverage:
		return "In-scope element received no threats"
	case validation.CategoryUnknownId:
		return "Response references an element id missing from the model"
	case validation.CategoryQualityIssue:
		return "Generated threat violates the required field set"
	case validation.CategoryOutOfScopeThreat:
		return "Response targets an element excluded from scope"
	default:
		return string(c)
	}
}

func toSarifLevel(s validation.Severity) string {
	switch s {
	case validation.SeverityError:
		return "error"
	case validation.SeverityWarning:
		return "warning"
	case validation.SeverityInfo:
		return "note"
	default:
		return "none"
	}
}
