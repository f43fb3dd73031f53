package validate

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/threatsmith/threatsmith/internal/parser"
	"github.com/threatsmith/threatsmith/internal/report"
	"github.com/threatsmith/threatsmith/internal/threatdragon"
	"github.com/threatsmith/threatsmith/internal/validation"
	"github.com/threatsmith/threatsmith/pkg/shared/config"
)

// runValidation executes the dry-run pipeline: load and index the model,
// parse and validate the saved response, and report. The document is never
// modified and no output file is written.
func runValidation(cmd *cobra.Command, options *RunOptionsValidate, logger hclog.Logger) error {
	doc, err := threatdragon.Load(options.ModelFile)
	if err != nil {
		return err
	}
	logger.Info("threat model loaded", "path", options.ModelFile, "elements", len(doc.Index.Entries))

	if options.SchemaFile != "" {
		if err := threatdragon.ValidateSchema(doc, options.SchemaFile); err != nil {
			return err
		}
		logger.Debug("schema validation passed", "schema", options.SchemaFile)
	}

	fw, err := validation.FrameworkByName(options.Framework)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(options.ResponseFile)
	if err != nil {
		return fmt.Errorf("failed to read response file %q: %w", options.ResponseFile, err)
	}

	reporter := report.NewReporter(cmd.OutOrStdout())

	parsed, err := parser.Parse(string(data), fw.Name)
	if err != nil {
		findings := []validation.Finding{{
			Severity: validation.SeverityError,
			Category: validation.CategoryQualityIssue,
			Message:  err.Error(),
		}}
		summary := validation.BuildSummary(doc.Index, nil, findings)
		reporter.PrintSummary(options.ModelFile, summary, findings)
		if werr := writeReports(reporter, options, summary, findings, logger); werr != nil {
			logger.Warn("failed to write reports", "error", werr)
		}
		return err
	}

	opts := validation.Options{
		MinOverlapLength: AppConfig.Validation.MinOverlapLength,
		MaxEditDistance:  AppConfig.Validation.MaxEditDistance,
	}
	records, findings := validation.ClassifyRecords(doc.Index, parsed, opts)
	accepted, qualityFindings := validation.FilterQuality(records, fw)
	findings = append(findings, qualityFindings...)
	findings = append(findings, validation.EvaluateCoverage(doc.Index, accepted)...)
	summary := validation.BuildSummary(doc.Index, accepted, findings)

	reporter.PrintSummary(options.ModelFile, summary, findings)

	return writeReports(reporter, options, summary, findings, logger)
}

// writeReports persists the optional report outputs. A failed validation log
// is a warning; a failed SARIF write fails the command.
func writeReports(reporter *report.Reporter, options *RunOptionsValidate, summary validation.Summary, findings []validation.Finding, logger hclog.Logger) error {
	if !options.NoLog && config.GetBoolValue(AppConfig.Report, "WriteLog", true) {
		logPath, err := reporter.WriteLog(config.GetLogsFolder(AppConfig), options.ModelFile, summary, findings)
		if err != nil {
			logger.Warn("failed to write validation log", "error", err)
		} else {
			logger.Info("validation log written", "path", logPath)
		}
	}

	if options.SarifPath != "" {
		if err := reporter.WriteSarif(options.SarifPath, options.ModelFile, findings); err != nil {
			return err
		}
		logger.Info("sarif report written", "path", options.SarifPath)
	}

	return nil
}
