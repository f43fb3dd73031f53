package generate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/threatsmith/threatsmith/internal/llm"
	"github.com/threatsmith/threatsmith/internal/merge"
	"github.com/threatsmith/threatsmith/internal/parser"
	"github.com/threatsmith/threatsmith/internal/report"
	"github.com/threatsmith/threatsmith/internal/threatdragon"
	"github.com/threatsmith/threatsmith/internal/validation"
	"github.com/threatsmith/threatsmith/pkg/shared/config"
	"github.com/threatsmith/threatsmith/pkg/shared/files"
)

// runPipeline executes the full generation pipeline for a validated set of
// options: load and index the model, obtain the raw LLM response, parse and
// validate it, report, and merge the accepted threats into the output copy.
func runPipeline(cmd *cobra.Command, options *RunOptionsGenerate, logger hclog.Logger) error {
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

	text, err := obtainResponse(cmd, options, doc, fw, logger)
	if err != nil {
		return err
	}

	reporter := report.NewReporter(cmd.OutOrStdout())

	parsed, err := parser.Parse(text, fw.Name)
	if err != nil {
		reportParseFailure(reporter, options, doc, err, logger)
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

	engine := merge.New(logger)
	res, err := engine.Apply(doc, accepted)
	if err != nil {
		return err
	}
	logger.Info("merge completed", "merged", res.MergedThreats, "skipped_duplicates", res.SkippedDuplicates, "highlighted_cells", res.HighlightedCells)

	outputFile, _, err := files.DetermineFileFullPath(options.OutputPath, filepath.Base(options.ModelFile))
	if err != nil {
		return err
	}
	if err := files.WriteFileAtomic(outputFile, res.Raw); err != nil {
		return err
	}
	logger.Info("merged threat model written", "path", outputFile)

	return writeReports(reporter, options, summary, findings, logger)
}

// obtainResponse returns the raw LLM response text, either replayed from a
// file or requested from the configured chat-completions endpoint.
func obtainResponse(cmd *cobra.Command, options *RunOptionsGenerate, doc *threatdragon.Document, fw *validation.Framework, logger hclog.Logger) (string, error) {
	if options.ResponseFile != "" {
		logger.Info("replaying recorded response", "path", options.ResponseFile)
		data, err := os.ReadFile(options.ResponseFile)
		if err != nil {
			return "", fmt.Errorf("failed to read response file %q: %w", options.ResponseFile, err)
		}
		return string(data), nil
	}

	filtered, err := doc.FilterOutOfScope()
	if err != nil {
		return "", err
	}

	var schemaJSON []byte
	if options.SchemaFile != "" {
		schemaJSON, err = os.ReadFile(options.SchemaFile)
		if err != nil {
			return "", fmt.Errorf("failed to read schema file %q: %w", options.SchemaFile, err)
		}
	}

	builder, err := llm.NewBuilder(AppConfig.LLM.PromptTemplate)
	if err != nil {
		return "", err
	}
	prompt, err := builder.BuildPrompt(schemaJSON, filtered, fw.Name, fw.Categories)
	if err != nil {
		return "", err
	}

	client := llm.New(AppConfig, logger)
	logger.Info("requesting threat generation", "model", AppConfig.LLM.Model, "framework", fw.Name)
	return client.GenerateThreats(cmd.Context(), prompt)
}

// reportParseFailure reports a run whose response could not be parsed: the
// coverage summary still prints, with zero accepted threats and the parse
// error as the only finding.
func reportParseFailure(reporter *report.Reporter, options *RunOptionsGenerate, doc *threatdragon.Document, parseErr error, logger hclog.Logger) {
	findings := []validation.Finding{{
		Severity: validation.SeverityError,
		Category: validation.CategoryQualityIssue,
		Message:  parseErr.Error(),
	}}
	summary := validation.BuildSummary(doc.Index, nil, findings)
	reporter.PrintSummary(options.ModelFile, summary, findings)
	if err := writeReports(reporter, options, summary, findings, logger); err != nil {
		logger.Warn("failed to write reports", "error", err)
	}
}

// writeReports persists the optional report outputs. A failed validation log
// is a warning; a failed SARIF write fails the command.
func writeReports(reporter *report.Reporter, options *RunOptionsGenerate, summary validation.Summary, findings []validation.Finding, logger hclog.Logger) error {
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
