package generate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/threatsmith/threatsmith/pkg/shared"
	"github.com/threatsmith/threatsmith/pkg/shared/config"
	"github.com/threatsmith/threatsmith/pkg/shared/errors"
	"github.com/threatsmith/threatsmith/pkg/shared/logger"
)

// RunOptionsGenerate holds the arguments for the generate command.
type RunOptionsGenerate struct {
	ModelFile    string
	SchemaFile   string
	ResponseFile string
	OutputPath   string
	Framework    string
	SarifPath    string
	NoLog        bool
}

// Global variables for configuration and command arguments
var (
	AppConfig            *config.Config
	generateOptions      RunOptionsGenerate
	exampleGenerateUsage = `  # Generating threats for a model, writing the merged document to the results folder
  threatsmith generate --model /path/to/model.json

  # Generating threats with the LINDDUN framework and an explicit output file
  threatsmith generate --model /path/to/model.json --framework LINDDUN --output /path/to/out/model.json

  # Validating the model against a Threat Dragon schema before generation
  threatsmith generate --model /path/to/model.json --schema /path/to/owasp.threat-dragon.schema.V2.json

  # Replaying a saved raw LLM response instead of calling the model
  threatsmith generate --model /path/to/model.json --response /path/to/response.txt

  # Writing validation findings as a SARIF report
  threatsmith generate --model /path/to/model.json --sarif /path/to/findings.sarif`
)

// GenerateCmd represents the generate command.
var GenerateCmd = &cobra.Command{
	Use:                   "generate --model/-m PATH [--schema/-s PATH] [--response/-r PATH] [--framework/-f NAME] [--output/-o PATH] [--sarif PATH] [--no-log]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleGenerateUsage,
	Short:                 "Generate threats for a Threat Dragon model and merge them into the document",
	RunE:                  runGenerateCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runGenerateCommand executes the generate command.
func runGenerateCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-generate")

	if err := validateGenerateArgs(&generateOptions, AppConfig); err != nil {
		logger.Error("invalid generate arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid generate arguments: %w", err), 1)
	}

	if err := runPipeline(cmd, &generateOptions, logger); err != nil {
		logger.Error("generate command failed", "error", err)
		return errors.NewCommandError(fmt.Errorf("generate command failed: %w", err), 2)
	}

	logger.Info("generate command completed successfully")
	return nil
}

// Initialize flags for the generate command.
func init() {
	GenerateCmd.Flags().StringVarP(&generateOptions.Framework, "framework", "f", "", "Threat framework to generate against (STRIDE, LINDDUN, CIA, DIE, PLOT4ai, Generic). Defaults to the configured framework.")
	GenerateCmd.Flags().BoolP("help", "h", false, "Show help for the generate command.")
	GenerateCmd.Flags().StringVarP(&generateOptions.ModelFile, "model", "m", "", "Path to the Threat Dragon model to generate threats for.")
	GenerateCmd.Flags().BoolVar(&generateOptions.NoLog, "no-log", false, "Suppress the JSON validation log.")
	GenerateCmd.Flags().StringVarP(&generateOptions.OutputPath, "output", "o", "", "Path to the output file or directory where the merged model will be saved.")
	GenerateCmd.Flags().StringVarP(&generateOptions.ResponseFile, "response", "r", "", "Path to a saved raw LLM response to replay instead of calling the model.")
	GenerateCmd.Flags().StringVar(&generateOptions.SarifPath, "sarif", "", "Path to write validation findings as a SARIF report.")
	GenerateCmd.Flags().StringVarP(&generateOptions.SchemaFile, "schema", "s", "", "Path to a Threat Dragon JSON schema to validate the model against.")
}
