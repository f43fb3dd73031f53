package validate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/threatsmith/threatsmith/pkg/shared"
	"github.com/threatsmith/threatsmith/pkg/shared/config"
	"github.com/threatsmith/threatsmith/pkg/shared/errors"
	"github.com/threatsmith/threatsmith/pkg/shared/logger"
)

// RunOptionsValidate holds the arguments for the validate command.
type RunOptionsValidate struct {
	ModelFile    string
	SchemaFile   string
	ResponseFile string
	Framework    string
	SarifPath    string
	NoLog        bool
}

// Global variables for configuration and command arguments
var (
	AppConfig            *config.Config
	validateOptions      RunOptionsValidate
	exampleValidateUsage = `  # Validating a saved LLM response against a model without touching the document
  threatsmith validate --model /path/to/model.json --response /path/to/response.txt

  # Validating against the LINDDUN framework
  threatsmith validate --model /path/to/model.json --response /path/to/response.txt --framework LINDDUN

  # Writing the findings as a SARIF report
  threatsmith validate --model /path/to/model.json --response /path/to/response.txt --sarif /path/to/findings.sarif`
)

// ValidateCmd represents the validate command.
var ValidateCmd = &cobra.Command{
	Use:                   "validate --model/-m PATH --response/-r PATH [--schema/-s PATH] [--framework/-f NAME] [--sarif PATH] [--no-log]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleValidateUsage,
	Short:                 "Validate a saved LLM response against a Threat Dragon model without merging",
	RunE:                  runValidateCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runValidateCommand executes the validate command.
func runValidateCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-validate")

	if err := validateValidateArgs(&validateOptions, AppConfig); err != nil {
		logger.Error("invalid validate arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid validate arguments: %w", err), 1)
	}

	if err := runValidation(cmd, &validateOptions, logger); err != nil {
		logger.Error("validate command failed", "error", err)
		return errors.NewCommandError(fmt.Errorf("validate command failed: %w", err), 2)
	}

	logger.Info("validate command completed successfully")
	return nil
}

// Initialize flags for the validate command.
func init() {
	ValidateCmd.Flags().StringVarP(&validateOptions.Framework, "framework", "f", "", "Threat framework to validate against (STRIDE, LINDDUN, CIA, DIE, PLOT4ai, Generic). Defaults to the configured framework.")
	ValidateCmd.Flags().BoolP("help", "h", false, "Show help for the validate command.")
	ValidateCmd.Flags().StringVarP(&validateOptions.ModelFile, "model", "m", "", "Path to the Threat Dragon model to validate against.")
	ValidateCmd.Flags().BoolVar(&validateOptions.NoLog, "no-log", false, "Suppress the JSON validation log.")
	ValidateCmd.Flags().StringVarP(&validateOptions.ResponseFile, "response", "r", "", "Path to the saved raw LLM response to validate.")
	ValidateCmd.Flags().StringVar(&validateOptions.SarifPath, "sarif", "", "Path to write validation findings as a SARIF report.")
	ValidateCmd.Flags().StringVarP(&validateOptions.SchemaFile, "schema", "s", "", "Path to a Threat Dragon JSON schema to validate the model against.")
}
