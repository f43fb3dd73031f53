package validate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/threatsmith/threatsmith/internal/validation"
	"github.com/threatsmith/threatsmith/pkg/shared/config"
	"github.com/threatsmith/threatsmith/pkg/shared/files"
)

// validateValidateArgs validates the arguments provided to the validate
// command and resolves defaults from the configuration and environment.
func validateValidateArgs(options *RunOptionsValidate, cfg *config.Config) error {
	if options.ModelFile == "" {
		if name := os.Getenv("INPUT_THREAT_MODEL_JSON"); name != "" {
			options.ModelFile = filepath.Join(config.GetInputFolder(cfg), name)
		}
	}
	if options.ModelFile == "" {
		return fmt.Errorf("the 'model' flag must be specified, or INPUT_THREAT_MODEL_JSON set in the environment")
	}
	if err := files.ValidatePath(options.ModelFile); err != nil {
		return fmt.Errorf("invalid model path: %w", err)
	}

	if options.ResponseFile == "" {
		return fmt.Errorf("the 'response' flag must be specified")
	}
	if err := files.ValidatePath(options.ResponseFile); err != nil {
		return fmt.Errorf("invalid response path: %w", err)
	}

	if options.SchemaFile != "" {
		if err := files.ValidatePath(options.SchemaFile); err != nil {
			return fmt.Errorf("invalid schema path: %w", err)
		}
	}

	if options.Framework == "" {
		options.Framework = cfg.Validation.Framework
	}
	if _, err := validation.FrameworkByName(options.Framework); err != nil {
		return err
	}

	return nil
}
