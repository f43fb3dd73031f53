package generate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/threatsmith/threatsmith/internal/validation"
	"github.com/threatsmith/threatsmith/pkg/shared/config"
	"github.com/threatsmith/threatsmith/pkg/shared/files"
)

// validateGenerateArgs validates the arguments provided to the generate
// command and resolves defaults from the configuration and environment.
func validateGenerateArgs(options *RunOptionsGenerate, cfg *config.Config) error {
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

	if options.SchemaFile == "" {
		if name := os.Getenv("INPUT_THREAT_SCHEMA_JSON"); name != "" {
			options.SchemaFile = filepath.Join(config.GetInputFolder(cfg), name)
		}
	}
	if options.SchemaFile != "" {
		if err := files.ValidatePath(options.SchemaFile); err != nil {
			return fmt.Errorf("invalid schema path: %w", err)
		}
	}

	if options.ResponseFile != "" {
		if err := files.ValidatePath(options.ResponseFile); err != nil {
			return fmt.Errorf("invalid response path: %w", err)
		}
	}

	if options.Framework == "" {
		options.Framework = cfg.Validation.Framework
	}
	if _, err := validation.FrameworkByName(options.Framework); err != nil {
		return err
	}

	if options.OutputPath == "" {
		options.OutputPath = config.GetResultsFolder(cfg)
	}

	if options.ResponseFile == "" {
		if cfg.LLM.Model == "" {
			return fmt.Errorf("no LLM model configured: set llm.model in the config or the LLM_MODEL_NAME environment variable")
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("no LLM API key configured: set llm.api_key in the config or the LLM_API_KEY/OPENAI_API_KEY environment variable")
		}
	}

	return nil
}
