package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/threatsmith/threatsmith/cmd/generate"
	"github.com/threatsmith/threatsmith/cmd/validate"
	"github.com/threatsmith/threatsmith/cmd/version"
	"github.com/threatsmith/threatsmith/pkg/shared/config"
	"github.com/threatsmith/threatsmith/pkg/shared/errors"
)

var (
	cfgFile   string
	verbose   bool
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "threatsmith [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Threatsmith generates and validates threats for OWASP Threat Dragon models.",
		Long: `Threatsmith asks an LLM to enumerate threats for an OWASP Threat Dragon model,
	validates the response against the model's element inventory, and merges the
	accepted threats back into the document.
	`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(generate.GenerateCmd)
	rootCmd.AddCommand(validate.ValidateCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		return errors.ExitCode(err)
	}
	return 0
}

func initConfig() {
	var err error

	// a .env file may carry the LLM credentials, absence is fine
	_ = godotenv.Load()

	if cfgFile == "" {
		cfgFile = "config.yml"
	}
	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Printf("initializing config file function is crashed - %v \n", err)
		os.Exit(1)
	}
	if verbose {
		AppConfig.Logger.Level = "debug"
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	generate.Init(AppConfig)
	validate.Init(AppConfig)
}
