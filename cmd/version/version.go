package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/threatsmith/threatsmith/pkg/shared"
)

var (
	CoreVersion   = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"
)

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "version",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version number of the application",
		Run: func(cmd *cobra.Command, args []string) {
			versionInfo := shared.Versions{
				Version:       CoreVersion,
				GolangVersion: GolangVersion,
				BuildTime:     BuildTime,
			}
			printVersionInfo(&versionInfo)
		},
	}
}

// printVersionInfo prints the version information for the core application.
func printVersionInfo(versions *shared.Versions) {
	fmt.Printf("Core Version: v%s\n", versions.Version)
	fmt.Printf("Go Version: %s\n", versions.GolangVersion)
	fmt.Printf("Build Time: %s\n", versions.BuildTime)
}
