package shared

import (
	"github.com/spf13/pflag"
)

// Versions holds build-time version information injected via ldflags.
type Versions struct {
	Version       string `json:"version"`
	GolangVersion string `json:"golang_version"`
	BuildTime     string `json:"build_time"`
}

// HasFlags reports whether any flag in the set was explicitly set on the
// command line.
func HasFlags(flags *pflag.FlagSet) bool {
	has := false
	flags.Visit(func(*pflag.Flag) {
		has = true
	})
	return has
}
