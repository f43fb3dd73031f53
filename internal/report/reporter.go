package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/threatsmith/threatsmith/internal/validation"
)

const bannerWidth = 56

// Reporter renders validation outcomes for humans and machines. It never
// mutates findings and never influences the merge.
type Reporter struct {
	out io.Writer
}

// NewReporter creates a reporter writing its console output to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// PrintSummary writes the run report: the coverage banner followed by the
// findings grouped Error, Warning, Info.
func (r *Reporter) PrintSummary(modelFile string, s validation.Summary, findings []validation.Finding) {
	line := strings.Repeat("-", bannerWidth)

	fmt.Fprintln(r.out, line)
	fmt.Fprintf(r.out, " Threat generation report: %s\n", modelFile)
	fmt.Fprintln(r.out, line)
	fmt.Fprintf(r.out, " Elements in scope:     %d\n", s.InScopeElements)
	fmt.Fprintf(r.out, " Elements with threats: %d\n", s.CoveredElements)
	fmt.Fprintf(r.out, " Threats accepted:      %d\n", s.AcceptedThreats)
	fmt.Fprintf(r.out, " Coverage:              %.1f%%\n", s.Coverage)
	fmt.Fprintf(r.out, " Findings:              %d error(s), %d warning(s), %d info\n", s.Errors, s.Warnings, s.Infos)
	fmt.Fprintln(r.out, line)

	if len(findings) == 0 {
		return
	}

	sorted := make([]validation.Finding, len(findings))
	copy(sorted, findings)
	validation.SortFindings(sorted)

	for _, f := range sorted {
		subject := f.Message
		if f.ElementID != "" {
			subject = fmt.Sprintf("%s: %s", f.ElementID, f.Message)
		}
		fmt.Fprintf(r.out, " [%s] %s: %s\n", f.Severity, f.Category, subject)
	}
	fmt.Fprintln(r.out, line)
}
