package validation

import (
	"fmt"
	"math"

	"github.com/threatsmith/threatsmith/internal/parser"
	"github.com/threatsmith/threatsmith/internal/threatdragon"
)

// Options are the identity-matching tunables from the validation config.
type Options struct {
	MinOverlapLength int
	MaxEditDistance  int
}

// ClassifyRecords reconciles parsed response records against the document
// index. Records targeting trust boundaries and records whose element id is
// unknown with zero lexical overlap to every known id are excluded from the
// returned set; everything else passes through, with findings describing what
// was off. Entries the parser had to drop surface here as findings too.
func ClassifyRecords(idx *threatdragon.Index, res *parser.Result, opts Options) ([]parser.Record, []Finding) {
	var (
		accepted []parser.Record
		findings []Finding
	)

	for _, d := range res.Dropped {
		findings = append(findings, Finding{
			Severity:  SeverityWarning,
			Category:  CategoryQualityIssue,
			ElementID: d.ElementID,
			Message:   fmt.Sprintf("response entry dropped: %s", d.Reason),
		})
	}

	for _, rec := range res.Records {
		switch {
		case idx.IsTrustBoundary(rec.ElementID):
			findings = append(findings, Finding{
				Severity:  SeverityWarning,
				Category:  CategoryOutOfScopeThreat,
				ElementID: rec.ElementID,
				Message:   "response targets a trust boundary, threats not merged",
			})
		case idx.Known(rec.ElementID):
			if !idx.InScope(rec.ElementID) {
				findings = append(findings, Finding{
					Severity:  SeverityWarning,
					Category:  CategoryOutOfScopeThreat,
					ElementID: rec.ElementID,
					Message:   "element is marked out of scope, threats merged anyway",
				})
			}
			accepted = append(accepted, rec)
		default:
			near := nearestKnown(idx, rec.ElementID, opts)
			if near == "" {
				findings = append(findings, Finding{
					Severity:  SeverityError,
					Category:  CategoryUnknownId,
					ElementID: rec.ElementID,
					Message:   "unknown element id with no counterpart in the model, threats not merged",
				})
				continue
			}
			findings = append(findings, Finding{
				Severity:  SeverityWarning,
				Category:  CategoryUnknownId,
				ElementID: rec.ElementID,
				Message:   fmt.Sprintf("unknown element id, lexically close to %q", near),
			})
			accepted = append(accepted, rec)
		}
	}
	return accepted, findings
}

// nearestKnown returns the first known id (in sorted order) overlapping the
// given one, or "" when none does.
func nearestKnown(idx *threatdragon.Index, id string, opts Options) string {
	for _, known := range idx.KnownIDs() {
		if HasOverlap(id, known, opts.MinOverlapLength, opts.MaxEditDistance) {
			return known
		}
	}
	return ""
}

// EvaluateCoverage reports which in-scope elements ended up with no accepted
// threats. Legitimately threat-free elements are expected, so these findings
// are informational.
func EvaluateCoverage(idx *threatdragon.Index, accepted map[string][]threatdragon.Threat) []Finding {
	var findings []Finding
	for _, id := range idx.InScopeIDs {
		if len(accepted[id]) == 0 {
			findings = append(findings, Finding{
				Severity:  SeverityInfo,
				Category:  CategoryMissingCoverage,
				ElementID: id,
				Message:   "no threats generated for in-scope element",
			})
		}
	}
	return findings
}

// BuildSummary computes the coverage numbers and the severity tallies over
// the final finding set.
func BuildSummary(idx *threatdragon.Index, accepted map[string][]threatdragon.Threat, findings []Finding) Summary {
	s := Summary{InScopeElements: len(idx.InScopeIDs)}
	for _, id := range idx.InScopeIDs {
		if len(accepted[id]) > 0 {
			s.CoveredElements++
		}
	}
	for _, threats := range accepted {
		s.AcceptedThreats += len(threats)
	}
	if s.InScopeElements > 0 {
		s.Coverage = math.Round(float64(s.CoveredElements)/float64(s.InScopeElements)*1000) / 10
	}
	for _, f := range findings {
		switch f.Severity {
		case SeverityError:
			s.Errors++
		case SeverityWarning:
			s.Warnings++
		case SeverityInfo:
			s.Infos++
		}
	}
	return s
}
