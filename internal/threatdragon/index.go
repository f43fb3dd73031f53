package threatdragon

import (
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
)

// Entry describes one indexed diagram cell. Diagram and Cell hold the array
// positions inside detail.diagrams[].cells[], which the merge engine uses to
// address the cell without rescanning the document.
type Entry struct {
	ID                string
	Shape             string
	Type              string
	Name              string
	Description       string
	OutOfScope        bool
	TrustBoundary     bool
	ThreatCount       int
	HasThreatsKey     bool
	HasOpenThreatsKey bool
	Diagram           int
	Cell              int
}

// Index is the element inventory of a document. InScopeIDs preserves document
// order; trust-boundary cells are indexed in Entries but excluded from both
// InScopeIDs and the known-id set.
type Index struct {
	Entries    map[string]Entry
	InScopeIDs []string

	inScope map[string]struct{}
	known   map[string]struct{}
}

// buildIndex walks detail.diagrams[].cells[] and fails with a
// MalformedDocumentError when the expected structure is missing.
func buildIndex(raw []byte) (*Index, error) {
	detail := gjson.GetBytes(raw, "detail")
	if !detail.Exists() || !detail.IsObject() {
		return nil, NewMalformedDocumentError("", "missing detail object", "")
	}
	diagrams := detail.Get("diagrams")
	if !diagrams.Exists() || !diagrams.IsArray() {
		return nil, NewMalformedDocumentError("", "missing detail.diagrams array", "")
	}

	idx := &Index{
		Entries: make(map[string]Entry),
		inScope: make(map[string]struct{}),
		known:   make(map[string]struct{}),
	}

	for di, diagram := range diagrams.Array() {
		cells := diagram.Get("cells")
		if !cells.Exists() {
			continue
		}
		if !cells.IsArray() {
			return nil, NewMalformedDocumentError("",
				fmt.Sprintf("diagram %d: cells is not an array", di), excerptResult(cells))
		}

		for ci, cell := range cells.Array() {
			if !cell.IsObject() {
				return nil, NewMalformedDocumentError("",
					fmt.Sprintf("diagram %d: cell %d is not an object", di, ci), excerptResult(cell))
			}

			id := cell.Get("id").String()
			if id == "" {
				continue
			}

			shape := cell.Get("shape").String()
			entry := Entry{
				ID:                id,
				Shape:             shape,
				Type:              cell.Get("data.type").String(),
				Name:              cell.Get("data.name").String(),
				Description:       cell.Get("data.description").String(),
				OutOfScope:        cell.Get("data.outOfScope").Bool(),
				TrustBoundary:     shape == ShapeTrustBoundaryBox || shape == ShapeTrustBoundaryCurve,
				HasThreatsKey:     cell.Get("data.threats").Exists(),
				HasOpenThreatsKey: cell.Get("data.hasOpenThreats").Exists(),
				Diagram:           di,
				Cell:              ci,
			}
			if entry.HasThreatsKey {
				entry.ThreatCount = int(cell.Get("data.threats.#").Int())
			}

			idx.Entries[id] = entry
			if entry.TrustBoundary {
				continue
			}
			idx.known[id] = struct{}{}
			if !entry.OutOfScope {
				idx.inScope[id] = struct{}{}
				idx.InScopeIDs = append(idx.InScopeIDs, id)
			}
		}
	}

	return idx, nil
}

// InScope reports whether id belongs to an in-scope, non-boundary element.
func (x *Index) InScope(id string) bool {
	_, ok := x.inScope[id]
	return ok
}

// Known reports whether id belongs to any non-boundary element, in scope or not.
func (x *Index) Known(id string) bool {
	_, ok := x.known[id]
	return ok
}

// IsTrustBoundary reports whether id belongs to a trust-boundary cell.
func (x *Index) IsTrustBoundary(id string) bool {
	e, ok := x.Entries[id]
	return ok && e.TrustBoundary
}

// KnownIDs returns the known-id set sorted, out-of-scope elements included.
func (x *Index) KnownIDs() []string {
	ids := make([]string, 0, len(x.known))
	for id := range x.known {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func excerptResult(r gjson.Result) string {
	return excerpt([]byte(r.Raw))
}
