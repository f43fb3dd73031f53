package threatdragon

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Shapes used by Threat Dragon for trust-boundary decoration. These cells are
// graph decoration, not attack-surface elements, and stay out of scope and
// coverage accounting.
const (
	ShapeTrustBoundaryBox   = "trust-boundary-box"
	ShapeTrustBoundaryCurve = "trust-boundary-curve"
)

// Document is a Threat Dragon model held as raw bytes plus an element index.
// The raw bytes are the source of truth: all mutation happens through
// targeted path edits so untouched content stays byte-identical.
type Document struct {
	Path  string
	Raw   []byte
	Index *Index
}

// Load reads a Threat Dragon document from disk and indexes it.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read threat model %q: %w", path, err)
	}
	doc, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	doc.Path = path
	return doc, nil
}

// Parse validates the document structure and builds the element index.
func Parse(raw []byte) (*Document, error) {
	if !gjson.ValidBytes(raw) {
		return nil, NewMalformedDocumentError("", "not valid JSON", excerpt(raw))
	}

	index, err := buildIndex(raw)
	if err != nil {
		return nil, err
	}

	return &Document{Raw: raw, Index: index}, nil
}

// ElementIDSet returns the ids of every cell in the document, trust
// boundaries included. Two documents describe the same element inventory
// exactly when their sets are equal.
func (d *Document) ElementIDSet() map[string]struct{} {
	set := make(map[string]struct{}, len(d.Index.Entries))
	for id := range d.Index.Entries {
		set[id] = struct{}{}
	}
	return set
}

// FilterOutOfScope returns a copy of the raw document with every cell whose
// data.outOfScope flag is set removed. Trust boundaries stay in: the filtered
// JSON feeds the prompt, and boundaries give the model topological context.
func (d *Document) FilterOutOfScope() ([]byte, error) {
	out := d.Raw

	diagrams := gjson.GetBytes(out, "detail.diagrams")
	for di := range diagrams.Array() {
		cellsPath := fmt.Sprintf("detail.diagrams.%d.cells", di)
		// Delete back to front so remaining indices stay valid.
		cells := gjson.GetBytes(out, cellsPath).Array()
		for ci := len(cells) - 1; ci >= 0; ci-- {
			if cells[ci].Get("data.outOfScope").Bool() {
				var err error
				out, err = sjson.DeleteBytes(out, fmt.Sprintf("%s.%d", cellsPath, ci))
				if err != nil {
					return nil, fmt.Errorf("failed to filter out-of-scope cell: %w", err)
				}
			}
		}
	}
	return out, nil
}

// excerpt trims raw content to a short diagnostic fragment.
func excerpt(raw []byte) string {
	const max = 120
	s := string(raw)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
