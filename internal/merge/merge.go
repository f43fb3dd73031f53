package merge

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/threatsmith/threatsmith/internal/threatdragon"
)

// Engine writes validated threats into a Threat Dragon document. All edits
// are targeted path writes on the raw bytes, so everything outside the
// receiving cells stays byte-identical.
type Engine struct {
	logger hclog.Logger
}

// New creates a merge engine.
func New(logger hclog.Logger) *Engine {
	return &Engine{logger: logger}
}

// Result reports what a merge did.
type Result struct {
	Raw               []byte
	MergedThreats     int
	SkippedDuplicates int
	HighlightedCells  int
}

type target struct {
	entry   threatdragon.Entry
	threats []threatdragon.Threat
}

// Apply appends the accepted threats to their elements and returns the
// updated document bytes. Existing threats are never replaced: new ones go
// after them, duplicates by threat id are skipped, and threats without an id
// get a generated UUID. data.hasOpenThreats is recomputed only on cells that
// already carry the key, and receiving cells get the red stroke highlight.
// Before release the output element-id set is verified against the input.
func (e *Engine) Apply(doc *threatdragon.Document, accepted map[string][]threatdragon.Threat) (*Result, error) {
	out := doc.Raw
	res := &Result{}

	var targets []target
	for id, threats := range accepted {
		if len(threats) == 0 {
			continue
		}
		entry, ok := doc.Index.Entries[id]
		if !ok {
			// Near-miss ids survive validation as advisories but have no
			// cell to land on.
			e.logger.Debug("no cell for element id, threats not merged", "id", id, "threats", len(threats))
			continue
		}
		if entry.TrustBoundary {
			continue
		}
		targets = append(targets, target{entry: entry, threats: threats})
	}
	sort.Slice(targets, func(i, j int) bool {
		a, b := targets[i].entry, targets[j].entry
		if a.Diagram != b.Diagram {
			return a.Diagram < b.Diagram
		}
		return a.Cell < b.Cell
	})

	for _, tgt := range targets {
		base := fmt.Sprintf("detail.diagrams.%d.cells.%d", tgt.entry.Diagram, tgt.entry.Cell)

		existing := gjson.GetBytes(out, base+".data.threats")
		seen := make(map[string]struct{})
		hasOpen := false
		for _, et := range existing.Array() {
			if id := et.Get("id").String(); id != "" {
				seen[id] = struct{}{}
			}
			if et.Get("status").String() == threatdragon.StatusOpen {
				hasOpen = true
			}
		}
		if !existing.Exists() {
			var err error
			out, err = sjson.SetRawBytes(out, base+".data.threats", []byte("[]"))
			if err != nil {
				return nil, fmt.Errorf("failed to create threats array on %q: %w", tgt.entry.ID, err)
			}
		}

		appended := 0
		for _, t := range tgt.threats {
			if t.ID == "" {
				t.ID = uuid.New().String()
			}
			if _, dup := seen[t.ID]; dup {
				res.SkippedDuplicates++
				e.logger.Debug("skipping duplicate threat", "element", tgt.entry.ID, "threat", t.ID)
				continue
			}
			seen[t.ID] = struct{}{}

			payload, err := json.Marshal(t)
			if err != nil {
				return nil, fmt.Errorf("failed to encode threat %q: %w", t.Title, err)
			}
			out, err = sjson.SetRawBytes(out, base+".data.threats.-1", payload)
			if err != nil {
				return nil, fmt.Errorf("failed to append threat to %q: %w", tgt.entry.ID, err)
			}
			if t.Status == threatdragon.StatusOpen {
				hasOpen = true
			}
			appended++
			res.MergedThreats++
		}
		if appended == 0 {
			continue
		}

		if tgt.entry.HasOpenThreatsKey {
			var err error
			out, err = sjson.SetBytes(out, base+".data.hasOpenThreats", hasOpen)
			if err != nil {
				return nil, fmt.Errorf("failed to update hasOpenThreats on %q: %w", tgt.entry.ID, err)
			}
		}

		var applied bool
		var err error
		out, applied, err = applyHighlight(out, base)
		if err != nil {
			return nil, fmt.Errorf("failed to highlight %q: %w", tgt.entry.ID, err)
		}
		if applied {
			res.HighlightedCells++
		}
		e.logger.Debug("merged threats", "element", tgt.entry.ID, "appended", appended)
	}

	after, err := threatdragon.Parse(out)
	if err != nil {
		return nil, fmt.Errorf("merged document failed validation: %w", err)
	}
	if !sameIDSet(doc.ElementIDSet(), after.ElementIDSet()) {
		return nil, errors.New("merged document element ids differ from the input, merge aborted")
	}

	res.Raw = out
	return res, nil
}

func sameIDSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}
