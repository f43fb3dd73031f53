package merge

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/threatsmith/threatsmith/internal/threatdragon"
)

const mergeFixture = `{
  "version": "2.3.0",
  "summary": {"title": "Billing"},
  "detail": {
    "diagrams": [
      {
        "title": "Main",
        "diagramType": "STRIDE",
        "cells": [
          {
            "id": "api-gw",
            "shape": "process",
            "attrs": {"body": {"stroke": "#333333", "strokeWidth": 1.5}},
            "data": {
              "type": "tm.Process",
              "name": "API Gateway",
              "threats": [
                {"id": "existing-1", "title": "Existing threat", "status": "Mitigated", "severity": "Low", "type": "Tampering", "description": "d", "mitigation": "m", "modelType": "STRIDE"}
              ],
              "hasOpenThreats": false
            }
          },
          {
            "id": "billing-db",
            "shape": "store",
            "attrs": {"topLine": {"stroke": "#333333"}, "bottomLine": {"stroke": "#333333"}},
            "data": {"type": "tm.Store", "name": "Billing DB"}
          },
          {
            "id": "payment-flow",
            "shape": "flow",
            "attrs": {"line": {"stroke": "#888888"}},
            "data": {"type": "tm.Flow", "name": "Payment flow"}
          },
          {
            "id": "operator",
            "shape": "actor"
          },
          {
            "id": "audit-svc",
            "shape": "process",
            "attrs": {"stroke": "#000000"},
            "data": {"type": "tm.Process", "name": "Audit service"}
          },
          {
            "id": "dmz",
            "shape": "trust-boundary-box",
            "data": {"type": "tm.BoundaryBox", "name": "DMZ"}
          }
        ]
      }
    ]
  }
}`

func parseFixture(t *testing.T) *threatdragon.Document {
	t.Helper()
	doc, err := threatdragon.Parse([]byte(mergeFixture))
	require.NoError(t, err)
	return doc
}

func newEngine() *Engine {
	return New(hclog.NewNullLogger())
}

func newThreat(id, title, status string) threatdragon.Threat {
	return threatdragon.Threat{
		ID:          id,
		Title:       title,
		Status:      status,
		Severity:    "Medium",
		Type:        "Spoofing",
		Description: "d",
		Mitigation:  "m",
		ModelType:   "STRIDE",
	}
}

func TestApplyAppendsAfterExistingThreats(t *testing.T) {
	doc := parseFixture(t)

	res, err := newEngine().Apply(doc, map[string][]threatdragon.Threat{
		"api-gw": {newThreat("t-new", "Appended threat", "Open")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.MergedThreats)

	threats := gjson.GetBytes(res.Raw, "detail.diagrams.0.cells.0.data.threats").Array()
	require.Len(t, threats, 2)
	assert.Equal(t, "existing-1", threats[0].Get("id").String())
	assert.Equal(t, "t-new", threats[1].Get("id").String())

	// The key was present, so it is recomputed over the merged list.
	assert.True(t, gjson.GetBytes(res.Raw, "detail.diagrams.0.cells.0.data.hasOpenThreats").Bool())
}

func TestApplyCreatesDataWhenAbsent(t *testing.T) {
	doc := parseFixture(t)

	res, err := newEngine().Apply(doc, map[string][]threatdragon.Threat{
		"operator": {newThreat("t-op", "Operator threat", "Open")},
	})
	require.NoError(t, err)

	cell := gjson.GetBytes(res.Raw, "detail.diagrams.0.cells.3")
	require.True(t, cell.Get("data.threats").IsArray())
	assert.Equal(t, "t-op", cell.Get("data.threats.0.id").String())

	// hasOpenThreats is only maintained on cells that already carry the key.
	assert.False(t, cell.Get("data.hasOpenThreats").Exists())

	// No attrs at all gets the minimal highlight object.
	assert.Equal(t, "red", cell.Get("attrs.stroke").String())
}

func TestApplyGeneratesThreatIDs(t *testing.T) {
	doc := parseFixture(t)

	res, err := newEngine().Apply(doc, map[string][]threatdragon.Threat{
		"billing-db": {newThreat("", "No id from the model", "Open")},
	})
	require.NoError(t, err)

	id := gjson.GetBytes(res.Raw, "detail.diagrams.0.cells.1.data.threats.0.id").String()
	_, err = uuid.Parse(id)
	assert.NoError(t, err, "generated id %q is not a UUID", id)
}

func TestApplySkipsDuplicateThreatIDs(t *testing.T) {
	doc := parseFixture(t)

	res, err := newEngine().Apply(doc, map[string][]threatdragon.Threat{
		"api-gw": {newThreat("existing-1", "Same id as an existing threat", "Open")},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, res.MergedThreats)
	assert.Equal(t, 1, res.SkippedDuplicates)
	assert.True(t, bytes.Equal(doc.Raw, res.Raw), "document changed despite merging nothing")
}

func TestApplyStrokePlacementByShape(t *testing.T) {
	doc := parseFixture(t)

	res, err := newEngine().Apply(doc, map[string][]threatdragon.Threat{
		"api-gw":       {newThreat("t1", "Body stroke", "Open")},
		"billing-db":   {newThreat("t2", "Top and bottom lines", "Open")},
		"payment-flow": {newThreat("t3", "Line stroke", "Open")},
		"audit-svc":    {newThreat("t4", "Bare attrs stroke", "Open")},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.HighlightedCells)

	assert.Equal(t, "red", gjson.GetBytes(res.Raw, "detail.diagrams.0.cells.0.attrs.body.stroke").String())
	assert.Equal(t, "red", gjson.GetBytes(res.Raw, "detail.diagrams.0.cells.1.attrs.topLine.stroke").String())
	assert.Equal(t, "red", gjson.GetBytes(res.Raw, "detail.diagrams.0.cells.1.attrs.bottomLine.stroke").String())
	assert.Equal(t, "red", gjson.GetBytes(res.Raw, "detail.diagrams.0.cells.2.attrs.line.stroke").String())
	assert.Equal(t, "red", gjson.GetBytes(res.Raw, "detail.diagrams.0.cells.4.attrs.stroke").String())

	// Styling only touches the stroke, not its siblings.
	assert.Equal(t, 1.5, gjson.GetBytes(res.Raw, "detail.diagrams.0.cells.0.attrs.body.strokeWidth").Float())
}

func TestApplyHasOpenThreatsGoesFalse(t *testing.T) {
	raw := `{
	  "detail": {"diagrams": [{"cells": [
	    {"id": "svc", "shape": "process", "data": {"type": "tm.Process", "threats": [], "hasOpenThreats": true}}
	  ]}]}
	}`
	doc, err := threatdragon.Parse([]byte(raw))
	require.NoError(t, err)

	res, err := newEngine().Apply(doc, map[string][]threatdragon.Threat{
		"svc": {newThreat("t-m", "Already handled", "Mitigated")},
	})
	require.NoError(t, err)

	assert.False(t, gjson.GetBytes(res.Raw, "detail.diagrams.0.cells.0.data.hasOpenThreats").Bool())
}

func TestApplyPreservesUntouchedCells(t *testing.T) {
	doc := parseFixture(t)

	res, err := newEngine().Apply(doc, map[string][]threatdragon.Threat{
		"api-gw": {newThreat("t-new", "Only this cell changes", "Open")},
	})
	require.NoError(t, err)

	for _, path := range []string{
		"summary",
		"detail.diagrams.0.cells.1",
		"detail.diagrams.0.cells.2",
		"detail.diagrams.0.cells.3",
		"detail.diagrams.0.cells.4",
		"detail.diagrams.0.cells.5",
	} {
		before := gjson.GetBytes(doc.Raw, path).Raw
		after := gjson.GetBytes(res.Raw, path).Raw
		assert.Equal(t, before, after, "subtree %s changed", path)
	}
}

func TestApplySecondRunIsIdempotent(t *testing.T) {
	doc := parseFixture(t)
	accepted := map[string][]threatdragon.Threat{
		"api-gw":     {newThreat("t-1", "First", "Open")},
		"billing-db": {newThreat("t-2", "Second", "Open")},
	}

	first, err := newEngine().Apply(doc, accepted)
	require.NoError(t, err)

	merged, err := threatdragon.Parse(first.Raw)
	require.NoError(t, err)

	second, err := newEngine().Apply(merged, accepted)
	require.NoError(t, err)

	assert.Equal(t, 0, second.MergedThreats)
	assert.Equal(t, 2, second.SkippedDuplicates)
	assert.True(t, bytes.Equal(first.Raw, second.Raw), "second run changed the document")
}

func TestApplyIgnoresUnknownAndBoundaryIDs(t *testing.T) {
	doc := parseFixture(t)

	res, err := newEngine().Apply(doc, map[string][]threatdragon.Threat{
		"api-gateway-2": {newThreat("t-x", "No such cell", "Open")},
		"dmz":           {newThreat("t-y", "Boundary", "Open")},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, res.MergedThreats)
	assert.True(t, bytes.Equal(doc.Raw, res.Raw))
}

func TestApplyKeepsElementIDSet(t *testing.T) {
	doc := parseFixture(t)

	res, err := newEngine().Apply(doc, map[string][]threatdragon.Threat{
		"api-gw":       {newThreat("t-1", "One", "Open")},
		"operator":     {newThreat("t-2", "Two", "Open")},
		"payment-flow": {newThreat("t-3", "Three", "Open")},
	})
	require.NoError(t, err)

	merged, err := threatdragon.Parse(res.Raw)
	require.NoError(t, err)
	assert.Equal(t, doc.ElementIDSet(), merged.ElementIDSet())
}
