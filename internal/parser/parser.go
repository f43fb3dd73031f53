package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/threatsmith/threatsmith/internal/threatdragon"
)

const (
	stageStrict = "strict"
	stageSpan   = "span"
	stageRepair = "repair"
)

const excerptLimit = 120

// Record is one element's worth of threats from the model response, kept in
// the order the response listed them.
type Record struct {
	ElementID string
	Threats   []threatdragon.Threat
}

// Dropped describes a response entry the parser had to discard.
type Dropped struct {
	ElementID string
	Reason    string
}

// Result is the normalized model response.
type Result struct {
	Records []Record
	Dropped []Dropped
}

// Parse turns raw model output into an ordered list of per-element threat
// records. Strategies run in order: a strict parse of the fence-stripped
// text, a strict parse of the outermost JSON span found inside surrounding
// prose, and a tolerant repair pass for near-JSON output. Threats with an
// empty status, severity or modelType get Threat Dragon defaults, with
// defaultModelType filling the modelType.
func Parse(text, defaultModelType string) (*Result, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, NewResponseParseError(stageStrict, "", errors.New("empty response"))
	}
	cleaned := stripFences(trimmed)

	stage := stageStrict
	res, strictErr := decode(cleaned, defaultModelType)
	if strictErr == nil {
		return res, nil
	}

	if span, ok := extractJSONSpan(cleaned); ok {
		stage = stageSpan
		if res, err := decode(span, defaultModelType); err == nil {
			return res, nil
		}
	}

	if repaired, ok := repair(cleaned); ok {
		stage = stageRepair
		if res, err := decode(repaired, defaultModelType); err == nil {
			return res, nil
		}
	}

	return nil, NewResponseParseError(stage, excerpt(cleaned), strictErr)
}

// decode reads one strict-JSON candidate. Both response shapes are accepted:
// an object keyed by element id with threat arrays as values, and an array of
// {id, threats} records.
func decode(jsonText, defaultModelType string) (*Result, error) {
	if !json.Valid([]byte(jsonText)) {
		return nil, errors.New("invalid JSON")
	}

	root := gjson.Parse(jsonText)
	res := &Result{}
	switch {
	case root.IsObject():
		root.ForEach(func(key, value gjson.Result) bool {
			res.add(key.String(), value, defaultModelType)
			return true
		})
	case root.IsArray():
		for _, entry := range root.Array() {
			if !entry.IsObject() {
				res.drop("", "response entry is not an object")
				continue
			}
			id := strings.TrimSpace(entry.Get("id").String())
			if id == "" {
				res.drop("", "response entry has no element id")
				continue
			}
			res.add(id, entry.Get("threats"), defaultModelType)
		}
	default:
		return nil, errors.New("response is neither a threat map nor a record list")
	}
	return res, nil
}

func (r *Result) add(elementID string, threats gjson.Result, defaultModelType string) {
	if !threats.Exists() || threats.Type == gjson.Null {
		r.Records = append(r.Records, Record{ElementID: elementID})
		return
	}
	if !threats.IsArray() {
		r.drop(elementID, "threats value is not an array")
		return
	}

	var decoded []threatdragon.Threat
	if err := json.Unmarshal([]byte(threats.Raw), &decoded); err != nil {
		r.drop(elementID, fmt.Sprintf("undecodable threats: %v", err))
		return
	}
	for i := range decoded {
		applyDefaults(&decoded[i], defaultModelType)
	}
	r.Records = append(r.Records, Record{ElementID: elementID, Threats: decoded})
}

func (r *Result) drop(elementID, reason string) {
	r.Dropped = append(r.Dropped, Dropped{ElementID: elementID, Reason: reason})
}

func applyDefaults(t *threatdragon.Threat, defaultModelType string) {
	if strings.TrimSpace(t.Status) == "" {
		t.Status = threatdragon.StatusOpen
	}
	if strings.TrimSpace(t.Severity) == "" {
		t.Severity = threatdragon.SeverityMedium
	}
	if strings.TrimSpace(t.ModelType) == "" {
		t.ModelType = defaultModelType
	}
}

// stripFences removes a markdown code fence wrapping the whole payload.
func stripFences(s string) string {
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= excerptLimit {
		return s
	}
	return s[:excerptLimit] + "..."
}
