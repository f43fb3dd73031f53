package merge

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Highlight is the stroke color marking cells that received threats.
const Highlight = "red"

// applyHighlight sets the red stroke on a cell the way the Threat Dragon
// editor draws each shape: flows and boundary curves carry attrs.line,
// processes and stores attrs.body, actors attrs.topLine and attrs.bottomLine.
// A cell without attrs gets a minimal {"stroke": "red"}. Writes are skipped
// when the target already holds the highlight, so rerunning a merge leaves
// the bytes alone.
func applyHighlight(raw []byte, base string) ([]byte, bool, error) {
	attrs := gjson.GetBytes(raw, base+".attrs")
	switch {
	case !attrs.IsObject():
		out, err := sjson.SetRawBytes(raw, base+".attrs", []byte(`{"stroke":"red"}`))
		return out, err == nil, err
	case attrs.Get("line").Exists():
		return setStroke(raw, base+".attrs.line.stroke", attrs.Get("line.stroke"))
	case attrs.Get("body").Exists():
		return setStroke(raw, base+".attrs.body.stroke", attrs.Get("body.stroke"))
	case attrs.Get("topLine").Exists():
		out, applied, err := setStroke(raw, base+".attrs.topLine.stroke", attrs.Get("topLine.stroke"))
		if err != nil || !attrs.Get("bottomLine").Exists() {
			return out, applied, err
		}
		out, bottomApplied, err := setStroke(out, base+".attrs.bottomLine.stroke", attrs.Get("bottomLine.stroke"))
		return out, applied || bottomApplied, err
	default:
		return setStroke(raw, base+".attrs.stroke", attrs.Get("stroke"))
	}
}

func setStroke(raw []byte, path string, current gjson.Result) ([]byte, bool, error) {
	if current.String() == Highlight {
		return raw, false, nil
	}
	out, err := sjson.SetBytes(raw, path, Highlight)
	return out, err == nil, err
}
