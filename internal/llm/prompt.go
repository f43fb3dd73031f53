package llm

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"
)

// defaultPromptTemplate encodes the response contract the parser accepts: a
// single JSON object keyed by element id with threat arrays as values.
const defaultPromptTemplate = `You are a security architect performing a threat modeling review using the {{.Framework}} framework.

The threat model below follows the OWASP Threat Dragon format. Analyse every element of every diagram and identify threats for each one.
{{- if .SchemaJSON}}

The document schema, for reference:
{{.SchemaJSON}}
{{- end}}

Threat model:
{{.ModelJSON}}

Respond with a single JSON object and nothing else. Each key is the "id" of a diagram element, each value an array of threat objects with exactly these fields:
- "title": short threat title
- "type": one of the {{.Framework}} categories{{if .Categories}} ({{.Categories}}){{end}}
- "status": "Open"
- "severity": "High", "Medium" or "Low"
- "description": what could go wrong
- "mitigation": how to reduce the risk
- "modelType": "{{.Framework}}"

Only use element ids present in the model. Skip trust boundaries.`

type promptData struct {
	Framework  string
	Categories string
	SchemaJSON string
	ModelJSON  string
}

// Builder renders the system prompt.
type Builder struct {
	tmpl *template.Template
}

// NewBuilder loads the prompt template from templatePath, or the built-in
// default when the path is empty.
func NewBuilder(templatePath string) (*Builder, error) {
	text := defaultPromptTemplate
	if templatePath != "" {
		raw, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt template %q: %w", templatePath, err)
		}
		text = string(raw)
	}

	tmpl, err := template.New("prompt").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}
	return &Builder{tmpl: tmpl}, nil
}

// BuildPrompt renders the system prompt from the optional schema JSON, the
// out-of-scope-filtered model JSON, and the active framework with its
// category names.
func (b *Builder) BuildPrompt(schemaJSON, modelJSON []byte, framework string, categories []string) (string, error) {
	var buf bytes.Buffer
	err := b.tmpl.Execute(&buf, promptData{
		Framework:  framework,
		Categories: strings.Join(categories, ", "),
		SchemaJSON: string(schemaJSON),
		ModelJSON:  string(modelJSON),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return buf.String(), nil
}
