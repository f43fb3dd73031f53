package llm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPromptDefault(t *testing.T) {
	b, err := NewBuilder("")
	require.NoError(t, err)

	prompt, err := b.BuildPrompt(nil, []byte(`{"detail": {"diagrams": []}}`), "STRIDE", []string{"Spoofing", "Tampering"})
	require.NoError(t, err)

	assert.Contains(t, prompt, "STRIDE")
	assert.Contains(t, prompt, `{"detail": {"diagrams": []}}`)
	assert.Contains(t, prompt, "Spoofing, Tampering")
	assert.Contains(t, prompt, `"mitigation"`)
	assert.NotContains(t, prompt, "The document schema")
}

func TestBuildPromptWithSchema(t *testing.T) {
	b, err := NewBuilder("")
	require.NoError(t, err)

	prompt, err := b.BuildPrompt([]byte(`{"$id": "owasp.threat-dragon"}`), []byte(`{}`), "LINDDUN", nil)
	require.NoError(t, err)

	assert.Contains(t, prompt, "The document schema")
	assert.Contains(t, prompt, `{"$id": "owasp.threat-dragon"}`)
}

func TestBuildPromptCustomTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("framework={{.Framework}} model={{.ModelJSON}}"), 0644))

	b, err := NewBuilder(path)
	require.NoError(t, err)

	prompt, err := b.BuildPrompt(nil, []byte("{}"), "CIA", nil)
	require.NoError(t, err)
	assert.Equal(t, "framework=CIA model={}", prompt)
}

func TestNewBuilderBadTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("{{.Unclosed"), 0644))

	_, err := NewBuilder(path)
	require.Error(t, err)
}

func TestNewBuilderMissingFile(t *testing.T) {
	_, err := NewBuilder(filepath.Join(t.TempDir(), "missing.tmpl"))
	require.Error(t, err)
}
