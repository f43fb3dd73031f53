package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLLMConfigDefaults(t *testing.T) {
	llm := LLM{}
	require.NoError(t, ValidateLLMConfig(&llm))

	assert.Equal(t, DefaultLLMBaseURL, llm.BaseURL)
	assert.Equal(t, DefaultLLMTimeout, llm.Timeout)
	require.NotNil(t, llm.Temperature)
	assert.Equal(t, DefaultLLMTemperature, *llm.Temperature)
}

func TestValidateLLMConfigEnvOverrides(t *testing.T) {
	t.Setenv("LLM_MODEL_NAME", "gpt-4o")
	t.Setenv("LLM_BASE_URL", "http://localhost:11434/v1")
	t.Setenv("LLM_API_KEY", "test-key")

	llm := LLM{}
	require.NoError(t, ValidateLLMConfig(&llm))

	assert.Equal(t, "gpt-4o", llm.Model)
	assert.Equal(t, "http://localhost:11434/v1", llm.BaseURL)
	assert.Equal(t, "test-key", llm.APIKey)
}

func TestValidateLLMConfigExplicitValuesWin(t *testing.T) {
	t.Setenv("LLM_MODEL_NAME", "env-model")

	llm := LLM{Model: "file-model", Timeout: 30 * time.Minute}
	require.NoError(t, ValidateLLMConfig(&llm))

	assert.Equal(t, "file-model", llm.Model)
	assert.Equal(t, 30*time.Minute, llm.Timeout)
}

func TestValidateLLMConfigBounds(t *testing.T) {
	tests := []struct {
		name string
		llm  LLM
	}{
		{
			name: "temperature above range",
			llm:  LLM{Temperature: floatPtr(2.5)},
		},
		{
			name: "negative temperature",
			llm:  LLM{Temperature: floatPtr(-0.1)},
		},
		{
			name: "timeout above ceiling",
			llm:  LLM{Timeout: 7 * time.Hour},
		},
		{
			name: "negative max tokens",
			llm:  LLM{MaxTokens: -1},
		},
		{
			name: "retry count above range",
			llm:  LLM{RetryCount: 21},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateLLMConfig(&tt.llm))
		})
	}
}

func TestValidateValidationConfigDefaults(t *testing.T) {
	v := Validation{}
	require.NoError(t, ValidateValidationConfig(&v))

	assert.Equal(t, DefaultFramework, v.Framework)
	assert.Equal(t, DefaultMinOverlapLength, v.MinOverlapLength)
	assert.Equal(t, DefaultMaxEditDistance, v.MaxEditDistance)
}

func TestValidateValidationConfigKeepsExplicitTunables(t *testing.T) {
	v := Validation{Framework: "LINDDUN", MinOverlapLength: 3, MaxEditDistance: 1}
	require.NoError(t, ValidateValidationConfig(&v))

	assert.Equal(t, "LINDDUN", v.Framework)
	assert.Equal(t, 3, v.MinOverlapLength)
	assert.Equal(t, 1, v.MaxEditDistance)
}

func TestValidateValidationConfigRejectsNegatives(t *testing.T) {
	assert.Error(t, ValidateValidationConfig(&Validation{MinOverlapLength: -1}))
	assert.Error(t, ValidateValidationConfig(&Validation{MaxEditDistance: -2}))
}

func TestValidateThreatsmithConfigFolders(t *testing.T) {
	home := t.TempDir()
	t.Setenv("THREATSMITH_HOME", home)
	t.Setenv("THREATSMITH_RESULTS_FOLDER", "")
	t.Setenv("THREATSMITH_LOGS_FOLDER", "")
	t.Setenv("THREATSMITH_INPUT_FOLDER", "")

	cfg := &Config{}
	require.NoError(t, ValidateThreatsmithConfig(cfg))

	assert.Equal(t, home, cfg.Threatsmith.HomeFolder)
	assert.DirExists(t, cfg.Threatsmith.ResultsFolder)
	assert.DirExists(t, cfg.Threatsmith.LogsFolder)
	assert.Equal(t, "input", cfg.Threatsmith.InputFolder)
}

func TestLoadConfigMissingFileIsEmptyConfig(t *testing.T) {
	cfg, err := LoadConfig("definitely-not-a-real-config.yml")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "", cfg.Threatsmith.HomeFolder)
}

func floatPtr(f float64) *float64 { return &f }
