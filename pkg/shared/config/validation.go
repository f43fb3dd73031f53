package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/threatsmith/threatsmith/pkg/shared/files"
)

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateThreatsmithConfig(cfg); err != nil {
		return fmt.Errorf("YAML global config: threatsmith directive is invalid: %w", err)
	}
	if err := ValidateHTTPConfig(&cfg.HTTPClient); err != nil {
		return fmt.Errorf("YAML global config: http_client directive is invalid: %w", err)
	}
	if err := ValidateLLMConfig(&cfg.LLM); err != nil {
		return fmt.Errorf("YAML global config: llm directive is invalid: %w", err)
	}
	if err := ValidateValidationConfig(&cfg.Validation); err != nil {
		return fmt.Errorf("YAML global config: validation directive is invalid: %w", err)
	}
	return nil
}

// ValidateThreatsmithConfig resolves the folder layout, applying environment
// overrides and creating the home-rooted folders.
func ValidateThreatsmithConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("threatsmith configuration is nil")
	}
	if err := updateHome(cfg); err != nil {
		return fmt.Errorf("failed to update home folder: %w", err)
	}
	if err := updateFolder(&cfg.Threatsmith.ResultsFolder, "THREATSMITH_RESULTS_FOLDER", "results", cfg); err != nil {
		return fmt.Errorf("failed to update results folder: %w", err)
	}
	if err := updateFolder(&cfg.Threatsmith.LogsFolder, "THREATSMITH_LOGS_FOLDER", "logs", cfg); err != nil {
		return fmt.Errorf("failed to update logs folder: %w", err)
	}
	if err := updateInputFolder(cfg); err != nil {
		return fmt.Errorf("failed to update input folder: %w", err)
	}
	return nil
}

// ValidateHTTPConfig checks if the HTTP configurations have valid values.
func ValidateHTTPConfig(httpConfig *HTTPClient) error {
	if httpConfig == nil {
		return fmt.Errorf("HTTP configuration is nil")
	}
	if httpConfig.RetryCount < 0 || httpConfig.RetryCount > 20 {
		return fmt.Errorf("retry_count must be between 0 and 20: %d", httpConfig.RetryCount)
	}

	durations := map[string]time.Duration{
		"RetryMaxWaitTime": httpConfig.RetryMaxWaitTime,
		"RetryWaitTime":    httpConfig.RetryWaitTime,
		"Timeout":          httpConfig.Timeout,
	}
	for name, duration := range durations {
		if err := validateDuration(duration, name, 100*time.Second); err != nil {
			return err
		}
	}

	if err := validateProxy(&httpConfig.Proxy); err != nil {
		return err
	}

	return nil
}

// ValidateLLMConfig applies environment overrides and checks the LLM settings.
// Model and API key stay optional here: offline replay runs never need them,
// so their presence is enforced by the command that performs a live call.
func ValidateLLMConfig(llmConfig *LLM) error {
	if llmConfig == nil {
		return fmt.Errorf("LLM configuration is nil")
	}

	if llmConfig.Model == "" {
		llmConfig.Model = os.Getenv("LLM_MODEL_NAME")
	}
	if llmConfig.BaseURL == "" {
		llmConfig.BaseURL = os.Getenv("LLM_BASE_URL")
	}
	if llmConfig.BaseURL == "" {
		llmConfig.BaseURL = DefaultLLMBaseURL
	}
	if llmConfig.APIKey == "" {
		llmConfig.APIKey = os.Getenv("LLM_API_KEY")
	}
	if llmConfig.APIKey == "" {
		llmConfig.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if _, err := url.Parse(llmConfig.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}

	llmConfig.Timeout = SetThen(llmConfig.Timeout, DefaultLLMTimeout)
	if err := validateDuration(llmConfig.Timeout, "Timeout", MaxLLMTimeout); err != nil {
		return err
	}

	if llmConfig.Temperature == nil {
		t := DefaultLLMTemperature
		llmConfig.Temperature = &t
	}
	if *llmConfig.Temperature < 0 || *llmConfig.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2: %v", *llmConfig.Temperature)
	}

	if llmConfig.RetryCount < 0 || llmConfig.RetryCount > 20 {
		return fmt.Errorf("retry_count must be between 0 and 20: %d", llmConfig.RetryCount)
	}
	if llmConfig.MaxTokens < 0 {
		return fmt.Errorf("max_tokens cannot be negative: %d", llmConfig.MaxTokens)
	}

	if llmConfig.PromptTemplate != "" {
		expanded, err := files.ExpandPath(llmConfig.PromptTemplate)
		if err != nil {
			return fmt.Errorf("failed to expand prompt_template path %q: %w", llmConfig.PromptTemplate, err)
		}
		llmConfig.PromptTemplate = expanded
	}

	return nil
}

// ValidateValidationConfig fills defaults for the framework and overlap tunables.
func ValidateValidationConfig(validationConfig *Validation) error {
	if validationConfig == nil {
		return fmt.Errorf("validation configuration is nil")
	}
	validationConfig.Framework = SetThen(validationConfig.Framework, DefaultFramework)

	if validationConfig.MinOverlapLength < 0 {
		return fmt.Errorf("min_overlap_length cannot be negative: %d", validationConfig.MinOverlapLength)
	}
	if validationConfig.MaxEditDistance < 0 {
		return fmt.Errorf("max_edit_distance cannot be negative: %d", validationConfig.MaxEditDistance)
	}
	validationConfig.MinOverlapLength = SetThen(validationConfig.MinOverlapLength, DefaultMinOverlapLength)
	validationConfig.MaxEditDistance = SetThen(validationConfig.MaxEditDistance, DefaultMaxEditDistance)

	return nil
}

// validateDuration checks that a time.Duration is valid and within a specified maximum duration.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %q: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%q duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}

// validateProxy checks if the given Proxy settings are valid.
func validateProxy(proxy *Proxy) error {
	if proxy == nil {
		return fmt.Errorf("proxy configuration is nil")
	}

	// If host or port is not set, skip further validation
	if proxy.Host == "" || proxy.Port == 0 {
		return nil
	}

	if err := validateHost(&proxy.Host); err != nil {
		return err
	}

	if err := validatePort(proxy.Port); err != nil {
		return err
	}

	return nil
}

// validateHost checks if the host part of the proxy configuration is valid.
// It ensures the host includes a scheme; adds "http" if missing.
func validateHost(host *string) error {
	if host == nil {
		return fmt.Errorf("host string pointer is nil")
	}

	if !strings.Contains(*host, "://") {
		*host = "http://" + *host
	}
	*host = strings.TrimRight(*host, "/")

	_, err := url.Parse(*host)
	if err != nil {
		return fmt.Errorf("invalid host URL: %w", err)
	}

	return nil
}

// validatePort checks if the port part of the proxy configuration is valid.
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}

// updateHome updates the HomeFolder in the configuration from environment variables or sets a default value.
func updateHome(cfg *Config) error {
	if homeFolder := os.Getenv("THREATSMITH_HOME"); homeFolder != "" {
		cfg.Threatsmith.HomeFolder = homeFolder
	} else if cfg.Threatsmith.HomeFolder == "" {
		homeFolder, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("unable to get user home folder: %w", err)
		}
		cfg.Threatsmith.HomeFolder = filepath.Join(homeFolder, ".threatsmith")
	}

	expandedHomePath, err := files.ExpandPath(cfg.Threatsmith.HomeFolder)
	if err != nil {
		return fmt.Errorf("failed to expand new home path %q: %w", cfg.Threatsmith.HomeFolder, err)
	}
	cfg.Threatsmith.HomeFolder = expandedHomePath

	if err := files.CreateFolderIfNotExists(expandedHomePath); err != nil {
		return fmt.Errorf("failed to create home folder %q: %w", cfg.Threatsmith.HomeFolder, err)
	}
	return nil
}

// updateFolder updates a folder path in the configuration.
func updateFolder(folder *string, envVar, defaultSubFolder string, cfg *Config) error {
	if envVarValue := os.Getenv(envVar); envVarValue != "" {
		*folder = envVarValue
	} else if *folder == "" {
		*folder = filepath.Join(GetHomeFolder(cfg), defaultSubFolder)
	}

	expandedHomePath, err := files.ExpandPath(*folder)
	if err != nil {
		return fmt.Errorf("failed to expand new home path %q: %w", *folder, err)
	}
	*folder = expandedHomePath

	if err := files.CreateFolderIfNotExists(expandedHomePath); err != nil {
		return fmt.Errorf("failed to create folder %q: %w", expandedHomePath, err)
	}
	return nil
}

// updateInputFolder resolves the input folder. It defaults to ./input and is
// never created: the input is expected to exist already.
func updateInputFolder(cfg *Config) error {
	if envVarValue := os.Getenv("THREATSMITH_INPUT_FOLDER"); envVarValue != "" {
		cfg.Threatsmith.InputFolder = envVarValue
	} else if cfg.Threatsmith.InputFolder == "" {
		cfg.Threatsmith.InputFolder = "input"
	}

	expandedPath, err := files.ExpandPath(cfg.Threatsmith.InputFolder)
	if err != nil {
		return fmt.Errorf("failed to expand input path %q: %w", cfg.Threatsmith.InputFolder, err)
	}
	cfg.Threatsmith.InputFolder = expandedPath
	return nil
}
