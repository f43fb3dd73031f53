package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// Config holds the full application configuration loaded from YAML,
// with environment-variable overrides applied during validation.
type Config struct {
	Threatsmith Threatsmith `yaml:"threatsmith"`
	Logger      Logger      `yaml:"logger"`
	HTTPClient  HTTPClient  `yaml:"http_client"`
	LLM         LLM         `yaml:"llm"`
	Validation  Validation  `yaml:"validation"`
	Report      Report      `yaml:"report"`
}

// Threatsmith holds the folder layout for the application.
type Threatsmith struct {
	HomeFolder    string `yaml:"home_folder"`
	InputFolder   string `yaml:"input_folder"`
	ResultsFolder string `yaml:"results_folder"`
	LogsFolder    string `yaml:"logs_folder"`
}

type Logger struct {
	Level string `yaml:"level"`
}

// HTTPClient holds the settings applied to the shared resty client.
type HTTPClient struct {
	Debug            *bool           `yaml:"debug"`
	RetryCount       int             `yaml:"retry_count"`
	RetryWaitTime    time.Duration   `yaml:"retry_wait_time"`
	RetryMaxWaitTime time.Duration   `yaml:"retry_max_wait_time"`
	Timeout          time.Duration   `yaml:"timeout"`
	TLSClientConfig  TLSClientConfig `yaml:"tls_client_config"`
	Proxy            Proxy           `yaml:"proxy"`
}

type TLSClientConfig struct {
	Verify *bool `yaml:"verify"`
}

type Proxy struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LLM holds the settings for the chat-completions client and prompt builder.
type LLM struct {
	BaseURL        string        `yaml:"base_url"`
	Model          string        `yaml:"model"`
	APIKey         string        `yaml:"api_key"`
	Temperature    *float64      `yaml:"temperature"`
	MaxTokens      int           `yaml:"max_tokens"`
	Timeout        time.Duration `yaml:"timeout"`
	RetryCount     int           `yaml:"retry_count"`
	PromptTemplate string        `yaml:"prompt_template"`
}

// Validation holds the threat framework selection and the lexical-overlap
// tunables used for unknown-id classification.
type Validation struct {
	Framework        string `yaml:"framework"`
	MinOverlapLength int    `yaml:"min_overlap_length"`
	MaxEditDistance  int    `yaml:"max_edit_distance"`
}

// Report controls the optional persisted outputs of the validation reporter.
type Report struct {
	WriteLog *bool `yaml:"write_log"`
}

func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig reads the YAML configuration at configPath. A missing file is
// not an error: defaults and environment variables cover the full
// configuration surface, so the tool runs without a config file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadYAML(configPath, config); err != nil {
		return nil, err
	}

	return config, nil
}

// GetHomeFolder returns the configured home folder.
func GetHomeFolder(cfg *Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.Threatsmith.HomeFolder
}

// GetInputFolder returns the configured input folder.
func GetInputFolder(cfg *Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.Threatsmith.InputFolder
}

// GetResultsFolder returns the configured results folder.
func GetResultsFolder(cfg *Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.Threatsmith.ResultsFolder
}

// GetLogsFolder returns the configured logs folder.
func GetLogsFolder(cfg *Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.Threatsmith.LogsFolder
}
