package config

import (
	"crypto/tls"
	"reflect"
	"strings"
	"time"
)

// BaseHTTPConfig holds common HTTP client configuration settings.
type BaseHTTPConfig struct {
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
	Timeout          time.Duration
	TLSClientConfig  *tls.Config
	Proxy            string
}

// RestyHttpClientConfig holds additional configuration settings for the resty http client.
type RestyHttpClientConfig struct {
	BaseHTTPConfig
	Debug bool
}

// General base configuration applicable to all HTTP clients.
func DefaultHttpConfig() BaseHTTPConfig {
	return BaseHTTPConfig{
		RetryCount:       5,
		RetryWaitTime:    1 * time.Second,
		RetryMaxWaitTime: 2 * time.Second,
		Timeout:          10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12, // Enforce a minimum TLS version
		},
		Proxy: "",
	}
}

// DefaultRestyConfig function returns a specific http config to Resty
func DefaultRestyConfig() RestyHttpClientConfig {
	baseConfig := DefaultHttpConfig()
	return RestyHttpClientConfig{
		BaseHTTPConfig: baseConfig,
		Debug:          false,
	}
}

// Defaults for the LLM client and validation tunables.
const (
	DefaultLLMBaseURL       = "https://api.openai.com/v1"
	DefaultLLMTemperature   = 0.1
	DefaultLLMTimeout       = 1 * time.Hour
	MaxLLMTimeout           = 6 * time.Hour
	DefaultMinOverlapLength = 2
	DefaultMaxEditDistance  = 2
	DefaultFramework        = "STRIDE"
)

// GetBoolValue retrieves a boolean value from a nested struct based on a dot-separated path.
// It returns the provided defaultValue if the specified field is not explicitly set or is nil.
func GetBoolValue(config interface{}, fieldPath string, defaultValue bool) bool {
	if config == nil {
		return defaultValue
	}

	fields := strings.Split(fieldPath, ".")
	val := reflect.ValueOf(config)

	for _, field := range fields {
		if val.Kind() == reflect.Ptr {
			val = val.Elem()
		}

		val = val.FieldByName(field)
		if !val.IsValid() {
			return defaultValue
		}
	}

	if val.Kind() == reflect.Ptr && !val.IsNil() {
		return val.Elem().Bool()
	} else if val.Kind() == reflect.Bool {
		return val.Bool()
	}

	return defaultValue
}

// SetThen provides a utility to select the first value if set, otherwise defaults.
func SetThen[T any](value T, defaultValue T) T {
	if reflect.ValueOf(value).IsZero() {
		return defaultValue
	}
	return value
}
