package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"go-image-classifier/pkg/validation"
)

// DefaultImageExtensions are the suffixes accepted in folder mode.
var DefaultImageExtensions = []string{".jpg", ".jpeg", ".png"}

type Config struct {
	// Model endpoint
	BaseURL         string
	APIKey          string
	Model           string
	MaxTokens       int
	ClassifyTimeout time.Duration

	ImageExtensions []string

	LogLevel  string
	LogFormat string

	// HTTP API only
	Host               string
	Port               string
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	// AllowedImageHosts limits which hosts images may be downloaded from; empty allows any
	AllowedImageHosts []string

	// Result upload, disabled while AzureAccount is empty
	AzureAccount   string
	AzureKey       string
	AzureContainer string
}

// fileConfig mirrors Config as it is written in a YAML file.
type fileConfig struct {
	BaseURL            string   `yaml:"base_url"`
	APIKey             string   `yaml:"api_key"`
	Model              string   `yaml:"model"`
	MaxTokens          int      `yaml:"max_tokens"`
	ClassifyTimeout    string   `yaml:"classify_timeout"`
	ImageExtensions    []string `yaml:"image_extensions"`
	LogLevel           string   `yaml:"log_level"`
	LogFormat          string   `yaml:"log_format"`
	Host               string   `yaml:"host"`
	Port               string   `yaml:"port"`
	RequestTimeout     string   `yaml:"request_timeout"`
	MaxRequestBodySize int64    `yaml:"max_request_body_size"`
	AllowedImageHosts  []string `yaml:"allowed_image_hosts"`
	AzureAccount       string   `yaml:"azure_storage_account"`
	AzureKey           string   `yaml:"azure_storage_key"`
	AzureContainer     string   `yaml:"azure_storage_container"`
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// UploadEnabled reports whether results should be pushed to blob storage.
func (c *Config) UploadEnabled() bool {
	return c.AzureAccount != "" && c.AzureContainer != ""
}

// Defaults returns the configuration used when neither a file nor the environment set a value.
func Defaults() *Config {
	return &Config{
		MaxTokens:          250,
		ImageExtensions:    append([]string(nil), DefaultImageExtensions...),
		LogLevel:           "info",
		LogFormat:          "text",
		Host:               "0.0.0.0",
		Port:               "8080",
		RequestTimeout:     60 * time.Second,
		MaxRequestBodySize: 10 * 1024 * 1024, // 10MB
	}
}

// LoadFromEnv builds the configuration from defaults and environment variables only.
func LoadFromEnv() (*Config, error) {
	return Load("")
}

// Load reads the optional YAML file at path, then lets environment variables override it.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.BaseURL, fc.BaseURL)
	setString(&cfg.APIKey, fc.APIKey)
	setString(&cfg.Model, fc.Model)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.Host, fc.Host)
	setString(&cfg.Port, fc.Port)
	setString(&cfg.AzureAccount, fc.AzureAccount)
	setString(&cfg.AzureKey, fc.AzureKey)
	setString(&cfg.AzureContainer, fc.AzureContainer)
	if fc.MaxTokens != 0 {
		cfg.MaxTokens = fc.MaxTokens
	}
	if fc.MaxRequestBodySize != 0 {
		cfg.MaxRequestBodySize = fc.MaxRequestBodySize
	}
	if len(fc.ImageExtensions) > 0 {
		cfg.ImageExtensions = normalizeExtensions(fc.ImageExtensions)
	}
	if len(fc.AllowedImageHosts) > 0 {
		cfg.AllowedImageHosts = fc.AllowedImageHosts
	}
	if fc.ClassifyTimeout != "" {
		d, err := time.ParseDuration(strings.TrimSpace(fc.ClassifyTimeout))
		if err != nil {
			return fmt.Errorf("invalid classify_timeout %q: %w", fc.ClassifyTimeout, err)
		}
		cfg.ClassifyTimeout = d
	}
	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(strings.TrimSpace(fc.RequestTimeout))
		if err != nil {
			return fmt.Errorf("invalid request_timeout %q: %w", fc.RequestTimeout, err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.BaseURL = getEnvOrDefault("OPENAI_BASE_URL", cfg.BaseURL)
	cfg.APIKey = getEnvOrDefault("OPENAI_API_KEY", cfg.APIKey)
	cfg.Model = getEnvOrDefault("MODEL_NAME", cfg.Model)
	cfg.MaxTokens = int(parseIntOrDefault("MAX_TOKENS", int64(cfg.MaxTokens)))
	cfg.ClassifyTimeout = parseDurationOrDefault("CLASSIFY_TIMEOUT", cfg.ClassifyTimeout)
	if value := os.Getenv("IMAGE_EXTENSIONS"); value != "" {
		cfg.ImageExtensions = normalizeExtensions(strings.Split(value, ","))
	}
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.Host = getEnvOrDefault("HOST", cfg.Host)
	cfg.Port = getEnvOrDefault("PORT", cfg.Port)
	cfg.RequestTimeout = parseDurationOrDefault("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.MaxRequestBodySize = parseIntOrDefault("MAX_REQUEST_BODY_SIZE", cfg.MaxRequestBodySize)
	if value := os.Getenv("ALLOWED_IMAGE_HOSTS"); value != "" {
		cfg.AllowedImageHosts = splitList(value)
	}
	cfg.AzureAccount = getEnvOrDefault("AZURE_STORAGE_ACCOUNT", cfg.AzureAccount)
	cfg.AzureKey = getEnvOrDefault("AZURE_STORAGE_KEY", cfg.AzureKey)
	cfg.AzureContainer = getEnvOrDefault("AZURE_STORAGE_CONTAINER", cfg.AzureContainer)
}

// Validate rejects values that would make every classification fail.
// Settings used only by the HTTP API are checked by ValidateServer.
func (c *Config) Validate() error {
	if c.MaxTokens <= 0 {
		return fmt.Errorf("MAX_TOKENS must be > 0 (got %d)", c.MaxTokens)
	}
	if c.BaseURL != "" {
		if err := validation.NewURLValidator().ValidateEndpointURL(c.BaseURL); err != nil {
			return fmt.Errorf("invalid OPENAI_BASE_URL %q: %w", c.BaseURL, err)
		}
	}
	if c.ClassifyTimeout < 0 {
		return fmt.Errorf("CLASSIFY_TIMEOUT must be >= 0 (got %s)", c.ClassifyTimeout)
	}
	if len(c.ImageExtensions) == 0 {
		return fmt.Errorf("IMAGE_EXTENSIONS must not be empty")
	}
	return nil
}

// ValidateServer checks the settings the HTTP API needs to listen and serve.
func (c *Config) ValidateServer() error {
	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be > 0 (got %s)", c.RequestTimeout)
	}
	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// normalizeExtensions lowercases suffixes and makes sure each starts with a dot.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

// splitList splits a comma-separated value, dropping blank entries.
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration >= 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
