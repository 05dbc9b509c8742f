// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/llm"
)

// Defaults applied when neither the environment nor a config file sets a value
const (
	DefaultPort          = 8080
	DefaultCacheTTL      = 24 * time.Hour
	DefaultAutosaveDelay = 2 * time.Second
	DefaultAWSRegion     = "us-east-1"
)

// Config is the raw configuration read from the environment or a JSON file.
// All fields are optional; durations use time.ParseDuration syntax.
type Config struct {
	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Port        int    `json:"port,omitempty"`         // HTTP listen port

	// Language model
	LLMProvider  string            `json:"llm_provider,omitempty"`   // gemini or openai
	GeminiAPIKey string            `json:"gemini_api_key,omitempty"` // Gemini API key
	OpenAIAPIKey string            `json:"openai_api_key,omitempty"` // OpenAI API key
	LLMModels    map[string]string `json:"llm_models,omitempty"`     // tier -> model overrides
	RedisURL     string            `json:"redis_url,omitempty"`      // response cache; empty disables caching
	LLMCacheTTL  string            `json:"llm_cache_ttl,omitempty"`

	// Export
	ExportBucket   string `json:"export_s3_bucket,omitempty"`
	ExportEndpoint string `json:"export_s3_endpoint,omitempty"` // R2 or MinIO endpoint
	ExportPrefix   string `json:"export_s3_prefix,omitempty"`
	AWSRegion      string `json:"aws_region,omitempty"`
	ExportDir      string `json:"export_dir,omitempty"` // local export directory when no bucket is set

	AutosaveDelay string `json:"autosave_delay,omitempty"`
}

// FromEnv reads configuration from environment variables
func FromEnv() Config {
	cfg := Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		LLMProvider:    os.Getenv("LLM_PROVIDER"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		RedisURL:       os.Getenv("REDIS_URL"),
		LLMCacheTTL:    os.Getenv("LLM_CACHE_TTL"),
		ExportBucket:   os.Getenv("EXPORT_S3_BUCKET"),
		ExportEndpoint: os.Getenv("EXPORT_S3_ENDPOINT"),
		ExportPrefix:   os.Getenv("EXPORT_S3_PREFIX"),
		AWSRegion:      os.Getenv("AWS_REGION"),
		ExportDir:      os.Getenv("EXPORT_DIR"),
		AutosaveDelay:  os.Getenv("AUTOSAVE_DELAY"),
	}

	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
		cfg.Port = port
	}

	for _, tier := range []llm.ModelTier{llm.TierLite, llm.TierStandard, llm.TierAdvanced} {
		if model := os.Getenv("LLM_MODEL_" + strings.ToUpper(string(tier))); model != "" {
			if cfg.LLMModels == nil {
				cfg.LLMModels = make(map[string]string)
			}
			cfg.LLMModels[string(tier)] = model
		}
	}

	return cfg
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configured values are well formed.
// Required fields are checked by the command that needs them.
func (c *Config) Validate() error {
	switch llm.Provider(strings.ToLower(c.LLMProvider)) {
	case "", llm.ProviderGemini, llm.ProviderOpenAI:
	default:
		return fmt.Errorf("config error: unsupported llm_provider %q (use gemini or openai)", c.LLMProvider)
	}

	for tier := range c.LLMModels {
		switch llm.ModelTier(tier) {
		case llm.TierLite, llm.TierStandard, llm.TierAdvanced:
		default:
			return fmt.Errorf("config error: unknown model tier %q", tier)
		}
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}

	if c.DatabaseURL != "" {
		u, err := url.Parse(c.DatabaseURL)
		if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
			return fmt.Errorf("config error: 'database_url' must be a postgres:// URL")
		}
	}

	if c.ExportEndpoint != "" {
		if u, err := url.Parse(c.ExportEndpoint); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config error: invalid export_s3_endpoint: %s", c.ExportEndpoint)
		}
	}

	if _, err := parseDuration("llm_cache_ttl", c.LLMCacheTTL, DefaultCacheTTL); err != nil {
		return err
	}
	delay, err := parseDuration("autosave_delay", c.AutosaveDelay, DefaultAutosaveDelay)
	if err != nil {
		return err
	}
	if delay <= 0 {
		return fmt.Errorf("config error: 'autosave_delay' must be positive")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.LLMProvider, defaults.LLMProvider)
	fill(&result.GeminiAPIKey, defaults.GeminiAPIKey)
	fill(&result.OpenAIAPIKey, defaults.OpenAIAPIKey)
	fill(&result.RedisURL, defaults.RedisURL)
	fill(&result.LLMCacheTTL, defaults.LLMCacheTTL)
	fill(&result.ExportBucket, defaults.ExportBucket)
	fill(&result.ExportEndpoint, defaults.ExportEndpoint)
	fill(&result.ExportPrefix, defaults.ExportPrefix)
	fill(&result.AWSRegion, defaults.AWSRegion)
	fill(&result.ExportDir, defaults.ExportDir)
	fill(&result.AutosaveDelay, defaults.AutosaveDelay)

	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Per-tier overrides merge key by key
	if len(defaults.LLMModels) > 0 {
		models := make(map[string]string, len(defaults.LLMModels)+len(c.LLMModels))
		for k, v := range defaults.LLMModels {
			models[k] = v
		}
		for k, v := range c.LLMModels {
			models[k] = v
		}
		result.LLMModels = models
	}

	return result
}

// ServerConfig is the resolved configuration used to wire the server
type ServerConfig struct {
	DatabaseURL   string
	Port          int
	LLM           *llm.Config
	LLMAPIKey     string // empty runs the AI endpoints on fallbacks
	RedisURL      string
	LLMCacheTTL   time.Duration
	Export        ExportConfig
	AutosaveDelay time.Duration
}

// ExportConfig selects where published exports are stored
type ExportConfig struct {
	Bucket   string
	Endpoint string
	Prefix   string
	Region   string
	Dir      string
}

// Enabled reports whether any export store is configured
func (e ExportConfig) Enabled() bool {
	return e.Bucket != "" || e.Dir != ""
}

// Resolve validates the configuration and applies defaults
func (c *Config) Resolve() (*ServerConfig, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	provider := llm.Provider(strings.ToLower(c.LLMProvider))
	if provider == "" {
		provider = llm.ProviderGemini
	}
	llmConfig := llm.DefaultConfig(provider)
	for tier, model := range c.LLMModels {
		llmConfig = llmConfig.WithModel(llm.ModelTier(tier), model)
	}

	apiKey := c.GeminiAPIKey
	if provider == llm.ProviderOpenAI {
		apiKey = c.OpenAIAPIKey
	}

	cacheTTL, _ := parseDuration("llm_cache_ttl", c.LLMCacheTTL, DefaultCacheTTL)
	delay, _ := parseDuration("autosave_delay", c.AutosaveDelay, DefaultAutosaveDelay)

	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	region := c.AWSRegion
	if region == "" {
		region = DefaultAWSRegion
	}

	return &ServerConfig{
		DatabaseURL: c.DatabaseURL,
		Port:        port,
		LLM:         llmConfig,
		LLMAPIKey:   apiKey,
		RedisURL:    c.RedisURL,
		LLMCacheTTL: cacheTTL,
		Export: ExportConfig{
			Bucket:   c.ExportBucket,
			Endpoint: c.ExportEndpoint,
			Prefix:   c.ExportPrefix,
			Region:   region,
			Dir:      c.ExportDir,
		},
		AutosaveDelay: delay,
	}, nil
}

// LoadServerConfig reads the environment and, when path is set, a JSON config
// file. Environment values take precedence over the file.
func LoadServerConfig(path string) (*ServerConfig, error) {
	cfg := FromEnv()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	return cfg.Resolve()
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config error: invalid '%s': %w", field, err)
	}
	return d, nil
}
