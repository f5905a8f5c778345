package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string

	// Auth: when empty, the API runs unauthenticated.
	APIKey string

	// Upload/request limits
	MaxSourceBytes int64

	// Page rendering
	TemplatePath string

	// Default property overrides (author, date, ...). In-text property
	// tags always win over these.
	Properties map[string]string

	// PDF import
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port:                 envOr("PORT", "8085"),
		APIKey:               os.Getenv("PROPDOWN_API_KEY"),
		MaxSourceBytes:       envInt64("MAX_SOURCE_BYTES", 10485760), // 10MB
		TemplatePath:         os.Getenv("PROPDOWN_TEMPLATE"),
		Properties:           map[string]string{},
		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxSourceBytes <= 0 {
		cfg.MaxSourceBytes = 10485760
	}

	return cfg
}

// fileConfig is the shape of an optional propdown.yaml project file.
type fileConfig struct {
	Template   string            `yaml:"template"`
	Properties map[string]string `yaml:"properties"`
}

// MergeFile merges a propdown.yaml project file beneath the current
// configuration: environment and flags win, file values fill the gaps.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if c.TemplatePath == "" {
		c.TemplatePath = fc.Template
	}
	for k, v := range fc.Properties {
		if _, ok := c.Properties[k]; !ok {
			c.Properties[k] = v
		}
	}
	return nil
}

func (c Config) Validate() error {
	if c.TemplatePath != "" {
		if _, err := os.Stat(c.TemplatePath); err != nil {
			return fmt.Errorf("template %s: %w", c.TemplatePath, err)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
