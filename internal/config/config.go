package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AIConfig holds the external scoring service settings.
type AIConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ImportConfig bounds the URL import path.
type ImportConfig struct {
	TimeoutSeconds int   `yaml:"timeout_seconds"`
	MaxBytes       int64 `yaml:"max_bytes"`
}

// Config is the explicit configuration object injected into the server,
// processor and store constructors. Nothing below main reads the process
// environment directly.
type Config struct {
	Port           string       `yaml:"port"`
	DatabaseURL    string       `yaml:"database_url"`
	LeadsFile      string       `yaml:"leads_file"`
	CORSOrigins    []string     `yaml:"cors_origins"`
	MaxUploadBytes int64        `yaml:"max_upload_bytes"`
	LogLevel       string       `yaml:"log_level"`
	LogFormat      string       `yaml:"log_format"`
	AI             AIConfig     `yaml:"ai"`
	Import         ImportConfig `yaml:"import"`
}

// Load reads the optional yaml config file at path (default "config.yaml"),
// then applies environment overrides on top. A missing file is not an error;
// a malformed one is.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Port:           "8081",
		LeadsFile:      "data/leads.json",
		CORSOrigins:    []string{"http://localhost:3000"},
		MaxUploadBytes: 10 << 20,
		LogLevel:       "info",
		LogFormat:      "console",
		AI: AIConfig{
			TimeoutSeconds: 30,
		},
		Import: ImportConfig{
			TimeoutSeconds: 30,
			MaxBytes:       10 << 20,
		},
	}

	if path == "" {
		path = "config.yaml"
	}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("LEADS_FILE"); v != "" {
		cfg.LeadsFile = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxUploadBytes = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.AI.Model = v
	}
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
