package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// neutralize clears env overrides so defaults are observable regardless of
// the environment the tests run in.
func neutralize(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_URL", "LEADS_FILE", "CORS_ORIGINS", "MAX_UPLOAD_BYTES",
		"LOG_LEVEL", "LOG_FORMAT", "OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	neutralize(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "8081" {
		t.Errorf("Port = %q, want 8081", cfg.Port)
	}
	if cfg.LeadsFile != "data/leads.json" {
		t.Errorf("LeadsFile = %q", cfg.LeadsFile)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"http://localhost:3000"}) {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "console" {
		t.Errorf("logging defaults = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.AI.TimeoutSeconds != 30 || cfg.Import.TimeoutSeconds != 30 {
		t.Errorf("timeout defaults = %d/%d", cfg.AI.TimeoutSeconds, cfg.Import.TimeoutSeconds)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	neutralize(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `port: "9000"
leads_file: /tmp/test-leads.json
cors_origins:
  - https://app.example.com
ai:
  api_key: yaml-key
  model: gpt-4o
import:
  timeout_seconds: 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.LeadsFile != "/tmp/test-leads.json" {
		t.Errorf("LeadsFile = %q", cfg.LeadsFile)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"https://app.example.com"}) {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.AI.APIKey != "yaml-key" || cfg.AI.Model != "gpt-4o" {
		t.Errorf("AI config = %+v", cfg.AI)
	}
	if cfg.Import.TimeoutSeconds != 5 {
		t.Errorf("Import.TimeoutSeconds = %d, want 5", cfg.Import.TimeoutSeconds)
	}
	// Untouched keys keep their defaults.
	if cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	neutralize(t)
	t.Setenv("PORT", "7777")
	t.Setenv("LEADS_FILE", "/tmp/env-leads.json")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example ,")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("OPENAI_API_KEY", "env-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "7777" {
		t.Errorf("Port = %q, want 7777", cfg.Port)
	}
	if cfg.LeadsFile != "/tmp/env-leads.json" {
		t.Errorf("LeadsFile = %q", cfg.LeadsFile)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"http://a.example", "http://b.example"}) {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Errorf("MaxUploadBytes = %d, want 1024", cfg.MaxUploadBytes)
	}
	if cfg.AI.APIKey != "env-key" {
		t.Errorf("AI.APIKey = %q", cfg.AI.APIKey)
	}
}

func TestLoadEnvBeatsFile(t *testing.T) {
	neutralize(t)
	t.Setenv("PORT", "7000")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(`port: "9000"`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "7000" {
		t.Errorf("Port = %q, want env override 7000", cfg.Port)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestLoadIgnoresInvalidMaxUploadBytes(t *testing.T) {
	neutralize(t)
	t.Setenv("MAX_UPLOAD_BYTES", "not-a-number")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("MaxUploadBytes = %d, want default", cfg.MaxUploadBytes)
	}
}
