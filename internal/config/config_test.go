package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Models.Dir != "models" {
		t.Errorf("expected Models.Dir=models, got %q", cfg.Models.Dir)
	}
	if cfg.Detector.Threshold != 0.025 {
		t.Errorf("expected Threshold=0.025, got %f", cfg.Detector.Threshold)
	}
	if cfg.Pipeline.MinTokens != 4 {
		t.Errorf("expected MinTokens=4, got %d", cfg.Pipeline.MinTokens)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected Level=info, got %q", cfg.Logging.Level)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/sentex.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sentex.yaml")

	content := `
models:
  bundle: models.db
  names:
    pos_tagger: en-pos-perceptron.bin
detector:
  threshold: 0.1
  rules: true
pipeline:
  min_tokens: 6
logging:
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Models.Bundle != "models.db" {
		t.Errorf("expected Bundle=models.db, got %q", cfg.Models.Bundle)
	}
	if cfg.Models.Dir != "models" {
		t.Errorf("expected default Dir to survive, got %q", cfg.Models.Dir)
	}
	if got := cfg.Models.Names["pos_tagger"]; got != "en-pos-perceptron.bin" {
		t.Errorf("expected pos_tagger override, got %q", got)
	}
	if cfg.Detector.Threshold != 0.1 || !cfg.Detector.Rules {
		t.Errorf("unexpected detector config: %+v", cfg.Detector)
	}
	if cfg.Pipeline.MinTokens != 6 {
		t.Errorf("expected MinTokens=6, got %d", cfg.Pipeline.MinTokens)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "info" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sentex.yaml")
	if err := os.WriteFile(path, []byte("pipeline: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sentex.yaml")

	cfg := DefaultConfig()
	cfg.Metrics.Addr = ":9090"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Metrics.Addr != ":9090" {
		t.Errorf("expected Addr=:9090, got %q", loaded.Metrics.Addr)
	}
}
