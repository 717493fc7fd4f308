// Package config loads sentex.yaml.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the sentex CLI.
type Config struct {
	Models   ModelsConfig   `yaml:"models"`
	Detector DetectorConfig `yaml:"detector"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ModelsConfig says where model payloads come from. When both are set the
// directory takes precedence over the bundle.
type ModelsConfig struct {
	Dir    string            `yaml:"dir"`
	Bundle string            `yaml:"bundle"`
	Names  map[string]string `yaml:"names"` // tool name -> resource name overrides
}

// DetectorConfig tunes the model-backed sentence detector.
type DetectorConfig struct {
	Threshold   float32 `yaml:"threshold"`
	PoolSize    int     `yaml:"pool_size"`
	OnnxLibrary string  `yaml:"onnx_library"` // path to libonnxruntime, empty for the default
	Rules       bool    `yaml:"rules"`        // use rule-based splitting instead of the model
}

// PipelineConfig holds sentence filter settings.
type PipelineConfig struct {
	MinTokens int `yaml:"min_tokens"`
	MaxTokens int `yaml:"max_tokens"` // 0 = unbounded
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// MetricsConfig holds the metrics endpoint address. Empty disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Models: ModelsConfig{
			Dir: "models",
		},
		Detector: DetectorConfig{
			Threshold: 0.025,
			PoolSize:  0, // runtime.NumCPU()
		},
		Pipeline: PipelineConfig{
			MinTokens: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
