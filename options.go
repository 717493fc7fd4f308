package sentex

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jamesainslie/go-sentex/resource"
	"github.com/jamesainslie/go-sentex/segment"
)

// DefaultModelDir is the directory a Registry reads from when no source is set.
const DefaultModelDir = "models"

// Option configures a Registry.
type Option func(*config)

type config struct {
	source     resource.Source
	names      map[Tool]string
	engines    Engines
	threshold  float32
	poolSize   int
	logger     *slog.Logger
	registerer prometheus.Registerer
}

func defaultConfig() config {
	names := make(map[Tool]string, len(Tools))
	for _, t := range Tools {
		names[t] = t.DefaultResourceName()
	}
	return config{
		source:    resource.Dir(DefaultModelDir),
		names:     names,
		engines:   DefaultEngines(),
		threshold: segment.DefaultThreshold,
		logger:    slog.Default(),
	}
}

// WithSource sets where model payloads are read from (default: resource.Dir("models")).
func WithSource(src resource.Source) Option {
	return func(c *config) {
		if src != nil {
			c.source = src
		}
	}
}

// WithResourceName overrides the resource name loaded for t.
func WithResourceName(t Tool, name string) Option {
	return func(c *config) {
		if name != "" {
			c.names[t] = name
		}
	}
}

// WithEngines replaces the decoders used to build tools. Nil fields keep
// the default decoder.
func WithEngines(e Engines) Option {
	return func(c *config) {
		c.engines = c.engines.merge(e)
	}
}

// WithThreshold sets the sentence detector boundary threshold (default: 0.025).
func WithThreshold(t float32) Option {
	return func(c *config) {
		if t > 0 {
			c.threshold = t
		}
	}
}

// WithPoolSize sets the sentence detector's ONNX session pool size
// (default: runtime.NumCPU()).
func WithPoolSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.poolSize = n
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRegisterer registers load and extraction metrics with reg. Without it
// metrics are kept in a private registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *config) {
		c.registerer = reg
	}
}
