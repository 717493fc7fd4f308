package sentex

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/go-sentex/classifier"
	"github.com/jamesainslie/go-sentex/internal/metrics"
	"github.com/jamesainslie/go-sentex/maxent"
	"github.com/jamesainslie/go-sentex/resource"
	"github.com/jamesainslie/go-sentex/segment"
	"github.com/jamesainslie/go-sentex/tokenizer"
)

// Registry lazily loads and caches one instance of each tool.
type Registry struct {
	source  resource.Source
	names   map[Tool]string
	engines Engines
	detOpts []segment.Option
	logger  *slog.Logger
	metrics *metrics.Metrics
	closed  atomic.Bool

	detector   lazy[SentenceDetector]
	tokenizer  lazy[*tokenizer.Tokenizer]
	tagger     lazy[*maxent.Tagger]
	chunker    lazy[*maxent.Chunker]
	classifier lazy[*classifier.Classifier]
}

// NewRegistry creates an empty Registry. Nothing is loaded until first use.
func NewRegistry(opts ...Option) *Registry {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	detOpts := []segment.Option{
		segment.WithThreshold(cfg.threshold),
		segment.WithLogger(cfg.logger),
	}
	if cfg.poolSize > 0 {
		detOpts = append(detOpts, segment.WithPoolSize(cfg.poolSize))
	}

	return &Registry{
		source:  cfg.source,
		names:   cfg.names,
		engines: cfg.engines,
		detOpts: detOpts,
		logger:  cfg.logger,
		metrics: metrics.New(cfg.registerer),
	}
}

// ResourceName returns the resource name loaded for t.
func (r *Registry) ResourceName(t Tool) string {
	return r.names[t]
}

// SentenceDetector returns the shared sentence detector, loading it and
// the tokenizer it runs on if needed.
func (r *Registry) SentenceDetector() (SentenceDetector, error) {
	if r.closed.Load() {
		return nil, ErrClosed
	}
	tok, err := r.Tokenizer()
	if err != nil {
		return nil, err
	}
	return load(r, ToolSentenceDetector, &r.detector, func(data []byte) (SentenceDetector, error) {
		return r.engines.SentenceDetector(data, tok, r.detOpts...)
	})
}

// Tokenizer returns the shared tokenizer, loading it if needed.
func (r *Registry) Tokenizer() (*tokenizer.Tokenizer, error) {
	return load(r, ToolTokenizer, &r.tokenizer, r.engines.Tokenizer)
}

// POSTagger returns the shared part-of-speech tagger, loading it if needed.
func (r *Registry) POSTagger() (*maxent.Tagger, error) {
	return load(r, ToolPOSTagger, &r.tagger, r.engines.POSTagger)
}

// Chunker returns the shared phrase chunker, loading it if needed.
func (r *Registry) Chunker() (*maxent.Chunker, error) {
	return load(r, ToolChunker, &r.chunker, r.engines.Chunker)
}

// ConfidenceClassifier returns the shared extraction-confidence classifier,
// loading it if needed. InitializeAll does not load it.
func (r *Registry) ConfidenceClassifier() (*classifier.Classifier, error) {
	return load(r, ToolConfidenceClassifier, &r.classifier, r.engines.ConfidenceClassifier)
}

// InitializeAll loads the sentence detector, tokenizer, POS tagger and
// chunker concurrently and returns the first error. Tools that loaded stay
// cached and the registry remains usable; a failed tool is retried on its
// next access.
func (r *Registry) InitializeAll() error {
	var g errgroup.Group
	g.Go(func() error { _, err := r.SentenceDetector(); return err })
	g.Go(func() error { _, err := r.Tokenizer(); return err })
	g.Go(func() error { _, err := r.POSTagger(); return err })
	g.Go(func() error { _, err := r.Chunker(); return err })
	return g.Wait()
}

// Loaded reports whether t is cached.
func (r *Registry) Loaded(t Tool) bool {
	if r.closed.Load() {
		return false
	}
	switch t {
	case ToolSentenceDetector:
		return r.detector.loaded()
	case ToolTokenizer:
		return r.tokenizer.loaded()
	case ToolPOSTagger:
		return r.tagger.loaded()
	case ToolChunker:
		return r.chunker.loaded()
	case ToolConfidenceClassifier:
		return r.classifier.loaded()
	}
	return false
}

// Close releases the sentence detector's inference sessions, the only tool
// holding native resources. Accessors return ErrClosed afterwards. Close is
// idempotent.
func (r *Registry) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}

	if det, ok := r.detector.peek(); ok {
		if err := det.Close(); err != nil {
			return fmt.Errorf("close %s: %w", ToolSentenceDetector, err)
		}
	}
	return nil
}

func load[T any](r *Registry, t Tool, slot *lazy[T], decode func([]byte) (T, error)) (T, error) {
	var zero T
	if r.closed.Load() {
		return zero, ErrClosed
	}

	return slot.get(func() (T, error) {
		if r.closed.Load() {
			return zero, ErrClosed
		}

		name := r.names[t]
		start := time.Now()
		v, size, err := readTool(r, t, name, decode)
		elapsed := time.Since(start)
		r.metrics.ObserveLoad(t.String(), elapsed, err)

		if err != nil {
			r.logger.Warn("tool load failed",
				"tool", t.String(),
				"resource", name,
				"error", err)
			return zero, err
		}

		r.logger.Info("tool loaded",
			"tool", t.String(),
			"resource", name,
			"bytes", size,
			"duration", elapsed)
		return v, nil
	})
}

func readTool[T any](r *Registry, t Tool, name string, decode func([]byte) (T, error)) (T, int, error) {
	var zero T

	data, err := r.source.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zero, 0, fmt.Errorf("%w: %s %q: %w", ErrResourceNotFound, t, name, err)
		}
		return zero, 0, fmt.Errorf("read %s %q: %w", t, name, err)
	}

	v, err := decode(data)
	if err != nil {
		return zero, len(data), fmt.Errorf("%w: %s %q: %w", ErrInvalidModel, t, name, err)
	}
	return v, len(data), nil
}
