package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	sentex "github.com/jamesainslie/go-sentex"
	"github.com/jamesainslie/go-sentex/inference"
	"github.com/jamesainslie/go-sentex/internal/config"
	"github.com/jamesainslie/go-sentex/internal/logging"
	"github.com/jamesainslie/go-sentex/internal/metrics"
	"github.com/jamesainslie/go-sentex/resource"
)

// app holds state shared by subcommands for one invocation.
type app struct {
	cfgFile  string
	modelDir string
	bundle   string
	logLevel string

	cfg     *config.Config
	logger  *slog.Logger
	source  resource.Source
	reg     *sentex.Registry
	closers []func() error
	server  *http.Server
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "sentex",
		Short: "Extract clean sentences from text and HTML",
		Long: `sentex loads sentence detection, tokenization, tagging, chunking and
confidence models on demand and runs text through a sentence filter chain.

Example usage:
  sentex split article.txt         # Print accepted sentences
  sentex split --html page.html    # Extract sentences from HTML
  sentex init                      # Load every model and report failures
  sentex bundle models/ models.db  # Pack model files into one bundle`,
		Version:           fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "sentex.yaml", "config file")
	cmd.PersistentFlags().StringVar(&a.modelDir, "models", "", "model directory (overrides config)")
	cmd.PersistentFlags().StringVar(&a.bundle, "bundle", "", "model bundle file (overrides config)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newSplitCmd(a),
		newInitCmd(a),
		newCheckCmd(a),
		newTagCmd(a),
		newClassifyCmd(a),
		newBundleCmd(a),
		newBenchCmd(a),
	)
	return cmd
}

// loadConfig reads the config file, applies flag overrides and builds the logger.
func (a *app) loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.modelDir != "" {
		cfg.Models.Dir = a.modelDir
	}
	if a.bundle != "" {
		cfg.Models.Bundle = a.bundle
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	return nil
}

// setup loads config, opens the model source and creates the registry.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := a.loadConfig(cmd, args); err != nil {
		return err
	}
	cfg := a.cfg

	if cfg.Detector.OnnxLibrary != "" {
		inference.SetLibraryPath(cfg.Detector.OnnxLibrary)
	}

	if err := a.openSource(); err != nil {
		return err
	}

	promReg := prometheus.NewRegistry()
	opts := []sentex.Option{
		sentex.WithSource(a.source),
		sentex.WithThreshold(cfg.Detector.Threshold),
		sentex.WithPoolSize(cfg.Detector.PoolSize),
		sentex.WithLogger(a.logger),
		sentex.WithRegisterer(promReg),
	}
	for name, resourceName := range cfg.Models.Names {
		tool, err := sentex.ParseTool(name)
		if err != nil {
			return fmt.Errorf("config models.names: %w", err)
		}
		opts = append(opts, sentex.WithResourceName(tool, resourceName))
	}
	a.reg = sentex.NewRegistry(opts...)
	a.closers = append(a.closers, a.reg.Close)

	if cfg.Metrics.Addr != "" {
		a.serveMetrics(cfg.Metrics.Addr, metrics.New(promReg).Handler())
	}
	return nil
}

// openSource chains the model directory ahead of the bundle.
func (a *app) openSource() error {
	var sources []resource.Source
	if a.cfg.Models.Dir != "" {
		sources = append(sources, resource.Dir(a.cfg.Models.Dir))
	}
	if a.cfg.Models.Bundle != "" {
		b, err := resource.OpenBundle(a.cfg.Models.Bundle)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, b.Close)
		sources = append(sources, b)
	}
	if len(sources) == 0 {
		sources = append(sources, resource.Empty)
	}
	a.source = resource.Chain(sources...)
	return nil
}

func (a *app) serveMetrics(addr string, handler http.Handler) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	a.server = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		a.logger.Info("metrics server listening", "addr", addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "error", err)
		}
	}()
}

func (a *app) teardown() error {
	var errs []error
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	// Close in reverse order so the registry goes before its bundle.
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// builder returns a pipeline builder honouring config and flags.
func (a *app) builder(rules bool) *sentex.Builder {
	opts := []sentex.BuilderOption{
		sentex.WithMinTokens(a.cfg.Pipeline.MinTokens),
		sentex.WithMaxTokens(a.cfg.Pipeline.MaxTokens),
	}
	if rules || a.cfg.Detector.Rules {
		opts = append(opts, sentex.WithSegmenter(ruleSegmenter))
	}
	return sentex.NewBuilder(a.reg, opts...)
}

// openInputs returns readers for the named files, or stdin when none are given.
func openInputs(cmd *cobra.Command, args []string) ([]namedReader, func(), error) {
	if len(args) == 0 {
		return []namedReader{{name: "-", r: cmd.InOrStdin()}}, func() {}, nil
	}

	var (
		inputs []namedReader
		files  []*os.File
	)
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		files = append(files, f)
		inputs = append(inputs, namedReader{name: path, r: f})
	}
	return inputs, closeAll, nil
}
