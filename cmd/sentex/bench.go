package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	sentex "github.com/jamesainslie/go-sentex"
	"github.com/jamesainslie/go-sentex/extract"
	"github.com/jamesainslie/go-sentex/internal/bench"
	"github.com/jamesainslie/go-sentex/segment"
)

type ruleDetector struct {
	extract.RuleSegmenter
}

func (ruleDetector) Close() error { return nil }

func newBenchCmd(a *app) *cobra.Command {
	var (
		threshold float32
		tolerance int
		wp, wr    float64
		rules     bool
		sweep     bool
		sweepMin  float32
		sweepMax  float32
		sweepStep float32
	)

	cmd := &cobra.Command{
		Use:   "bench <corpus-dir>",
		Short: "Measure sentence boundary accuracy against a gold corpus",
		Long: `Bench scores the sentence detector against .txt files holding one gold
sentence per line after a "# Source:" header.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sweep && !rules {
				if sweepStep <= 0 {
					return fmt.Errorf("--sweep-step must be positive, got %g", sweepStep)
				}
				if sweepMax <= sweepMin {
					return fmt.Errorf("--sweep-max (%g) must exceed --sweep-min (%g)", sweepMax, sweepMin)
				}
			}

			docs, err := bench.LoadCorpus(args[0])
			if err != nil {
				return fmt.Errorf("error loading corpus: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Loaded %d documents from %s\n\n", len(docs), args[0])

			cfg := bench.Config{
				Threshold:       threshold,
				Tolerance:       tolerance,
				PrecisionWeight: wp,
				RecallWeight:    wr,
			}

			open := a.openDetector
			if rules {
				open = func(float32) (bench.Detector, error) { return ruleDetector{}, nil }
			}

			if !sweep || rules {
				det, err := open(threshold)
				if err != nil {
					return err
				}
				defer func() { _ = det.Close() }()

				m, err := bench.EvaluateCorpus(cmd.Context(), det, docs, cfg)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Precision: %.2f  Recall: %.2f  F1: %.2f  Weighted: %.2f\n",
					m.Precision, m.Recall, m.F1, m.WeightedScore)
				fmt.Fprintf(out, "(TP: %d, FP: %d, FN: %d)\n", m.TruePositives, m.FalsePositives, m.FalseNegatives)
				return nil
			}

			thresholds := bench.SweepThresholds(sweepMin, sweepMax, sweepStep)
			results, err := bench.Sweep(cmd.Context(), docs, open, cfg, thresholds)
			if err != nil {
				return fmt.Errorf("error during sweep: %w", err)
			}

			fmt.Fprintf(out, "Threshold Sweep Results (wp=%.1f, wr=%.1f)\n", wp, wr)
			fmt.Fprintln(out, strings.Repeat("-", 50))
			fmt.Fprintf(out, "%-8s %-8s %-8s %-8s %-8s\n", "Thresh", "Prec", "Rec", "F1", "Weighted")

			// Print sorted by threshold for readability
			for _, t := range thresholds {
				for _, r := range results {
					if r.Threshold == t {
						fmt.Fprintf(out, "%-8.3f %-8.2f %-8.2f %-8.2f %-8.2f\n",
							r.Threshold, r.Metrics.Precision, r.Metrics.Recall, r.Metrics.F1, r.Metrics.WeightedScore)
						break
					}
				}
			}

			fmt.Fprintln(out, strings.Repeat("-", 50))
			if len(results) > 0 {
				best := results[0]
				fmt.Fprintf(out, "Optimal: %.3f (Weighted: %.2f)\n", best.Threshold, best.Metrics.WeightedScore)
			}
			return nil
		},
	}

	def := bench.DefaultConfig()
	cmd.Flags().Float32Var(&threshold, "threshold", def.Threshold, "boundary detection threshold")
	cmd.Flags().IntVar(&tolerance, "tolerance", def.Tolerance, "character tolerance for boundary matching")
	cmd.Flags().Float64Var(&wp, "wp", def.PrecisionWeight, "precision weight")
	cmd.Flags().Float64Var(&wr, "wr", def.RecallWeight, "recall weight")
	cmd.Flags().BoolVar(&rules, "rules", false, "score rule-based splitting instead of the sentence model")
	cmd.Flags().BoolVar(&sweep, "sweep", false, "run a threshold sweep")
	cmd.Flags().Float32Var(&sweepMin, "sweep-min", 0.01, "sweep minimum threshold")
	cmd.Flags().Float32Var(&sweepMax, "sweep-max", 0.20, "sweep maximum threshold")
	cmd.Flags().Float32Var(&sweepStep, "sweep-step", 0.01, "sweep step size")
	return cmd
}

// openDetector builds a standalone sentence detector at the given threshold,
// sharing the registry's tokenizer.
func (a *app) openDetector(threshold float32) (bench.Detector, error) {
	tok, err := a.reg.Tokenizer()
	if err != nil {
		return nil, err
	}

	name := a.reg.ResourceName(sentex.ToolSentenceDetector)
	model, err := a.source.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	det, err := segment.New(model, tok,
		segment.WithThreshold(threshold),
		segment.WithPoolSize(a.cfg.Detector.PoolSize),
		segment.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	return det, nil
}
