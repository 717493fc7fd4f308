package bench

import (
	"context"
	"sort"

	"github.com/jamesainslie/go-sentex/extract"
)

// Detector is a segmenter holding resources that Close releases.
type Detector interface {
	extract.Segmenter
	Close() error
}

// OpenFunc builds a detector for one threshold.
type OpenFunc func(threshold float32) (Detector, error)

// SweepResult holds metrics for one threshold value.
type SweepResult struct {
	Threshold float32
	Metrics   Metrics
}

// SweepThresholds generates threshold values from min to max with given step.
// A step that is not positive yields no thresholds.
func SweepThresholds(min, max, step float32) []float32 {
	if step <= 0 {
		return nil
	}
	var thresholds []float32
	for t := min; t < max; t += step {
		thresholds = append(thresholds, t)
	}
	return thresholds
}

// Sweep evaluates multiple thresholds and returns results sorted by weighted score.
func Sweep(ctx context.Context, docs []*Document, open OpenFunc, cfg Config, thresholds []float32) ([]SweepResult, error) {
	var results []SweepResult

	for _, threshold := range thresholds {
		det, err := open(threshold)
		if err != nil {
			return nil, err
		}

		cfg.Threshold = threshold
		agg, err := EvaluateCorpus(ctx, det, docs, cfg)
		_ = det.Close()
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			Threshold: threshold,
			Metrics:   agg,
		})
	}

	// Sort by weighted score descending
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Metrics.WeightedScore > results[j].Metrics.WeightedScore
	})

	return results, nil
}
