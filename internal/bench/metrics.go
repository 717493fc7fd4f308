package bench

import (
	"context"
	"fmt"
	"strings"

	"github.com/jamesainslie/go-sentex/extract"
)

// Config holds evaluation parameters.
type Config struct {
	Threshold       float32
	Tolerance       int // character match tolerance
	PrecisionWeight float64
	RecallWeight    float64
}

// DefaultConfig returns default evaluation configuration.
func DefaultConfig() Config {
	return Config{
		Threshold:       0.025,
		Tolerance:       3,
		PrecisionWeight: 1.0,
		RecallWeight:    1.0,
	}
}

// Metrics holds evaluation results.
type Metrics struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	Precision      float64
	Recall         float64
	F1             float64
	WeightedScore  float64
}

// Evaluate compares predicted boundaries against ground truth.
// Uses greedy left-to-right matching within tolerance.
func Evaluate(predicted, truth []int, cfg Config) Metrics {
	matched := make([]bool, len(truth))
	tp := 0

	for _, p := range predicted {
		for i, t := range truth {
			if matched[i] {
				continue
			}
			diff := p - t
			if diff < 0 {
				diff = -diff
			}
			if diff <= cfg.Tolerance {
				matched[i] = true
				tp++
				break
			}
		}
	}

	return cfg.score(tp, len(predicted)-tp, len(truth)-tp)
}

// Aggregate sums the counts of several results and rescores them.
func Aggregate(results []Metrics, cfg Config) Metrics {
	var tp, fp, fn int
	for _, m := range results {
		tp += m.TruePositives
		fp += m.FalsePositives
		fn += m.FalseNegatives
	}
	return cfg.score(tp, fp, fn)
}

func (cfg Config) score(tp, fp, fn int) Metrics {
	m := Metrics{
		TruePositives:  tp,
		FalsePositives: fp,
		FalseNegatives: fn,
	}

	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	wp := cfg.PrecisionWeight
	wr := cfg.RecallWeight
	if wp+wr > 0 {
		m.WeightedScore = (wp*m.Precision + wr*m.Recall) / (wp + wr)
	}

	return m
}

// Boundaries returns the end offset of each gold sentence.
func Boundaries(sentences []Sentence) []int {
	out := make([]int, len(sentences))
	for i, s := range sentences {
		out[i] = s.End
	}
	return out
}

// PredictedBoundaries locates each predicted sentence in text, in order,
// and returns its end offset. Sentences that cannot be found are skipped.
func PredictedBoundaries(text string, predicted []string) []int {
	var out []int
	cursor := 0
	for _, s := range predicted {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		idx := strings.Index(text[cursor:], s)
		if idx < 0 {
			continue
		}
		cursor += idx + len(s)
		out = append(out, cursor)
	}
	return out
}

// EvaluateDocument segments doc.RawText with seg and scores the result.
func EvaluateDocument(ctx context.Context, seg extract.Segmenter, doc *Document, cfg Config) (Metrics, error) {
	predicted, err := seg.Segment(ctx, doc.RawText)
	if err != nil {
		return Metrics{}, fmt.Errorf("segment %s: %w", doc.ID, err)
	}
	return Evaluate(PredictedBoundaries(doc.RawText, predicted), Boundaries(doc.Sentences), cfg), nil
}

// EvaluateCorpus evaluates every document and aggregates the counts.
func EvaluateCorpus(ctx context.Context, seg extract.Segmenter, docs []*Document, cfg Config) (Metrics, error) {
	results := make([]Metrics, 0, len(docs))
	for _, doc := range docs {
		m, err := EvaluateDocument(ctx, seg, doc, cfg)
		if err != nil {
			return Metrics{}, err
		}
		results = append(results, m)
	}
	return Aggregate(results, cfg), nil
}
