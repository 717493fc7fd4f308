// Package segment detects sentence boundaries with wtpsplit/SaT ONNX models.
//
// A Segmenter is built from the serialized ONNX model and the SentencePiece
// tokenizer the model was trained with. It is safe for concurrent use and keeps
// an internal pool of ONNX sessions, sized with WithPoolSize.
package segment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/jamesainslie/go-sentex/inference"
	"github.com/jamesainslie/go-sentex/tokenizer"
)

const (
	// maxSeqLen is the maximum sequence length supported by the model.
	// The model supports positions 0-513; 512 leaves a margin.
	maxSeqLen = 512

	// chunkOverlap is the number of overlapping tokens between chunks.
	chunkOverlap = 64
)

// ErrNoTokenizer is returned when New is called without a tokenizer.
var ErrNoTokenizer = errors.New("segment: tokenizer is required")

// Segmenter detects sentence boundaries using wtpsplit/SaT ONNX models.
type Segmenter struct {
	tokenizer *tokenizer.Tokenizer
	pool      *inference.Pool
	threshold float32
	logger    *slog.Logger
}

// New creates a Segmenter from ONNX model bytes and the model's tokenizer.
// The tokenizer is shared, not owned: Close does not close it.
func New(model []byte, tok *tokenizer.Tokenizer, opts ...Option) (*Segmenter, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if tok == nil {
		return nil, ErrNoTokenizer
	}

	pool, err := inference.NewPool(model, cfg.poolSize)
	if err != nil {
		return nil, fmt.Errorf("creating session pool: %w", err)
	}

	cfg.logger.Debug("segmenter ready",
		"pool_size", pool.Size(),
		"threshold", cfg.threshold,
		"model_bytes", len(model))

	return &Segmenter{
		tokenizer: tok,
		pool:      pool,
		threshold: cfg.threshold,
		logger:    cfg.logger,
	}, nil
}

// IsComplete returns whether text appears to be a complete sentence.
func (s *Segmenter) IsComplete(ctx context.Context, text string) (complete bool, confidence float32, err error) {
	if text == "" {
		return false, 0.0, nil
	}

	tokens := s.tokenizer.Encode(text)
	if len(tokens) == 0 {
		return false, 0.0, nil
	}

	logits, err := s.getLogits(ctx, tokens)
	if err != nil {
		return false, 0, err
	}

	prob := sigmoid(logits[len(logits)-1])
	return prob > s.threshold, prob, nil
}

// Segment splits text into sentences. Surrounding whitespace is trimmed and
// empty pieces are dropped.
func (s *Segmenter) Segment(ctx context.Context, text string) ([]string, error) {
	sentences, _, err := s.SegmentWithBoundaries(ctx, text)
	if err != nil {
		return nil, err
	}

	out := sentences[:0]
	for _, sent := range sentences {
		if sent = strings.TrimSpace(sent); sent != "" {
			out = append(out, sent)
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// SegmentWithBoundaries splits text into sentences and returns boundary positions.
// Boundaries are byte offsets where each sentence ends in the original text.
func (s *Segmenter) SegmentWithBoundaries(ctx context.Context, text string) (sentences []string, boundaries []int, err error) {
	if text == "" {
		return nil, nil, nil
	}

	tokens := s.tokenizer.Encode(text)
	if len(tokens) == 0 {
		return nil, nil, nil
	}

	logits, err := s.getLogits(ctx, tokens)
	if err != nil {
		return nil, nil, err
	}

	for i, logit := range logits {
		if sigmoid(logit) > s.threshold && i < len(tokens) {
			boundaries = append(boundaries, tokens[i].End)
		}
	}

	if len(boundaries) == 0 {
		return []string{text}, []int{len(text)}, nil
	}

	var ends []int
	start := 0
	for _, end := range boundaries {
		if end > start && end <= len(text) {
			sentences = append(sentences, text[start:end])
			ends = append(ends, end)
			start = end
		}
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
		ends = append(ends, len(text))
	}

	return sentences, ends, nil
}

// getLogits returns logits for all tokens, chunking if necessary.
func (s *Segmenter) getLogits(ctx context.Context, tokens []tokenizer.TokenInfo) ([]float32, error) {
	session, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer s.pool.Release(session)

	if len(tokens) <= maxSeqLen {
		return s.inferChunk(ctx, session, tokens)
	}

	// Overlapping windows; logits in overlap regions are averaged.
	logits := make([]float32, len(tokens))
	counts := make([]int, len(tokens))

	stride := maxSeqLen - chunkOverlap
	for start := 0; start < len(tokens); start += stride {
		end := start + maxSeqLen
		if end > len(tokens) {
			end = len(tokens)
		}

		chunkLogits, err := s.inferChunk(ctx, session, tokens[start:end])
		if err != nil {
			return nil, err
		}

		for i, logit := range chunkLogits {
			logits[start+i] += logit
			counts[start+i]++
		}

		if end >= len(tokens) {
			break
		}
	}

	for i := range logits {
		if counts[i] > 1 {
			logits[i] /= float32(counts[i])
		}
	}

	return logits, nil
}

// inferChunk runs inference on a single chunk of tokens.
func (s *Segmenter) inferChunk(ctx context.Context, session *inference.Session, tokens []tokenizer.TokenInfo) ([]float32, error) {
	inputIDs := make([]int64, len(tokens))
	attentionMask := make([]int64, len(tokens))
	for i, t := range tokens {
		inputIDs[i] = int64(t.ID)
		attentionMask[i] = 1
	}

	return session.Infer(ctx, inputIDs, attentionMask)
}

// Close releases the ONNX session pool.
func (s *Segmenter) Close() error {
	if s.pool != nil {
		return s.pool.Close()
	}
	return nil
}

func sigmoid(x float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(float64(-x))))
}
