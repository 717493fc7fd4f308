package sentex

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/jamesainslie/go-sentex/classifier"
	"github.com/jamesainslie/go-sentex/extract"
	"github.com/jamesainslie/go-sentex/maxent"
	"github.com/jamesainslie/go-sentex/resource"
	"github.com/jamesainslie/go-sentex/segment"
	"github.com/jamesainslie/go-sentex/tokenizer"
)

const detectorPayload = "sat-model"

func tokenizerPayload() []byte {
	m := &tokenizer.Model{
		ModelType: tokenizer.ModelUnigram,
		Pieces: []tokenizer.Piece{
			{Piece: "<unk>", Type: tokenizer.PieceUnknown},
			{Piece: "<s>", Type: tokenizer.PieceControl},
			{Piece: "</s>", Type: tokenizer.PieceControl},
			{Piece: "▁", Score: -2, Type: tokenizer.PieceNormal},
			{Piece: "▁Hello", Score: -1, Type: tokenizer.PieceNormal},
			{Piece: ".", Score: -1, Type: tokenizer.PieceNormal},
		},
	}
	return m.Marshal()
}

func taggerPayload() []byte {
	m := &maxent.Model{
		Kind:    maxent.KindPOS,
		Labels:  []string{"NN", "."},
		Weights: map[string][]float64{"w=.": {0, 5}},
	}
	return m.Marshal()
}

func chunkerPayload() []byte {
	m := &maxent.Model{
		Kind:    maxent.KindChunk,
		Labels:  []string{"B-NP", "O"},
		Weights: map[string][]float64{"t=.": {0, 5}},
	}
	return m.Marshal()
}

func classifierPayload(t *testing.T) []byte {
	t.Helper()
	data, err := classifier.Marshal([]string{"has_verb"}, []float64{2}, -1, 0.5)
	if err != nil {
		t.Fatalf("classifier.Marshal failed: %v", err)
	}
	return data
}

// testFiles returns every default resource.
func testFiles(t *testing.T) fstest.MapFS {
	t.Helper()
	return fstest.MapFS{
		"en-sent.bin":       {Data: []byte(detectorPayload)},
		"en-token.bin":      {Data: tokenizerPayload()},
		"en-pos-maxent.bin": {Data: taggerPayload()},
		"en-chunker.bin":    {Data: chunkerPayload()},
		"conf.pb":           {Data: classifierPayload(t)},
	}
}

// fakeDetector stands in for the ONNX segmenter.
type fakeDetector struct {
	extract.RuleSegmenter
	closed   atomic.Bool
	closeErr error
}

func (d *fakeDetector) Close() error {
	d.closed.Store(true)
	return d.closeErr
}

// loadCounter counts engine invocations per tool.
type loadCounter struct {
	mu     sync.Mutex
	counts map[Tool]int
}

func (c *loadCounter) inc(t Tool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[Tool]int)
	}
	c.counts[t]++
}

func (c *loadCounter) get(t Tool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[t]
}

func countingEngines(c *loadCounter) Engines {
	def := DefaultEngines()
	return Engines{
		SentenceDetector: func(model []byte, tok *tokenizer.Tokenizer, _ ...segment.Option) (SentenceDetector, error) {
			if tok == nil {
				return nil, errors.New("no tokenizer")
			}
			if string(model) != detectorPayload {
				return nil, errors.New("not a SaT model")
			}
			// Widen the window for concurrent first callers.
			time.Sleep(10 * time.Millisecond)
			c.inc(ToolSentenceDetector)
			return &fakeDetector{}, nil
		},
		Tokenizer: func(data []byte) (*tokenizer.Tokenizer, error) {
			c.inc(ToolTokenizer)
			return def.Tokenizer(data)
		},
		POSTagger: func(data []byte) (*maxent.Tagger, error) {
			c.inc(ToolPOSTagger)
			return def.POSTagger(data)
		},
		Chunker: func(data []byte) (*maxent.Chunker, error) {
			c.inc(ToolChunker)
			return def.Chunker(data)
		},
		ConfidenceClassifier: func(data []byte) (*classifier.Classifier, error) {
			c.inc(ToolConfidenceClassifier)
			return def.ConfidenceClassifier(data)
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRegistry(t *testing.T, files fstest.MapFS, opts ...Option) (*Registry, *loadCounter) {
	t.Helper()

	counter := &loadCounter{}
	base := []Option{
		WithSource(resource.FS(files)),
		WithEngines(countingEngines(counter)),
		WithLogger(discardLogger()),
	}
	reg := NewRegistry(append(base, opts...)...)
	t.Cleanup(func() { _ = reg.Close() })
	return reg, counter
}
