package sentex

import (
	"context"

	"github.com/jamesainslie/go-sentex/classifier"
	"github.com/jamesainslie/go-sentex/maxent"
	"github.com/jamesainslie/go-sentex/segment"
	"github.com/jamesainslie/go-sentex/tokenizer"
)

// SentenceDetector splits text into sentences. It satisfies extract.Segmenter.
type SentenceDetector interface {
	Segment(ctx context.Context, text string) ([]string, error)
	Close() error
}

// Engines decode resource payloads into tools.
type Engines struct {
	SentenceDetector     func(model []byte, tok *tokenizer.Tokenizer, opts ...segment.Option) (SentenceDetector, error)
	Tokenizer            func(data []byte) (*tokenizer.Tokenizer, error)
	POSTagger            func(data []byte) (*maxent.Tagger, error)
	Chunker              func(data []byte) (*maxent.Chunker, error)
	ConfidenceClassifier func(data []byte) (*classifier.Classifier, error)
}

// DefaultEngines returns the ONNX sentence detector and the built-in decoders.
func DefaultEngines() Engines {
	return Engines{
		SentenceDetector: func(model []byte, tok *tokenizer.Tokenizer, opts ...segment.Option) (SentenceDetector, error) {
			seg, err := segment.New(model, tok, opts...)
			if err != nil {
				return nil, err
			}
			return seg, nil
		},
		Tokenizer:            tokenizer.New,
		POSTagger:            maxent.DecodeTagger,
		Chunker:              maxent.DecodeChunker,
		ConfidenceClassifier: classifier.Decode,
	}
}

func (e Engines) merge(o Engines) Engines {
	if o.SentenceDetector != nil {
		e.SentenceDetector = o.SentenceDetector
	}
	if o.Tokenizer != nil {
		e.Tokenizer = o.Tokenizer
	}
	if o.POSTagger != nil {
		e.POSTagger = o.POSTagger
	}
	if o.Chunker != nil {
		e.Chunker = o.Chunker
	}
	if o.ConfidenceClassifier != nil {
		e.ConfidenceClassifier = o.ConfidenceClassifier
	}
	return e
}
