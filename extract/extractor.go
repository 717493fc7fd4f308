package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Observer is notified of every candidate outcome.
type Observer interface {
	Observe(r Result)
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver registers an observer for candidate outcomes.
func WithObserver(o Observer) Option {
	return func(e *Extractor) {
		e.observer = o
	}
}

// Extractor applies a boundary strategy and an ordered mapper chain.
//
// Mappers are added before the extractor is shared. Once shared, an
// Extractor is safe for concurrent use as long as its Segmenter and
// Mappers are.
type Extractor struct {
	seg      Segmenter
	html     bool
	mappers  []Mapper
	logger   *slog.Logger
	observer Observer
}

// New returns a plain-text extractor. Input is split into blank-line
// separated paragraphs before segmentation. A nil seg uses RuleSegmenter.
func New(seg Segmenter, opts ...Option) *Extractor {
	return newExtractor(seg, false, opts)
}

// NewHTML returns an extractor for HTML input. Text is taken from block
// elements; script and style content is ignored.
func NewHTML(seg Segmenter, opts ...Option) *Extractor {
	return newExtractor(seg, true, opts)
}

func newExtractor(seg Segmenter, isHTML bool, opts []Option) *Extractor {
	if seg == nil {
		seg = RuleSegmenter{}
	}
	e := &Extractor{
		seg:    seg,
		html:   isHTML,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddMapper appends m to the chain.
func (e *Extractor) AddMapper(m Mapper) *Extractor {
	e.mappers = append(e.mappers, m)
	return e
}

// Mappers returns a copy of the chain in application order.
func (e *Extractor) Mappers() []Mapper {
	out := make([]Mapper, len(e.mappers))
	copy(out, e.mappers)
	return out
}

// IsHTML reports whether the extractor uses the HTML strategy.
func (e *Extractor) IsHTML() bool {
	return e.html
}

// Apply runs sentence through the mapper chain. The first rejection stops
// the chain.
func (e *Extractor) Apply(sentence string) Result {
	r := Accept(strings.TrimSpace(sentence))
	if r.Sentence == "" {
		r = Reject("", ReasonEmpty)
	}
	for _, m := range e.mappers {
		if !r.Accepted {
			break
		}
		r = m.Map(r.Sentence)
	}

	if !r.Accepted {
		e.logger.Debug("sentence rejected", "reason", r.Reason, "sentence", r.Sentence)
	}
	if e.observer != nil {
		e.observer.Observe(r)
	}
	return r
}

// Candidates returns the outcome for every candidate sentence in text,
// in source order.
func (e *Extractor) Candidates(ctx context.Context, text string) ([]Result, error) {
	blocks, err := e.blocks(text)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, block := range blocks {
		rs, err := e.block(ctx, block)
		if err != nil {
			return nil, err
		}
		results = append(results, rs...)
	}
	return results, nil
}

// Extract returns the accepted sentences in text, in source order.
func (e *Extractor) Extract(ctx context.Context, text string) ([]string, error) {
	results, err := e.Candidates(ctx, text)
	if err != nil {
		return nil, err
	}
	return accepted(results), nil
}

func (e *Extractor) blocks(text string) ([]string, error) {
	if e.html {
		return htmlBlocks(strings.NewReader(text))
	}

	var blocks []string
	sc := newParagraphScanner(strings.NewReader(text))
	for sc.Scan() {
		blocks = append(blocks, sc.Text())
	}
	return blocks, sc.Err()
}

func (e *Extractor) block(ctx context.Context, block string) ([]Result, error) {
	sentences, err := e.seg.Segment(ctx, block)
	if err != nil {
		return nil, fmt.Errorf("segment block: %w", err)
	}

	results := make([]Result, 0, len(sentences))
	for _, s := range sentences {
		results = append(results, e.Apply(s))
	}
	return results, nil
}

func accepted(results []Result) []string {
	var out []string
	for _, r := range results {
		if r.Accepted {
			out = append(out, r.Sentence)
		}
	}
	return out
}
