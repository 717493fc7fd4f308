package sentex

import (
	"io"

	"github.com/jamesainslie/go-sentex/extract"
)

// DefaultMinTokens is the shortest sentence the default chain accepts.
const DefaultMinTokens = 4

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithMinTokens sets the minimum sentence length in tokens (default: 4).
func WithMinTokens(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.minTokens = n
		}
	}
}

// WithMaxTokens appends a maximum length filter after the default chain.
func WithMaxTokens(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.maxTokens = n
		}
	}
}

// WithSegmenter sets the boundary strategy instead of the registry's
// sentence detector.
func WithSegmenter(seg extract.Segmenter) BuilderOption {
	return func(b *Builder) {
		b.seg = seg
	}
}

// Builder assembles extractors with the default filter chain.
type Builder struct {
	reg       *Registry
	seg       extract.Segmenter
	minTokens int
	maxTokens int

	html lazy[*extract.Extractor]
}

// NewBuilder returns a Builder drawing tools from reg.
func NewBuilder(reg *Registry, opts ...BuilderOption) *Builder {
	b := &Builder{
		reg:       reg,
		minTokens: DefaultMinTokens,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddDefaultFilters attaches, in order: bracket removal, the sentence end
// filter, the sentence start filter and a minimum length of minTokens.
// Brackets go first so the boundary filters see the cleaned edges; length
// runs last on the fully cleaned sentence.
func AddDefaultFilters(e *extract.Extractor, minTokens int) *extract.Extractor {
	return e.AddMapper(extract.BracketsRemover{}).
		AddMapper(extract.SentenceEndFilter{}).
		AddMapper(extract.SentenceStartFilter{}).
		AddMapper(extract.MinLength(minTokens))
}

// DefaultExtractor returns an extractor carrying the default filter chain.
// Plain-text extractors are new on every call. The HTML extractor is built
// once per Builder and shared.
func (b *Builder) DefaultExtractor(html bool) (*extract.Extractor, error) {
	if html {
		return b.html.get(func() (*extract.Extractor, error) {
			return b.build(extract.NewHTML)
		})
	}
	return b.build(extract.New)
}

// NewReader binds a default extractor to src. The caller keeps ownership
// of src.
func (b *Builder) NewReader(src io.Reader, html bool) (*extract.Reader, error) {
	e, err := b.DefaultExtractor(html)
	if err != nil {
		return nil, err
	}
	return extract.NewReader(src, e), nil
}

func (b *Builder) build(newExtractor func(extract.Segmenter, ...extract.Option) *extract.Extractor) (*extract.Extractor, error) {
	seg := b.seg
	if seg == nil {
		det, err := b.reg.SentenceDetector()
		if err != nil {
			return nil, err
		}
		seg = det
	}

	e := newExtractor(seg,
		extract.WithLogger(b.reg.logger),
		extract.WithObserver(b.reg.metrics))
	AddDefaultFilters(e, b.minTokens)
	if b.maxTokens > 0 {
		e.AddMapper(extract.MaxLength(b.maxTokens))
	}
	return e, nil
}
