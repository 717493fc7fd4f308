package extract

import (
	"bufio"
	"context"
	"errors"
	"io"
	"iter"
)

// Reader pulls accepted sentences from a source one at a time.
//
// The source is read lazily: plain text one paragraph per refill, HTML as a
// whole document on first use. A Reader is not safe for concurrent use and
// cannot be restarted; it never closes its source.
type Reader struct {
	src     io.Reader
	ext     *Extractor
	scanner *bufio.Scanner
	blocks  []string
	loaded  bool
	pending []string
	err     error
}

// NewReader binds ext to src.
func NewReader(src io.Reader, ext *Extractor) *Reader {
	r := &Reader{src: src, ext: ext}
	if !ext.IsHTML() {
		r.scanner = newParagraphScanner(src)
	}
	return r
}

// Extractor returns the extractor the reader was built with.
func (r *Reader) Extractor() *Extractor {
	return r.ext
}

// Next returns the next accepted sentence. It returns io.EOF once the
// source is exhausted. Errors from the source are returned unchanged, and
// every later call returns the same error.
func (r *Reader) Next(ctx context.Context) (string, error) {
	for len(r.pending) == 0 {
		if r.err != nil {
			return "", r.err
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		block, err := r.nextBlock()
		if err != nil {
			r.err = err
			continue
		}

		results, err := r.ext.block(ctx, block)
		if err != nil {
			r.err = err
			continue
		}
		r.pending = accepted(results)
	}

	s := r.pending[0]
	r.pending = r.pending[1:]
	return s, nil
}

// All returns an iterator over the remaining sentences. Iteration stops at
// io.EOF; any other error is yielded once as the final element.
func (r *Reader) All(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			s, err := r.Next(ctx)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield("", err)
				return
			}
			if !yield(s, nil) {
				return
			}
		}
	}
}

func (r *Reader) nextBlock() (string, error) {
	if r.scanner != nil {
		if r.scanner.Scan() {
			return r.scanner.Text(), nil
		}
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	if !r.loaded {
		blocks, err := htmlBlocks(r.src)
		if err != nil {
			return "", err
		}
		r.blocks = blocks
		r.loaded = true
	}
	if len(r.blocks) == 0 {
		return "", io.EOF
	}
	b := r.blocks[0]
	r.blocks = r.blocks[1:]
	return b, nil
}
