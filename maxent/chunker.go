package maxent

import (
	"fmt"
	"strings"
)

// Chunker assigns BIO phrase-chunk labels from tokens and their POS tags.
type Chunker struct {
	model *Model
}

// DecodeChunker parses a LinearModel of kind "chunk".
func DecodeChunker(data []byte) (*Chunker, error) {
	m, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if m.Kind != KindChunk {
		return nil, fmt.Errorf("maxent: model kind %q is not %q", m.Kind, KindChunk)
	}
	return &Chunker{model: m}, nil
}

// Chunk returns one chunk label per token. tokens and tags must have the same
// length; extra entries in either are ignored.
func (c *Chunker) Chunk(tokens, tags []string) []string {
	n := min(len(tokens), len(tags))
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		best, _ := c.model.Predict(chunkFeatures(tokens[:n], tags[:n], labels, i))
		labels[i] = c.model.Labels[best]
	}
	return labels
}

func chunkFeatures(tokens, tags, labels []string, i int) []string {
	return []string{
		"bias",
		"w=" + strings.ToLower(tokens[i]),
		"t=" + tags[i],
		"pt=" + at(tags, i-1),
		"nt=" + at(tags, i+1),
		"prev=" + at(labels[:i], i-1),
	}
}
