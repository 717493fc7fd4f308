package maxent

import (
	"fmt"
	"strings"
)

// Tagger assigns part-of-speech tags with a greedy left-to-right decoder.
type Tagger struct {
	model *Model
}

// DecodeTagger parses a LinearModel of kind "pos".
func DecodeTagger(data []byte) (*Tagger, error) {
	m, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if m.Kind != KindPOS {
		return nil, fmt.Errorf("maxent: model kind %q is not %q", m.Kind, KindPOS)
	}
	return &Tagger{model: m}, nil
}

// Tags returns the tag set.
func (t *Tagger) Tags() []string {
	return t.model.Labels
}

// Tag returns one tag per token.
func (t *Tagger) Tag(tokens []string) []string {
	tags := make([]string, len(tokens))
	for i := range tokens {
		best, _ := t.model.Predict(posFeatures(tokens, tags, i))
		tags[i] = t.model.Labels[best]
	}
	return tags
}

// posFeatures builds the context features for tokens[i]; tags holds the
// decisions already made for positions before i.
func posFeatures(tokens, tags []string, i int) []string {
	w := tokens[i]
	lw := strings.ToLower(w)
	return []string{
		"bias",
		"w=" + lw,
		"suf3=" + suffix(lw, 3),
		"shape=" + shape(w),
		"prev=" + at(tags[:i], i-1),
		"pw=" + strings.ToLower(at(tokens, i-1)),
		"nw=" + strings.ToLower(at(tokens, i+1)),
	}
}
