package extract

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Segmenter splits a block of text into candidate sentences.
type Segmenter interface {
	Segment(ctx context.Context, text string) ([]string, error)
}

// Common abbreviations that shouldn't end sentences
var abbreviations = regexp.MustCompile(`(?i)\b(Mr|Mrs|Ms|Dr|Prof|Sr|Jr|St|vs|etc|i\.e|e\.g|U\.S|U\.K)\.$`)

// RuleSegmenter splits at sentence-ending punctuation followed by
// whitespace, keeping trailing closing quotes and skipping common
// abbreviations. It needs no model.
type RuleSegmenter struct{}

// Segment implements Segmenter.
func (RuleSegmenter) Segment(ctx context.Context, text string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return splitSentences(text), nil
}

func splitSentences(text string) []string {
	text = collapseSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0

	for i := 0; i < len(text); i++ {
		if !isTerminal(text[i]) {
			continue
		}

		end := i + 1
		for end < len(text) && isTerminal(text[end]) {
			end++
		}
		last := end - 1
		for end < len(text) {
			r, size := utf8.DecodeRuneInString(text[end:])
			if !isClosing(r) {
				break
			}
			end += size
		}

		// Mid-token punctuation such as 3.14 or example.com
		if end < len(text) && text[end] != ' ' {
			i = end - 1
			continue
		}

		if text[last] == '.' && abbreviations.MatchString(text[start:last+1]) {
			i = end - 1
			continue
		}

		if s := strings.TrimSpace(text[start:end]); s != "" {
			sentences = append(sentences, s)
		}
		start = end
		i = end - 1
	}

	if rest := strings.TrimSpace(text[start:]); rest != "" {
		sentences = append(sentences, rest)
	}

	return sentences
}

func isTerminal(b byte) bool {
	return b == '.' || b == '?' || b == '!'
}

func isClosing(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '”', '’':
		return true
	}
	return false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
