package tokenizer

import (
	"unicode"
	"unicode/utf8"
)

const sentencePieceSpace = '▁' // U+2581 LOWER ONE EIGHTH BLOCK

// normalized is text prepared for the unigram lattice, with a mapping from each
// normalized rune back to byte offsets in the original input.
type normalized struct {
	runes  []rune
	starts []int // byte offset where runes[i] begins in the original text
	ends   []int // byte offset just past runes[i] in the original text
}

// normalize prepares text for tokenization following XLM-RoBERTa conventions:
// a dummy ▁ prefix, whitespace runs collapsed to a single ▁ and trailing
// whitespace dropped.
func normalize(text string) normalized {
	var out normalized
	needSpace := true
	spaceStart := 0

	for i, r := range text {
		if unicode.IsSpace(r) {
			if !needSpace {
				needSpace = true
				spaceStart = i
			}
			continue
		}
		if needSpace {
			out.runes = append(out.runes, sentencePieceSpace)
			out.starts = append(out.starts, spaceStart)
			out.ends = append(out.ends, i)
			needSpace = false
		}
		out.runes = append(out.runes, r)
		out.starts = append(out.starts, i)
		out.ends = append(out.ends, i+utf8.RuneLen(r))
	}

	return out
}

func (n normalized) String() string {
	return string(n.runes)
}
