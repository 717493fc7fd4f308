package tokenizer

import "strings"

const negInf = -1e9

// EncodeIDs returns HuggingFace-compatible token IDs for the input text.
func (t *Tokenizer) EncodeIDs(text string) []int32 {
	tokens := t.Encode(text)
	ids := make([]int32, len(tokens))
	for i, tok := range tokens {
		ids[i] = tok.ID
	}
	return ids
}

// Encode tokenizes text using the Viterbi algorithm, returning tokens with byte
// offsets into text.
func (t *Tokenizer) Encode(text string) []TokenInfo {
	if text == "" {
		return nil
	}

	norm := normalize(text)
	runes := norm.runes
	n := len(runes)
	if n == 0 {
		return nil
	}

	// best[i] = best log probability to tokenize runes[0:i]
	best := make([]float64, n+1)
	// parent[i] = start position of the token ending at position i
	parent := make([]int, n+1)
	// tokenAt[i] = the token string ending at position i
	tokenAt := make([]string, n+1)

	for i := 1; i <= n; i++ {
		best[i] = negInf
		parent[i] = -1
	}

	for i := 1; i <= n; i++ {
		maxLen := t.maxTokenLen
		if maxLen > i {
			maxLen = i
		}

		for length := 1; length <= maxLen; length++ {
			j := i - length
			substr := string(runes[j:i])

			score, exists := t.scores[substr]
			if !exists {
				continue
			}

			candidate := best[j] + float64(score)
			if candidate > best[i] {
				best[i] = candidate
				parent[i] = j
				tokenAt[i] = substr
			}
		}

		// No piece covers this rune: emit it as <unk>.
		if best[i] == negInf {
			best[i] = best[i-1] + float64(t.unkScore)
			parent[i] = i - 1
			tokenAt[i] = string(runes[i-1 : i])
		}
	}

	var tokens []TokenInfo
	pos := n
	for pos > 0 {
		start := parent[pos]
		tokenStr := tokenAt[pos]

		hfID := t.unkID
		if spIndex, ok := t.pieces[tokenStr]; ok {
			hfID = t.spIndexToHFID(spIndex)
		}

		tokens = append(tokens, TokenInfo{
			ID:    hfID,
			Text:  tokenStr,
			Start: norm.starts[start],
			End:   norm.ends[pos-1],
		})
		pos = start
	}

	for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}

	return tokens
}

// Words groups pieces into whitespace-delimited words of the original text.
// A piece starting with ▁ opens a new word.
func (t *Tokenizer) Words(text string) []string {
	tokens := t.Encode(text)
	if len(tokens) == 0 {
		return nil
	}

	var words []string
	start, end := tokens[0].Start, tokens[0].End
	for _, tok := range tokens[1:] {
		if strings.HasPrefix(tok.Text, string(sentencePieceSpace)) {
			if w := strings.TrimSpace(text[start:end]); w != "" {
				words = append(words, w)
			}
			start = tok.Start
		}
		end = tok.End
	}
	if w := strings.TrimSpace(text[start:end]); w != "" {
		words = append(words, w)
	}
	return words
}
