// Package tokenizer implements SentencePiece unigram tokenization for the
// model-backed sentence detector and the word-level tools that follow it.
package tokenizer

import "fmt"

// Tokenizer implements XLM-RoBERTa compatible SentencePiece Unigram tokenization.
// It is immutable after construction and safe for concurrent use.
//
// Token IDs are remapped from SentencePiece indices to match the HuggingFace
// XLM-RoBERTa convention:
//   - HF[0] = <s>   (SP[1])
//   - HF[1] = <pad> (not in SentencePiece)
//   - HF[2] = </s>  (SP[2])
//   - HF[3] = <unk> (SP[0])
//   - HF[n+1] = SP[n] for n >= 3
type Tokenizer struct {
	pieces    map[string]int32   // matchable piece -> SentencePiece index
	scores    map[string]float32 // matchable piece -> log probability
	idToPiece []string

	unkScore float32
	unkID    int32

	maxTokenLen int
}

// TokenInfo represents a token with its position in the original text.
type TokenInfo struct {
	ID    int32
	Text  string
	Start int // byte offset in original text
	End   int // byte offset in original text
}

// New decodes a serialized SentencePiece model into a Tokenizer.
func New(data []byte) (*Tokenizer, error) {
	model, err := ParseModel(data)
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}
	return FromModel(model), nil
}

// FromModel builds a Tokenizer from an already decoded model.
func FromModel(model *Model) *Tokenizer {
	t := &Tokenizer{
		pieces:    make(map[string]int32, len(model.Pieces)),
		scores:    make(map[string]float32, len(model.Pieces)),
		idToPiece: make([]string, len(model.Pieces)),
		unkID:     3,
	}

	for i, piece := range model.Pieces {
		t.idToPiece[i] = piece.Piece

		switch piece.Type {
		case PieceUnknown:
			t.unkScore = piece.Score
			continue
		case PieceControl, PieceUnused:
			// never matched against input text
			continue
		}

		t.pieces[piece.Piece] = int32(i)
		t.scores[piece.Piece] = piece.Score

		if n := len([]rune(piece.Piece)); n > t.maxTokenLen {
			t.maxTokenLen = n
		}
	}

	// Penalise <unk> so any known piece is preferred over it.
	if t.unkScore == 0 {
		t.unkScore = -100
	}

	return t
}

// spIndexToHFID converts a SentencePiece index to a HuggingFace XLM-RoBERTa token ID.
func (t *Tokenizer) spIndexToHFID(spIndex int32) int32 {
	switch spIndex {
	case 0: // <unk>
		return 3
	case 1: // <s>
		return 0
	case 2: // </s>
		return 2
	default:
		return spIndex + 1
	}
}
