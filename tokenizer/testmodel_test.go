package tokenizer

import "testing"

// testModel is a tiny unigram vocabulary laid out like XLM-RoBERTa:
// <unk>, <s>, </s> first, then normal pieces.
func testModel() *Model {
	return &Model{
		ModelType: ModelUnigram,
		Pieces: []Piece{
			{Piece: "<unk>", Score: 0, Type: PieceUnknown},
			{Piece: "<s>", Score: 0, Type: PieceControl},
			{Piece: "</s>", Score: 0, Type: PieceControl},
			{Piece: "▁", Score: -2, Type: PieceNormal},
			{Piece: "▁Hello", Score: -1, Type: PieceNormal},
			{Piece: "▁world", Score: -1.5, Type: PieceNormal},
			{Piece: ".", Score: -1, Type: PieceNormal},
			{Piece: "▁He", Score: -3, Type: PieceNormal},
			{Piece: "llo", Score: -3, Type: PieceNormal},
			{Piece: "s", Score: -4, Type: PieceNormal},
		},
	}
}

func newTestTokenizer(t *testing.T) *Tokenizer {
	t.Helper()
	tok, err := New(testModel().Marshal())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return tok
}
