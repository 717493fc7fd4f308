package tokenizer

import "testing"

func TestParseModel_RoundTrip(t *testing.T) {
	want := testModel()

	got, err := ParseModel(want.Marshal())
	if err != nil {
		t.Fatalf("ParseModel failed: %v", err)
	}

	if len(got.Pieces) != len(want.Pieces) {
		t.Fatalf("expected %d pieces, got %d", len(want.Pieces), len(got.Pieces))
	}
	for i := range want.Pieces {
		if got.Pieces[i] != want.Pieces[i] {
			t.Errorf("piece %d: got %+v, want %+v", i, got.Pieces[i], want.Pieces[i])
		}
	}
	if got.ModelType != ModelUnigram {
		t.Errorf("expected UNIGRAM model type, got %v", got.ModelType)
	}
}

func TestParseModel_Invalid(t *testing.T) {
	bpe := testModel()
	bpe.ModelType = ModelBPE

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not protobuf", []byte("not a model")},
		{"truncated", testModel().Marshal()[:7]},
		{"no pieces", (&Model{}).Marshal()},
		{"bpe", bpe.Marshal()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseModel(tc.data); err == nil {
				t.Error("expected error")
			}
		})
	}
}
