package extract

import (
	"context"
	"reflect"
	"testing"
)

func TestRuleSegmenter(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace", "  \n\t ", nil},
		{"single", "Hello world.", []string{"Hello world."}},
		{"multiple", "First one. Second one? Third one!", []string{"First one.", "Second one?", "Third one!"}},
		{"abbreviation", "Dr. Smith arrived. He sat down.", []string{"Dr. Smith arrived.", "He sat down."}},
		{"inner dots", "Pi is 3.14 roughly. See example.com today.", []string{"Pi is 3.14 roughly.", "See example.com today."}},
		{"ellipsis", "Wait... What happened?", []string{"Wait...", "What happened?"}},
		{"closing quote", `He said "stop." Then he left.`, []string{`He said "stop."`, "Then he left."}},
		{"newlines collapse", "Line one\ncontinues here. Next.", []string{"Line one continues here.", "Next."}},
		{"trailing fragment", "Done. And then", []string{"Done.", "And then"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RuleSegmenter{}.Segment(context.Background(), tt.in)
			if err != nil {
				t.Fatalf("Segment failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Segment(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRuleSegmenter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := (RuleSegmenter{}).Segment(ctx, "Hello."); err == nil {
		t.Error("expected error for cancelled context")
	}
}
