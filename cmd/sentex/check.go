package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-sentex/segment"
)

var _ completer = (*segment.Segmenter)(nil)

// completer reports whether text reads as one finished sentence.
type completer interface {
	IsComplete(ctx context.Context, text string) (complete bool, confidence float32, err error)
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <text>...",
		Short: "Report whether each argument is a complete sentence",
		Long: `Check asks the sentence model whether each argument ends a sentence and
prints its confidence.

Examples:
  sentex check "The meeting ran long." "because the budget"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			det, err := a.reg.SentenceDetector()
			if err != nil {
				return err
			}
			c, ok := det.(completer)
			if !ok {
				return errors.New("sentence detector cannot score completeness")
			}
			return checkCompletion(cmd.Context(), c, args, cmd.OutOrStdout())
		},
	}
}

func checkCompletion(ctx context.Context, c completer, texts []string, out io.Writer) error {
	for _, text := range texts {
		text = strings.TrimSpace(text)
		complete, confidence, err := c.IsComplete(ctx, text)
		if err != nil {
			return fmt.Errorf("check %q: %w", text, err)
		}

		status := "incomplete"
		if complete {
			status = "complete"
		}
		fmt.Fprintf(out, "%-10s %.4f  %s\n", status, confidence, text)
	}
	return nil
}
