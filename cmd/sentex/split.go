package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	sentex "github.com/jamesainslie/go-sentex"
	"github.com/jamesainslie/go-sentex/extract"
)

var ruleSegmenter extract.Segmenter = extract.RuleSegmenter{}

type namedReader struct {
	name string
	r    io.Reader
}

func newSplitCmd(a *app) *cobra.Command {
	var html, rules, verbose bool

	cmd := &cobra.Command{
		Use:   "split [file...]",
		Short: "Print the sentences that pass the filter chain",
		Long: `Split reads each file (or stdin) and prints one accepted sentence per line.

Examples:
  sentex split notes.txt
  curl -s https://example.com | sentex split --html
  sentex split --rules --verbose notes.txt   # show rejections too`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, closeAll, err := openInputs(cmd, args)
			if err != nil {
				return err
			}
			defer closeAll()

			out := bufio.NewWriter(cmd.OutOrStdout())
			defer func() { _ = out.Flush() }()

			b := a.builder(rules)
			for _, in := range inputs {
				if verbose {
					if err := printCandidates(cmd, out, b, in, html); err != nil {
						return err
					}
					continue
				}

				r, err := b.NewReader(in.r, html)
				if err != nil {
					return err
				}
				for s, err := range r.All(cmd.Context()) {
					if err != nil {
						return fmt.Errorf("%s: %w", in.name, err)
					}
					fmt.Fprintln(out, s)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&html, "html", false, "treat input as HTML")
	cmd.Flags().BoolVar(&rules, "rules", false, "use rule-based splitting instead of the sentence model")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print every candidate with its outcome")
	return cmd
}

// printCandidates prints every candidate sentence with its filter outcome.
func printCandidates(cmd *cobra.Command, out io.Writer, b *sentex.Builder, in namedReader, html bool) error {
	data, err := io.ReadAll(in.r)
	if err != nil {
		return fmt.Errorf("%s: %w", in.name, err)
	}
	e, err := b.DefaultExtractor(html)
	if err != nil {
		return err
	}
	results, err := e.Candidates(cmd.Context(), string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", in.name, err)
	}

	for _, r := range results {
		if r.Accepted {
			fmt.Fprintf(out, "+ %s\n", r.Sentence)
		} else {
			fmt.Fprintf(out, "- [%s] %s\n", r.Reason, r.Sentence)
		}
	}
	return nil
}
