package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newTagCmd(a *app) *cobra.Command {
	var html, rules bool

	cmd := &cobra.Command{
		Use:   "tag [file...]",
		Short: "Print accepted sentences as word/TAG/CHUNK triples",
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := a.reg.Tokenizer()
			if err != nil {
				return err
			}
			tagger, err := a.reg.POSTagger()
			if err != nil {
				return err
			}
			chunker, err := a.reg.Chunker()
			if err != nil {
				return err
			}

			inputs, closeAll, err := openInputs(cmd, args)
			if err != nil {
				return err
			}
			defer closeAll()

			out := bufio.NewWriter(cmd.OutOrStdout())
			defer func() { _ = out.Flush() }()

			b := a.builder(rules)
			for _, in := range inputs {
				r, err := b.NewReader(in.r, html)
				if err != nil {
					return err
				}
				for s, err := range r.All(cmd.Context()) {
					if err != nil {
						return fmt.Errorf("%s: %w", in.name, err)
					}

					words := tok.Words(s)
					tags := tagger.Tag(words)
					chunks := chunker.Chunk(words, tags)

					parts := make([]string, len(words))
					for i, w := range words {
						parts[i] = w + "/" + tags[i] + "/" + chunks[i]
					}
					fmt.Fprintln(out, strings.Join(parts, " "))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&html, "html", false, "treat input as HTML")
	cmd.Flags().BoolVar(&rules, "rules", false, "use rule-based splitting instead of the sentence model")
	return cmd
}
