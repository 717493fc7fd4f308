package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newClassifyCmd(a *app) *cobra.Command {
	var (
		raw  map[string]string
		list bool
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Score a feature vector with the confidence classifier",
		Long: `Classify scores the given features with the extraction-confidence model.

Examples:
  sentex classify --list
  sentex classify -f has_verb=1 -f length=12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.reg.ConfidenceClassifier()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if list {
				fmt.Fprintln(out, strings.Join(c.Features(), "\n"))
				return nil
			}

			features := make(map[string]float64, len(raw))
			for name, v := range raw {
				f, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return fmt.Errorf("feature %s: %w", name, err)
				}
				features[name] = f
			}

			p := c.Classify(features)
			fmt.Fprintf(out, "label=%v score=%.4f threshold=%.2f\n", p.Label, p.Score, c.Threshold())
			return nil
		},
	}

	cmd.Flags().StringToStringVarP(&raw, "feature", "f", nil, "feature value as name=number (repeatable)")
	cmd.Flags().BoolVar(&list, "list", false, "list the model's feature names")
	return cmd
}
