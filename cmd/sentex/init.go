package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	sentex "github.com/jamesainslie/go-sentex"
)

func newInitCmd(a *app) *cobra.Command {
	var withClassifier bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Load every model and report which ones are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.reg.InitializeAll()
			if withClassifier {
				_, cerr := a.reg.ConfidenceClassifier()
				err = errors.Join(err, cerr)
			}

			out := cmd.OutOrStdout()
			for _, t := range sentex.Tools {
				status := "not loaded"
				if a.reg.Loaded(t) {
					status = "loaded"
				}
				fmt.Fprintf(out, "%-22s %-20s %s\n", t, a.reg.ResourceName(t), status)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&withClassifier, "classifier", false, "also load the confidence classifier")
	return cmd
}
