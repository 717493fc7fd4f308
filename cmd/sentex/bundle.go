package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-sentex/resource"
)

func newBundleCmd(a *app) *cobra.Command {
	var includes, excludes []string

	cmd := &cobra.Command{
		Use:   "bundle <model-dir> <bundle-file>",
		Short: "Pack model files into a single bundle",
		Long: `Bundle copies model files into one bbolt file that can be passed with --bundle.
Names inside the bundle are paths relative to model-dir.

Examples:
  sentex bundle models/ models.db
  sentex bundle --include '**/*.bin' --exclude 'old/**' models/ models.db`,
		Args: cobra.ExactArgs(2),
		// Writing a bundle needs no registry.
		PersistentPreRunE: a.loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, path := args[0], args[1]

			names, err := resource.Collect(root, includes, excludes)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				return fmt.Errorf("no files matched in %s", root)
			}

			bar := progressbar.NewOptions(len(names),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Bundling[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)

			err = resource.WriteBundle(path, root, names, func(done, total int, name string) {
				_ = bar.Set(done)
				a.logger.Debug("bundled model", "name", name)
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Bundled %d files into %s\n", len(names), path)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&includes, "include", nil, "glob of files to include (default all)")
	cmd.Flags().StringSliceVar(&excludes, "exclude", nil, "glob of files to exclude")
	return cmd
}
