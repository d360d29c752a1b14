package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	kiterrors "github.com/conneroisu/buttonkit/internal/errors"
	"github.com/conneroisu/buttonkit/pkg/theme"
)

type cssOptions struct {
	outFile string
}

func newCSSCmd(root *rootFlags) *cobra.Command {
	opts := &cssOptions{}

	cmd := &cobra.Command{
		Use:   "css",
		Short: "Print the theme stylesheet",
		Long: `Print the stylesheet for every appearance, size and state class, using the
theme section of the configuration on top of the default tokens.

Examples:
  buttonkit css > button.css
  buttonkit css --out static/button.css`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.load(cmd, nil)
			if err != nil {
				return err
			}

			css, err := theme.Stylesheet(cfg.Theme)
			if err != nil {
				return err
			}

			if opts.outFile == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), css)
				return err
			}
			if err := os.WriteFile(opts.outFile, []byte(css), 0o644); err != nil {
				return kiterrors.NewIOError("ERR_WRITE_FAILED", "writing stylesheet", err).WithFile(opts.outFile)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.outFile, "out", "", "Write to a file instead of stdout")
	return cmd
}
