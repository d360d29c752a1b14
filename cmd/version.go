package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/buttonkit/internal/version"
)

type versionOptions struct {
	format   string
	short    bool
	detailed bool
}

func newVersionCmd() *cobra.Command {
	opts := &versionOptions{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display the buttonkit version, commit, build time, Go version and platform.

Examples:
  buttonkit version
  buttonkit version --detailed
  buttonkit version --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format (text, json, yaml)")
	cmd.Flags().BoolVar(&opts.short, "short", false, "Show short version only")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "Show detailed version information")
	cmd.MarkFlagsMutuallyExclusive("short", "detailed")

	return cmd
}

func runVersion(out io.Writer, opts *versionOptions) error {
	info := version.Get()

	switch opts.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "yaml":
		return encodeYAML(out, info)
	case "text":
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", opts.format)
	}

	var err error
	switch {
	case opts.short:
		_, err = fmt.Fprintln(out, info.Short())
	case opts.detailed:
		build := "development"
		if info.IsRelease() {
			build = "release"
		}
		_, err = fmt.Fprintf(out, "%s\nBuild type: %s\n", info.Detailed(), build)
	default:
		_, err = fmt.Fprintf(out, "buttonkit %s\nGo: %s\nPlatform: %s\n", info.Short(), info.GoVersion, info.Platform)
	}
	return err
}

func encodeYAML(out io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
