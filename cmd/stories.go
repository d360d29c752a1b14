package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	kiterrors "github.com/conneroisu/buttonkit/internal/errors"
	"github.com/conneroisu/buttonkit/internal/stories"
	"github.com/conneroisu/buttonkit/pkg/button"
)

func newStoriesCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stories",
		Aliases: []string{"s"},
		Short:   "Work with the story catalogue",
	}
	cmd.AddCommand(newStoriesListCmd(root), newStoriesInitCmd(root))
	return cmd
}

type storiesListOptions struct {
	output string
}

func newStoriesListCmd(root *rootFlags) *cobra.Command {
	opts := &storiesListOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the stories in the catalogue",
		Long: `List every story with its resolved render mode, appearance and size.

Examples:
  buttonkit stories list
  buttonkit stories list -o json
  buttonkit stories list --stories docs/buttons.yml -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.output); err != nil {
				return err
			}
			cfg, _, err := root.load(cmd, map[string]string{"stories": "stories.path"})
			if err != nil {
				return err
			}
			cat, err := stories.Load(cfg.Stories.Path)
			if err != nil {
				return err
			}
			return renderStoryList(cmd, cat, strings.ToLower(opts.output))
		},
	}

	addOutputFlag(cmd, &opts.output)
	return cmd
}

func renderStoryList(cmd *cobra.Command, cat *stories.Catalogue, format string) error {
	out := cmd.OutOrStdout()

	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cat)
	case formatYAML:
		data, err := stories.Marshal(cat)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	if len(cat.Stories) == 0 {
		_, err := fmt.Fprintln(out, "No stories found.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODE\tAPPEARANCE\tSIZE\tFLAGS\tTEXT")
	for _, s := range cat.Stories {
		props := s.Props()
		appearance, _ := button.ParseAppearance(s.Appearance)
		size, _ := button.ParseSize(s.Size)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Name, button.SelectMode(props), appearance, size, storyFlags(s), s.Text)
	}
	return w.Flush()
}

func storyFlags(s stories.Story) string {
	var flags []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{s.Loading, "loading"},
		{s.Disabled, "disabled"},
		{s.Unclickable, "unclickable"},
		{s.Icon, "icon"},
	} {
		if f.on {
			flags = append(flags, f.name)
		}
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

type storiesInitOptions struct {
	force bool
}

func newStoriesInitCmd(root *rootFlags) *cobra.Command {
	opts := &storiesInitOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter catalogue covering every variant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.load(cmd, map[string]string{"stories": "stories.path"})
			if err != nil {
				return err
			}
			path := cfg.Stories.Path

			if _, err := os.Stat(path); err == nil && !opts.force {
				return kiterrors.NewValidationError("ERR_FILE_EXISTS",
					fmt.Sprintf("%s already exists, use --force to overwrite", path))
			}

			data, err := stories.Marshal(stories.Generate())
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return kiterrors.NewIOError("ERR_WRITE_FAILED", "writing story file", err).WithFile(path)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d stories to %s\n", len(stories.Generate().Stories), path)
			return err
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing file")
	return cmd
}
