package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/conneroisu/buttonkit/internal/audit"
	kiterrors "github.com/conneroisu/buttonkit/internal/errors"
	"github.com/conneroisu/buttonkit/internal/stories"
)

// ErrCodeCheckFailed is returned when at least one story has violations.
const ErrCodeCheckFailed = "ERR_CHECK_FAILED"

type checkOptions struct {
	output  string
	verbose bool
}

func newCheckCmd(root *rootFlags) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [story...]",
		Short: "Render every story and audit the markup",
		Long: `Render each story and check the resulting markup: the root element matches
the render mode, the label appears exactly once, the loading region matches
the loading flag and disabled is only forwarded where it should be.

Exits non-zero when any story has an error-level violation.

Examples:
  buttonkit check
  buttonkit check loading link-disabled
  buttonkit check -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, root, opts, args)
		},
	}

	addOutputFlag(cmd, &opts.output)
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "List passed rules too")
	return cmd
}

func runCheck(cmd *cobra.Command, root *rootFlags, opts *checkOptions, names []string) error {
	if err := validateFormat(opts.output); err != nil {
		return err
	}
	cfg, logger, err := root.load(cmd, map[string]string{"stories": "stories.path"})
	if err != nil {
		return err
	}

	cat, err := stories.Load(cfg.Stories.Path)
	if err != nil {
		return err
	}

	selected := cat.Stories
	if len(names) > 0 {
		selected = make([]stories.Story, 0, len(names))
		for _, name := range names {
			s, ok := cat.Find(name)
			if !ok {
				return kiterrors.ErrNotFound("story", name)
			}
			selected = append(selected, s)
		}
	}

	auditor := audit.NewAuditor(logger)
	reports := make([]*audit.Report, 0, len(selected))
	failed := 0
	for _, s := range selected {
		report, err := auditor.AuditStory(cmd.Context(), s)
		if err != nil {
			return err
		}
		if !report.OK() {
			failed++
		}
		reports = append(reports, report)
	}

	if err := renderReports(cmd, reports, strings.ToLower(opts.output), opts.verbose); err != nil {
		return err
	}

	if failed > 0 {
		return kiterrors.NewValidationError(ErrCodeCheckFailed,
			fmt.Sprintf("%d of %d stories failed the check", failed, len(reports)))
	}
	return nil
}

func renderReports(cmd *cobra.Command, reports []*audit.Report, format string, verbose bool) error {
	out := cmd.OutOrStdout()

	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case formatYAML:
		return encodeYAML(out, reports)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STORY\tROOT\tRESULT\tSCORE")
	for _, r := range reports {
		result := "PASS"
		if !r.OK() {
			result = "FAIL"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f%%\n", r.Target, r.Root, result, r.Score())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, r := range reports {
		for _, v := range r.Violations {
			fmt.Fprintf(out, "  %s [%s] %s: %s\n", r.Target, v.Severity, v.Rule, v.Message)
		}
		if verbose {
			for _, rule := range r.Passed {
				fmt.Fprintf(out, "  %s [ok] %s\n", r.Target, rule)
			}
		}
	}
	return nil
}
