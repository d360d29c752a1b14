package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/conneroisu/buttonkit/pkg/button"
)

// appearanceValue is a pflag.Value that only accepts known appearances.
type appearanceValue struct {
	value *button.Appearance
}

var _ pflag.Value = (*appearanceValue)(nil)

func (a *appearanceValue) String() string {
	if a.value == nil {
		return ""
	}
	return string(*a.value)
}

func (a *appearanceValue) Set(s string) error {
	parsed, err := button.ParseAppearance(s)
	if err != nil {
		return err
	}
	*a.value = parsed
	return nil
}

func (a *appearanceValue) Type() string {
	return "appearance"
}

// sizeValue is a pflag.Value that only accepts known sizes.
type sizeValue struct {
	value *button.Size
}

var _ pflag.Value = (*sizeValue)(nil)

func (s *sizeValue) String() string {
	if s.value == nil {
		return ""
	}
	return string(*s.value)
}

func (s *sizeValue) Set(v string) error {
	parsed, err := button.ParseSize(v)
	if err != nil {
		return err
	}
	*s.value = parsed
	return nil
}

func (s *sizeValue) Type() string {
	return "size"
}

func appearanceNames() string {
	names := make([]string, 0, len(button.Appearances()))
	for _, a := range button.Appearances() {
		names = append(names, a.String())
	}
	return strings.Join(names, ", ")
}

func sizeNames() string {
	names := make([]string, 0, len(button.Sizes()))
	for _, s := range button.Sizes() {
		names = append(names, s.String())
	}
	return strings.Join(names, ", ")
}

// Output formats accepted by --output.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var outputFormats = []string{formatTable, formatJSON, formatYAML}

func addOutputFlag(cmd *cobra.Command, dst *string) {
	cmd.Flags().StringVarP(dst, "output", "o", formatTable,
		"Output format ("+strings.Join(outputFormats, "|")+")")
	_ = cmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return outputFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

// validateFormat checks format against the allowed list, suggesting the
// closest match on a typo.
func validateFormat(format string) error {
	for _, f := range outputFormats {
		if strings.EqualFold(f, format) {
			return nil
		}
	}

	best, bestDist := "", 3
	for _, f := range outputFormats {
		if d := levenshtein(strings.ToLower(format), f); d < bestDist {
			best, bestDist = f, d
		}
	}
	if best != "" {
		return fmt.Errorf("invalid output format %q, did you mean %q?", format, best)
	}
	return fmt.Errorf("invalid output format %q, must be one of: %s", format, strings.Join(outputFormats, ", "))
}

func levenshtein(a, b string) int {
	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur := make([]int, len(b)+1)
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev = cur
	}
	return prev[len(b)]
}
