package cmd

import (
	"bytes"
	"fmt"

	"github.com/a-h/templ"
	"github.com/spf13/cobra"

	"github.com/conneroisu/buttonkit/internal/stories"
	"github.com/conneroisu/buttonkit/pkg/button"
	"github.com/conneroisu/buttonkit/pkg/theme"
)

type renderOptions struct {
	text        string
	loadingText string
	loading     bool
	link        bool
	disabled    bool
	unclickable bool
	icon        bool
	appearance  button.Appearance
	size        button.Size
	wrapper     string
	id          string
	attrs       map[string]string
	story       string
	standalone  bool
}

func newRenderCmd(root *rootFlags) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one button as HTML",
		Long: `Render one button to stdout. Either describe it with flags or name a story
from the catalogue with --story.

Examples:
  buttonkit render --text Save --loading
  buttonkit render --text Go --link --attr href=/x
  buttonkit render --text Wrap --wrapper router-link --link
  buttonkit render --story primary-small --standalone > button.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.text, "text", "t", "", "Button label")
	f.StringVar(&opts.loadingText, "loading-text", "", "Loading overlay text (default \"Loading...\")")
	f.BoolVar(&opts.loading, "loading", false, "Render the loading overlay")
	f.BoolVar(&opts.link, "link", false, "Render an <a> root")
	f.BoolVar(&opts.disabled, "disabled", false, "Disable the button (ignored for links)")
	f.BoolVar(&opts.unclickable, "unclickable", false, "Block pointer events")
	f.BoolVar(&opts.icon, "icon", false, "Icon-only button styling")
	f.Var(&appearanceValue{value: &opts.appearance}, "appearance", "Appearance ("+appearanceNames()+")")
	f.Var(&sizeValue{value: &opts.size}, "size", "Size ("+sizeNames()+")")
	f.StringVar(&opts.wrapper, "wrapper", "", "Custom root element tag")
	f.StringVar(&opts.id, "id", "", "Root element id (default generated)")
	f.StringToStringVar(&opts.attrs, "attr", nil, "Pass-through attribute, repeatable (name=value)")
	f.StringVar(&opts.story, "story", "", "Render a story from the catalogue instead of flags")
	f.BoolVar(&opts.standalone, "standalone", false, "Wrap the button in an HTML page with the theme stylesheet")

	_ = cmd.RegisterFlagCompletionFunc("appearance", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		out := make([]string, 0, len(button.Appearances()))
		for _, a := range button.Appearances() {
			out = append(out, a.String())
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
	cmd.MarkFlagsMutuallyExclusive("story", "text")

	return cmd
}

func runRender(cmd *cobra.Command, root *rootFlags, opts *renderOptions) error {
	cfg, _, err := root.load(cmd, map[string]string{"stories": "stories.path"})
	if err != nil {
		return err
	}

	var props button.Props
	if opts.story != "" {
		cat, err := stories.Load(cfg.Stories.Path)
		if err != nil {
			return err
		}
		story, ok := cat.Find(opts.story)
		if !ok {
			return fmt.Errorf("story %q not found in %s", opts.story, cfg.Stories.Path)
		}
		props = story.Props()
	} else {
		props = opts.props()
	}

	var body bytes.Buffer
	if err := button.Button(props).Render(cmd.Context(), &body); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !opts.standalone {
		_, err := fmt.Fprintln(out, body.String())
		return err
	}

	css, err := theme.Stylesheet(cfg.Theme)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<style>\n%s</style>\n</head>\n<body>\n%s\n</body>\n</html>\n",
		css, body.String())
	return err
}

func (o *renderOptions) props() button.Props {
	p := button.Props{
		IsLoading:     o.loading,
		IsLink:        o.link,
		IsDisabled:    o.disabled,
		IsUnclickable: o.unclickable,
		ContainsIcon:  o.icon,
		Appearance:    o.appearance,
		Size:          o.size,
		Ref:           button.NewRef(o.id),
	}
	if o.text != "" {
		p.Children = button.Text(o.text)
	}
	if o.loadingText != "" {
		p.LoadingText = button.Text(o.loadingText)
	}
	if o.wrapper != "" {
		p.Wrapper = button.Tag(o.wrapper)
	}
	if len(o.attrs) > 0 {
		p.Attributes = make(templ.Attributes, len(o.attrs))
		for k, v := range o.attrs {
			p.Attributes[k] = v
		}
	}
	return p
}
