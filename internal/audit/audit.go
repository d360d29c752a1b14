package audit

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	kiterrors "github.com/conneroisu/buttonkit/internal/errors"
	"github.com/conneroisu/buttonkit/internal/logging"
	"github.com/conneroisu/buttonkit/internal/stories"
	"github.com/conneroisu/buttonkit/pkg/button"
)

// Expectation is what a correct render of one set of props looks like.
// It is derived from the inputs, never from the rendered output.
type Expectation struct {
	Tag         string
	Mode        button.Mode
	ID          string
	Text        string
	Loading     bool
	LoadingText string
	Disabled    bool
	Appearance  button.Appearance
	Size        button.Size
}

// ExpectationFor derives the expectation for a story.
func ExpectationFor(s stories.Story) (Expectation, error) {
	appearance, err := button.ParseAppearance(s.Appearance)
	if err != nil {
		return Expectation{}, err
	}
	size, err := button.ParseSize(s.Size)
	if err != nil {
		return Expectation{}, err
	}

	exp := Expectation{
		ID:          s.ID(),
		Text:        s.Text,
		Loading:     s.Loading,
		LoadingText: s.LoadingText,
		Appearance:  appearance,
		Size:        size,
	}
	if exp.LoadingText == "" {
		exp.LoadingText = button.DefaultLoadingText
	}
	if id, ok := s.Attributes["id"]; ok {
		exp.ID = id
	}

	switch {
	case s.Wrapper != "":
		exp.Tag, exp.Mode, exp.Disabled = s.Wrapper, button.ModeWrapper, s.Disabled
	case s.Link:
		exp.Tag, exp.Mode = "a", button.ModeLink
	default:
		exp.Tag, exp.Mode, exp.Disabled = "button", button.ModeButton, s.Disabled
	}
	return exp, nil
}

// Auditor checks rendered markup.
type Auditor struct {
	logger logging.Logger
	rules  []Rule
}

// NewAuditor creates an auditor with every rule enabled.
func NewAuditor(logger logging.Logger) *Auditor {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Auditor{
		logger: logger.WithComponent("audit"),
		rules:  DefaultRules(),
	}
}

// DefaultRules lists the checks in the order they run.
func DefaultRules() []Rule {
	return []Rule{
		{RuleSingleRoot, "Markup has exactly one root element", SeverityError},
		{RuleRootElement, "Root element matches the selected mode", SeverityError},
		{RuleRootID, "Root element carries the forwarded reference id", SeverityError},
		{RuleChildrenOnce, "Children render exactly once inside the text region", SeverityError},
		{RuleLoadingRegion, "Loading region is present only while loading and shows the loading text", SeverityError},
		{RuleDisabled, "Disabled is forwarded in button and wrapper mode only", SeverityError},
		{RuleStyleClasses, "Root carries the base, appearance and size classes", SeverityError},
		{RuleTextLayout, "Text region keeps its inline layout", SeverityWarning},
	}
}

// Rules returns the active rules.
func (a *Auditor) Rules() []Rule {
	out := make([]Rule, len(a.rules))
	copy(out, a.rules)
	return out
}

// AuditStory renders the story and audits the result.
func (a *Auditor) AuditStory(ctx context.Context, s stories.Story) (*Report, error) {
	exp, err := ExpectationFor(s)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := button.Button(s.Props()).Render(ctx, &buf); err != nil {
		return nil, kiterrors.NewRenderError(kiterrors.ErrCodeRenderFailed, "rendering story", err).
			WithComponent("audit").
			WithContext("story", s.Name)
	}

	report, err := a.Audit(ctx, buf.String(), exp)
	if err != nil {
		return nil, err
	}
	report.Target = s.Name
	return report, nil
}

// Audit parses markup and checks it against exp.
func (a *Auditor) Audit(ctx context.Context, markup string, exp Expectation) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil, kiterrors.NewValidationError(kiterrors.ErrCodeParseFailed, "parsing markup").
			WithComponent("audit").
			WithCause(err)
	}

	report := &Report{
		Violations: []Violation{},
		Passed:     []string{},
		Timestamp:  start,
	}

	var roots []*html.Node
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			roots = append(roots, n)
		}
	}

	var root *html.Node
	if len(roots) > 0 {
		root = roots[0]
		report.Root = root.Data
	}

	for _, rule := range a.rules {
		var msgs []string
		if root == nil {
			msgs = []string{"no root element rendered"}
		} else {
			msgs = check(rule.ID, root, roots, exp)
		}

		if len(msgs) == 0 {
			report.Passed = append(report.Passed, rule.ID)
			continue
		}
		for _, msg := range msgs {
			report.Violations = append(report.Violations, Violation{
				Rule:     rule.ID,
				Severity: rule.Severity,
				Element:  report.Root,
				Message:  msg,
			})
		}
	}

	report.Duration = time.Since(start)
	a.logger.Debug(ctx, "Button audit completed",
		"root", report.Root,
		"violations", len(report.Violations),
		"passed_rules", len(report.Passed),
		"duration", report.Duration)

	return report, nil
}

func check(rule string, root *html.Node, roots []*html.Node, exp Expectation) []string {
	switch rule {
	case RuleSingleRoot:
		if len(roots) != 1 {
			return []string{fmt.Sprintf("expected one root element, found %d", len(roots))}
		}
	case RuleRootElement:
		// The parser lowercases element names; wrapper tags may not be.
		if !strings.EqualFold(root.Data, exp.Tag) {
			return []string{fmt.Sprintf("root is <%s>, want <%s> for %s mode", root.Data, exp.Tag, exp.Mode)}
		}
	case RuleRootID:
		if exp.ID == "" {
			return nil
		}
		if id, _ := attr(root, "id"); id != exp.ID {
			return []string{fmt.Sprintf("root id is %q, want %q", id, exp.ID)}
		}
	case RuleChildrenOnce:
		return checkChildren(root, exp)
	case RuleLoadingRegion:
		return checkLoading(root, exp)
	case RuleDisabled:
		return checkDisabled(root, exp)
	case RuleStyleClasses:
		var msgs []string
		for _, class := range []string{
			button.ClassBase,
			button.AppearanceClass(exp.Appearance),
			button.SizeClass(exp.Size),
		} {
			if !hasClass(root, class) {
				msgs = append(msgs, "root is missing class "+class)
			}
		}
		if exp.Loading != hasClass(root, button.ClassLoadingState) {
			msgs = append(msgs, fmt.Sprintf("class %s present=%t, want %t",
				button.ClassLoadingState, !exp.Loading, exp.Loading))
		}
		return msgs
	case RuleTextLayout:
		for _, n := range findByClass(root, button.ClassText) {
			if style, _ := attr(n, "style"); style != button.TextLayout {
				return []string{fmt.Sprintf("text region style is %q", style)}
			}
		}
	}
	return nil
}

func checkChildren(root *html.Node, exp Expectation) []string {
	regions := findByClass(root, button.ClassText)
	if len(regions) != 1 {
		return []string{fmt.Sprintf("found %d text regions, want 1", len(regions))}
	}
	if got := textOf(regions[0]); got != exp.Text {
		return []string{fmt.Sprintf("text region holds %q, want %q", got, exp.Text)}
	}
	return nil
}

func checkLoading(root *html.Node, exp Expectation) []string {
	regions := findByClass(root, button.ClassLoading)
	if !exp.Loading {
		if len(regions) > 0 {
			return []string{"loading region rendered while not loading"}
		}
		return nil
	}
	if len(regions) != 1 {
		return []string{fmt.Sprintf("found %d loading regions, want 1", len(regions))}
	}
	if got := textOf(regions[0]); got != exp.LoadingText {
		return []string{fmt.Sprintf("loading region holds %q, want %q", got, exp.LoadingText)}
	}
	return nil
}

func checkDisabled(root *html.Node, exp Expectation) []string {
	var msgs []string
	_, hasAttr := attr(root, "disabled")
	hasStyle := hasClass(root, button.ClassDisabled)

	if hasAttr != exp.Disabled {
		msgs = append(msgs, fmt.Sprintf("disabled attribute present=%t, want %t in %s mode",
			hasAttr, exp.Disabled, exp.Mode))
	}
	if hasStyle != exp.Disabled {
		msgs = append(msgs, fmt.Sprintf("class %s present=%t, want %t in %s mode",
			button.ClassDisabled, hasStyle, exp.Disabled, exp.Mode))
	}
	return msgs
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, _ := attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func findByClass(root *html.Node, class string) []*html.Node {
	var out []*html.Node
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, class) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(root)
	return out
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(n)
	return sb.String()
}
