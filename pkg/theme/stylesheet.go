package theme

import (
	"fmt"
	"strings"

	"github.com/conneroisu/buttonkit/pkg/button"
)

type appearanceRule struct {
	background string
	color      string
	shadow     string
	hover      string
	hoverColor string
	hoverShade string
}

// Stylesheet renders the CSS for every class pkg/button emits. Zero-valued
// tokens in t are filled from Default.
func Stylesheet(t Theme) (string, error) {
	t = t.Merge(Default())

	rules, err := appearanceRules(t)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	sel := func(classes ...string) string {
		return "." + strings.Join(classes, " .")
	}
	rule := func(selector string, decls ...string) {
		fmt.Fprintf(&b, "%s{%s}\n", selector, strings.Join(decls, ";"))
	}

	rule(sel(button.ClassBase),
		"position:relative",
		"display:inline-block",
		"overflow:hidden",
		"border:0",
		"border-radius:3em",
		"cursor:pointer",
		"font-family:"+t.Type.FontFamily,
		fmt.Sprintf("font-weight:%d", t.Type.WeightExtraBold),
		"line-height:1",
		"text-align:center",
		"text-decoration:none",
		"white-space:nowrap",
		"transition:all 150ms ease-out",
		"transform:translate3d(0,0,0)",
		"vertical-align:top",
		"user-select:none",
	)
	rule(sel(button.ClassBase)+":hover", "transform:translate3d(0,-2px,0)")
	rule(sel(button.ClassBase)+":active", "transform:translate3d(0,0,0)")
	rule(sel(button.ClassBase, button.ClassText)+","+sel(button.ClassBase, button.ClassLoading),
		"transition:transform 700ms "+t.Easing.Rubber)

	for _, a := range button.Appearances() {
		r := rules[a]
		cls := "." + button.AppearanceClass(a)
		decls := []string{"background:" + r.background, "color:" + r.color}
		if r.shadow != "" {
			decls = append(decls, "box-shadow:"+r.shadow)
		}
		rule(cls, decls...)

		hover := []string{"background:" + r.hover}
		if r.hoverColor != "" {
			hover = append(hover, "color:"+r.hoverColor)
		}
		if r.hoverShade != "" {
			hover = append(hover, "box-shadow:"+r.hoverShade)
		}
		rule(cls+":hover", hover...)
	}

	rule("."+button.SizeClass(button.SizeSmall),
		fmt.Sprintf("font-size:%dpx", t.Type.SizeS1),
		"padding:8px 16px")
	rule("."+button.SizeClass(button.SizeMedium),
		fmt.Sprintf("font-size:%dpx", t.Type.SizeS2),
		"padding:13px 20px")

	rule("."+button.ClassIcon, "padding:12px")
	rule("."+button.ClassIcon+"."+button.SizeClass(button.SizeSmall), "padding:8px")
	rule("."+button.ClassIcon+" svg",
		"display:block",
		"height:14px",
		"width:14px",
		"margin:0")

	rule("."+button.ClassDisabled, "cursor:not-allowed !important", "opacity:0.5")
	rule("."+button.ClassDisabled+":hover", "transform:none")

	rule("."+button.ClassUnclickable, "cursor:default !important", "pointer-events:none")
	rule("."+button.ClassUnclickable+":hover", "transform:none")

	rule("."+button.ClassLoadingState, "cursor:progress !important", "opacity:0.7")
	rule("."+button.ClassLoadingState+":hover", "transform:none")
	rule(sel(button.ClassLoadingState, button.ClassText),
		"transform:scale3d(0,0,1) translate3d(0,-100%,0)",
		"opacity:0")
	rule(sel(button.ClassLoadingState, button.ClassLoading),
		"opacity:1 !important",
		"transform:translate3d(0,-50%,0)")

	return b.String(), nil
}

func appearanceRules(t Theme) (map[button.Appearance]appearanceRule, error) {
	c := t.Color

	primaryHover, err := Darken(c.Primary, 0.05)
	if err != nil {
		return nil, err
	}
	secondaryHover, err := Darken(c.Secondary, 0.05)
	if err != nil {
		return nil, err
	}
	tertiaryHover, err := Darken(c.Tertiary, 0.05)
	if err != nil {
		return nil, err
	}
	outlineShadow, err := RGBA(c.Darkest, 0.15)
	if err != nil {
		return nil, err
	}
	outlineHoverShadow, err := RGBA(c.Darkest, 0.3)
	if err != nil {
		return nil, err
	}

	inset := func(color string) string {
		return c.Lightest + " 0 0 0 0 inset," + color + " 0 0 0 1px inset"
	}

	return map[button.Appearance]appearanceRule{
		button.AppearancePrimary: {
			background: c.Primary,
			color:      c.Lightest,
			hover:      primaryHover,
		},
		button.AppearancePrimaryOutline: {
			background: "transparent",
			color:      c.Primary,
			shadow:     inset(c.Primary),
			hover:      c.Primary,
			hoverColor: c.Lightest,
		},
		button.AppearanceSecondary: {
			background: c.Secondary,
			color:      c.Lightest,
			hover:      secondaryHover,
		},
		button.AppearanceSecondaryOutline: {
			background: "transparent",
			color:      c.Secondary,
			shadow:     inset(c.Secondary),
			hover:      c.Secondary,
			hoverColor: c.Lightest,
		},
		button.AppearanceTertiary: {
			background: c.Tertiary,
			color:      c.Darkest,
			hover:      tertiaryHover,
		},
		button.AppearanceOutline: {
			background: "transparent",
			color:      c.Darkest,
			shadow:     inset(outlineShadow),
			hover:      "transparent",
			hoverShade: inset(outlineHoverShadow),
		},
	}, nil
}
