// Package theme holds the design tokens and generates the stylesheet for
// every class pkg/button can emit.
package theme

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds the colour tokens, as hex strings.
type Palette struct {
	Primary    string `mapstructure:"primary" yaml:"primary" json:"primary" validate:"omitempty,hexcolor"`
	Secondary  string `mapstructure:"secondary" yaml:"secondary" json:"secondary" validate:"omitempty,hexcolor"`
	Tertiary   string `mapstructure:"tertiary" yaml:"tertiary" json:"tertiary" validate:"omitempty,hexcolor"`
	Lightest   string `mapstructure:"lightest" yaml:"lightest" json:"lightest" validate:"omitempty,hexcolor"`
	Medium     string `mapstructure:"medium" yaml:"medium" json:"medium" validate:"omitempty,hexcolor"`
	MediumDark string `mapstructure:"mediumdark" yaml:"mediumdark" json:"mediumdark" validate:"omitempty,hexcolor"`
	Darker     string `mapstructure:"darker" yaml:"darker" json:"darker" validate:"omitempty,hexcolor"`
	Darkest    string `mapstructure:"darkest" yaml:"darkest" json:"darkest" validate:"omitempty,hexcolor"`
}

// Typography holds font tokens. Sizes are pixels.
type Typography struct {
	FontFamily      string `mapstructure:"font_family" yaml:"font_family" json:"font_family"`
	WeightBold      int    `mapstructure:"weight_bold" yaml:"weight_bold" json:"weight_bold" validate:"omitempty,min=100,max=900"`
	WeightExtraBold int    `mapstructure:"weight_extrabold" yaml:"weight_extrabold" json:"weight_extrabold" validate:"omitempty,min=100,max=900"`
	SizeS1          int    `mapstructure:"size_s1" yaml:"size_s1" json:"size_s1" validate:"omitempty,min=1"`
	SizeS2          int    `mapstructure:"size_s2" yaml:"size_s2" json:"size_s2" validate:"omitempty,min=1"`
}

// Easing holds timing-function tokens. Decorative only.
type Easing struct {
	Rubber string `mapstructure:"rubber" yaml:"rubber" json:"rubber"`
}

// Theme is the full token set.
type Theme struct {
	Color  Palette    `mapstructure:"color" yaml:"color" json:"color"`
	Type   Typography `mapstructure:"typography" yaml:"typography" json:"typography"`
	Easing Easing     `mapstructure:"easing" yaml:"easing" json:"easing"`
}

// Default returns the stock design-system tokens.
func Default() Theme {
	return Theme{
		Color: Palette{
			Primary:    "#FF4785",
			Secondary:  "#1EA7FD",
			Tertiary:   "#DDDDDD",
			Lightest:   "#FFFFFF",
			Medium:     "#DDDDDD",
			MediumDark: "#999999",
			Darker:     "#666666",
			Darkest:    "#333333",
		},
		Type: Typography{
			FontFamily:      `"Nunito Sans", "Helvetica Neue", Helvetica, Arial, sans-serif`,
			WeightBold:      700,
			WeightExtraBold: 800,
			SizeS1:          12,
			SizeS2:          14,
		},
		Easing: Easing{
			Rubber: "cubic-bezier(0.175, 0.885, 0.335, 1.05)",
		},
	}
}

// Merge returns t with every zero-valued token taken from base.
func (t Theme) Merge(base Theme) Theme {
	pick := func(v, fallback string) string {
		if strings.TrimSpace(v) == "" {
			return fallback
		}
		return v
	}
	pickInt := func(v, fallback int) int {
		if v == 0 {
			return fallback
		}
		return v
	}

	return Theme{
		Color: Palette{
			Primary:    pick(t.Color.Primary, base.Color.Primary),
			Secondary:  pick(t.Color.Secondary, base.Color.Secondary),
			Tertiary:   pick(t.Color.Tertiary, base.Color.Tertiary),
			Lightest:   pick(t.Color.Lightest, base.Color.Lightest),
			Medium:     pick(t.Color.Medium, base.Color.Medium),
			MediumDark: pick(t.Color.MediumDark, base.Color.MediumDark),
			Darker:     pick(t.Color.Darker, base.Color.Darker),
			Darkest:    pick(t.Color.Darkest, base.Color.Darkest),
		},
		Type: Typography{
			FontFamily:      pick(t.Type.FontFamily, base.Type.FontFamily),
			WeightBold:      pickInt(t.Type.WeightBold, base.Type.WeightBold),
			WeightExtraBold: pickInt(t.Type.WeightExtraBold, base.Type.WeightExtraBold),
			SizeS1:          pickInt(t.Type.SizeS1, base.Type.SizeS1),
			SizeS2:          pickInt(t.Type.SizeS2, base.Type.SizeS2),
		},
		Easing: Easing{
			Rubber: pick(t.Easing.Rubber, base.Easing.Rubber),
		},
	}
}

// Darken lowers the HSL lightness of hex by amount (0..1).
func Darken(hex string, amount float64) (string, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "", fmt.Errorf("parsing colour %q: %w", hex, err)
	}
	h, s, l := c.Hsl()
	l = math.Max(0, math.Min(1, l-amount))
	return colorful.Hsl(h, s, l).Clamped().Hex(), nil
}

// RGBA renders hex with the given alpha as a CSS rgba() value.
func RGBA(hex string, alpha float64) (string, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "", fmt.Errorf("parsing colour %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	alpha = math.Max(0, math.Min(1, alpha))
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, trimFloat(alpha)), nil
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.3f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
