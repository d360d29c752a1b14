package button

import (
	"strings"
)

// Appearance is the visual style preset of a button.
type Appearance string

const (
	AppearancePrimary          Appearance = "primary"
	AppearancePrimaryOutline   Appearance = "primaryOutline"
	AppearanceSecondary        Appearance = "secondary"
	AppearanceSecondaryOutline Appearance = "secondaryOutline"
	AppearanceTertiary         Appearance = "tertiary"
	AppearanceOutline          Appearance = "outline"
)

// DefaultAppearance is used when Props.Appearance is empty.
const DefaultAppearance = AppearanceTertiary

var appearances = []Appearance{
	AppearancePrimary,
	AppearancePrimaryOutline,
	AppearanceSecondary,
	AppearanceSecondaryOutline,
	AppearanceTertiary,
	AppearanceOutline,
}

// Appearances returns every legal appearance in declaration order.
func Appearances() []Appearance {
	out := make([]Appearance, len(appearances))
	copy(out, appearances)
	return out
}

// Valid reports whether a is a member of the closed appearance set.
func (a Appearance) Valid() bool {
	for _, known := range appearances {
		if a == known {
			return true
		}
	}
	return false
}

// Slug is the kebab-case form used in class names, e.g. "primary-outline".
func (a Appearance) Slug() string {
	return slug(string(a))
}

func (a Appearance) String() string {
	return string(a)
}

// ParseAppearance accepts canonical values as well as kebab-case,
// snake_case and differently cased spellings. An empty string yields the
// default appearance; anything outside the set is an error.
func ParseAppearance(s string) (Appearance, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultAppearance, nil
	}
	key := fold(s)
	for _, a := range appearances {
		if fold(string(a)) == key {
			return a, nil
		}
	}
	return "", invalidAppearance(s)
}

// Size is the dimensional preset of a button.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
)

// DefaultSize is used when Props.Size is empty.
const DefaultSize = SizeMedium

var sizes = []Size{SizeSmall, SizeMedium}

// Sizes returns every legal size in declaration order.
func Sizes() []Size {
	out := make([]Size, len(sizes))
	copy(out, sizes)
	return out
}

// Valid reports whether s is a member of the closed size set.
func (s Size) Valid() bool {
	for _, known := range sizes {
		if s == known {
			return true
		}
	}
	return false
}

func (s Size) String() string {
	return string(s)
}

// ParseSize is the Size counterpart of ParseAppearance.
func ParseSize(s string) (Size, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultSize, nil
	}
	key := fold(s)
	for _, size := range sizes {
		if fold(string(size)) == key {
			return size, nil
		}
	}
	return "", invalidSize(s)
}

// fold drops separators and case so "primary-outline", "PRIMARY_OUTLINE"
// and "primaryOutline" compare equal.
func fold(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch r {
		case '-', '_', ' ':
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// slug turns a camelCase value into kebab-case.
func slug(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
