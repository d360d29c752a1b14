package button

import "strings"

// Class names emitted by the renderer. pkg/theme generates the rules for
// every one of them.
const (
	ClassBase         = "btn"
	ClassText         = "btn__text"
	ClassLoading      = "btn__loading"
	ClassDisabled     = "btn--disabled"
	ClassIcon         = "btn--icon"
	ClassUnclickable  = "btn--unclickable"
	ClassLoadingState = "btn--loading"
)

// Inline layout of the two content regions. The loading region overlays
// the text without taking part in layout and starts out invisible.
const (
	TextLayout    = "display:inline-block;vertical-align:top"
	LoadingLayout = "position:absolute;top:50%;left:0;right:0;opacity:0"
)

// AppearanceClass returns the modifier class for a, e.g. "btn--primary-outline".
func AppearanceClass(a Appearance) string {
	return ClassBase + "--" + a.Slug()
}

// SizeClass returns the modifier class for s, e.g. "btn--small".
func SizeClass(s Size) string {
	return ClassBase + "--" + string(s)
}

// StyleKey is everything the style lookup depends on.
type StyleKey struct {
	Appearance   Appearance
	Size         Size
	Disabled     bool
	ContainsIcon bool
	Unclickable  bool
	Loading      bool
}

// Style is the resolved presentation of one render.
type Style struct {
	Classes []string
}

// Class joins the classes into an HTML class attribute value.
func (s Style) Class() string {
	return strings.Join(s.Classes, " ")
}

// Has reports whether class is part of the style.
func (s Style) Has(class string) bool {
	for _, c := range s.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// ResolveStyle maps a StyleKey to its classes. Empty appearance and size
// fall back to the defaults.
func ResolveStyle(k StyleKey) Style {
	appearance := k.Appearance
	if appearance == "" {
		appearance = DefaultAppearance
	}
	size := k.Size
	if size == "" {
		size = DefaultSize
	}

	classes := make([]string, 0, 7)
	classes = append(classes, ClassBase, AppearanceClass(appearance), SizeClass(size))
	if k.Disabled {
		classes = append(classes, ClassDisabled)
	}
	if k.ContainsIcon {
		classes = append(classes, ClassIcon)
	}
	if k.Unclickable {
		classes = append(classes, ClassUnclickable)
	}
	if k.Loading {
		classes = append(classes, ClassLoadingState)
	}

	return Style{Classes: classes}
}

// styleKey builds the lookup key for a normalized render in mode m.
func styleKey(p Props, m Mode) StyleKey {
	return StyleKey{
		Appearance:   p.Appearance,
		Size:         p.Size,
		Disabled:     p.IsDisabled && m.ForwardsDisabled(),
		ContainsIcon: p.ContainsIcon,
		Unclickable:  p.IsUnclickable,
		Loading:      p.IsLoading,
	}
}
