package button

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Element describes the root element the renderer wants to produce. In
// wrapper mode it is handed to the Wrapper, which must render Attributes
// on whatever root it emits for pass-through and Ref ids to work.
type Element struct {
	Mode       Mode
	Tag        string
	Disabled   bool
	Loading    bool
	Style      Style
	Attributes templ.Attributes
}

// ID returns the id attribute of the element, if any.
func (e Element) ID() string {
	if v, ok := e.Attributes["id"].(string); ok {
		return v
	}
	return ""
}

// Render wraps content in the element's start and end tags.
func (e Element) Render(content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<"+e.Tag); err != nil {
			return err
		}
		if err := writeAttributes(w, e.Attributes); err != nil {
			return err
		}
		if _, err := io.WriteString(w, ">"); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</"+e.Tag+">")
		return err
	})
}

// Wrapper is a caller-supplied root component.
type Wrapper interface {
	// Name identifies the wrapper; Ref.Tag reports it in wrapper mode.
	Name() string
	// Wrap returns the component rendering root around content.
	Wrap(root Element, content templ.Component) templ.Component
}

// Tag is a Wrapper that renders a plain element with the given tag name,
// typically a custom element such as "router-link".
type Tag string

// Name returns the tag name.
func (t Tag) Name() string {
	return string(t)
}

// Wrap renders root as a <t> element.
func (t Tag) Wrap(root Element, content templ.Component) templ.Component {
	root.Tag = string(t)
	return root.Render(content)
}

type wrapperFunc struct {
	name string
	fn   func(Element, templ.Component) templ.Component
}

func (w wrapperFunc) Name() string {
	return w.name
}

func (w wrapperFunc) Wrap(root Element, content templ.Component) templ.Component {
	return w.fn(root, content)
}

// WrapperFunc adapts a function into a named Wrapper.
func WrapperFunc(name string, fn func(root Element, content templ.Component) templ.Component) Wrapper {
	return wrapperFunc{name: name, fn: fn}
}

// validateWrapperName accepts names usable as element tags: a letter
// followed by letters, digits, '-', '_' or '.'.
func validateWrapperName(name string) error {
	if name == "" {
		return invalidWrapper(name, "name is empty")
	}
	for i, r := range name {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if i == 0 {
			if !isLetter {
				return invalidWrapper(name, "name must start with a letter")
			}
			continue
		}
		if !isLetter && !(r >= '0' && r <= '9') && r != '-' && r != '_' && r != '.' {
			return invalidWrapper(name, "name contains an invalid character")
		}
	}
	return nil
}
