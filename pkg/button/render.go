package button

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	kiterrors "github.com/conneroisu/buttonkit/internal/errors"
)

// Button returns the component for p. Invalid props surface as a
// validation error from Render, before anything is written.
func Button(p Props) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return render(ctx, w, p)
	})
}

// Text returns a component writing s as escaped text.
func Text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}

// Root computes the root element p would render, without rendering it.
// A Ref in p is left untouched; its id only changes when a render succeeds.
func Root(p Props) (Element, error) {
	np, err := p.Normalize()
	if err != nil {
		return Element{}, err
	}
	return rootElement(np, SelectMode(np)), nil
}

func render(ctx context.Context, w io.Writer, p Props) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	np, err := p.Normalize()
	if err != nil {
		return err
	}

	mode := SelectMode(np)
	root := rootElement(np, mode)
	body := content(np)

	var tree templ.Component
	if mode == ModeWrapper {
		tree = np.Wrapper.Wrap(root, body)
		if tree == nil {
			return invalidWrapper(np.Wrapper.Name(), "Wrap returned no component")
		}
	} else {
		tree = root.Render(body)
	}

	// Buffer so a failing child leaves the writer untouched.
	var buf bytes.Buffer
	if err := tree.Render(ctx, &buf); err != nil {
		return kiterrors.NewRenderError(kiterrors.ErrCodeRenderFailed,
			fmt.Sprintf("rendering %s mode", mode), err).
			WithComponent(component)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return kiterrors.NewIOError(kiterrors.ErrCodeRenderFailed, "writing button", err).
			WithComponent(component)
	}

	if np.Ref != nil {
		np.Ref.resolve(root.ID(), root.Tag, mode)
	}
	return nil
}

// rootElement assembles the root for a normalized p in mode m. Component
// attributes come first; pass-through attributes override them, except
// class which is appended to the resolved classes.
func rootElement(p Props, m Mode) Element {
	style := ResolveStyle(styleKey(p, m))

	attrs := make(templ.Attributes, len(p.Attributes)+4)
	if m.ForwardsDisabled() && p.IsDisabled {
		attrs["disabled"] = true
	}
	if p.IsLoading {
		attrs["data-loading"] = true
	}
	for name, value := range p.Attributes {
		if name == "class" {
			continue
		}
		attrs[name] = value
	}
	attrs["class"] = mergeClass(style.Class(), p.Attributes["class"])

	if p.Ref != nil {
		var explicit string
		if v, ok := attributeValue("id", p.Attributes["id"]); ok && v != nil {
			explicit = *v
		}
		attrs["id"] = p.Ref.idFor(explicit)
	}

	el := Element{
		Mode:       m,
		Disabled:   m.ForwardsDisabled() && p.IsDisabled,
		Loading:    p.IsLoading,
		Style:      style,
		Attributes: attrs,
	}
	switch m {
	case ModeWrapper:
		el.Tag = p.Wrapper.Name()
	case ModeLink:
		el.Tag = "a"
	default:
		el.Tag = "button"
	}
	return el
}

// content is the inner tree shared by all three shapes.
func content(p Props) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<span class="`+ClassText+`" style="`+TextLayout+`">`); err != nil {
			return err
		}
		if err := p.Children.Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "</span>"); err != nil {
			return err
		}

		if !p.IsLoading {
			return nil
		}

		if _, err := io.WriteString(w, `<span class="`+ClassLoading+`" style="`+LoadingLayout+`">`); err != nil {
			return err
		}
		if p.LoadingText != nil {
			if err := p.LoadingText.Render(ctx, w); err != nil {
				return err
			}
		} else if _, err := io.WriteString(w, DefaultLoadingText); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</span>")
		return err
	})
}
