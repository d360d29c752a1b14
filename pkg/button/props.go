package button

import (
	"github.com/a-h/templ"
)

// Props is the full input contract for one render.
type Props struct {
	// Children is the button label. Required.
	Children templ.Component `validate:"required"`

	// IsLoading renders the loading overlay.
	IsLoading bool
	// LoadingText replaces the default "Loading..." overlay text.
	LoadingText templ.Component `validate:"-"`

	// IsLink renders an <a> instead of a <button>. Ignored when Wrapper is set.
	IsLink bool
	// IsDisabled is forwarded in button and wrapper mode only.
	IsDisabled bool
	// IsUnclickable prevents repeated clicks, e.g. on payment forms.
	IsUnclickable bool
	// ContainsIcon gives icon-only buttons their circular shape.
	ContainsIcon bool

	Appearance Appearance `validate:"omitempty,appearance"`
	Size       Size       `validate:"omitempty,size"`

	// Wrapper replaces the root element entirely.
	Wrapper Wrapper `validate:"-"`

	// Attributes are written verbatim onto the root element.
	Attributes templ.Attributes `validate:"-"`

	// Ref, when set, is resolved to the rendered root element.
	Ref *Ref `validate:"-"`
}

// DefaultLoadingText is shown in the loading region when LoadingText is nil.
const DefaultLoadingText = "Loading..."

// Normalize validates p and returns a copy with defaults applied and
// appearance and size in canonical spelling.
func (p Props) Normalize() (Props, error) {
	if err := validateProps(&p); err != nil {
		return Props{}, err
	}

	appearance, err := ParseAppearance(string(p.Appearance))
	if err != nil {
		return Props{}, err
	}
	size, err := ParseSize(string(p.Size))
	if err != nil {
		return Props{}, err
	}
	p.Appearance = appearance
	p.Size = size

	if p.Wrapper != nil {
		if err := validateWrapperName(p.Wrapper.Name()); err != nil {
			return Props{}, err
		}
	}

	for name := range p.Attributes {
		if !validAttributeName(name) {
			return Props{}, invalidAttribute(name)
		}
	}

	return p, nil
}

// Validate reports whether p can be rendered.
func (p Props) Validate() error {
	_, err := p.Normalize()
	return err
}
