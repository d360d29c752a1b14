package button

// Mode is the structural shape a render produces.
type Mode int

const (
	// ModeButton renders a native <button>.
	ModeButton Mode = iota
	// ModeLink renders an <a>.
	ModeLink
	// ModeWrapper renders the caller's Wrapper as the root.
	ModeWrapper
)

// String returns the string representation of the Mode
func (m Mode) String() string {
	switch m {
	case ModeButton:
		return "button"
	case ModeLink:
		return "link"
	case ModeWrapper:
		return "wrapper"
	default:
		return "unknown"
	}
}

// ForwardsDisabled reports whether IsDisabled reaches the root element in
// this mode. Link mode never forwards it.
func (m Mode) ForwardsDisabled() bool {
	return m != ModeLink
}

// SelectMode picks the render shape for p. The wrapper wins over IsLink,
// which wins over the default button.
func SelectMode(p Props) Mode {
	switch {
	case p.Wrapper != nil:
		return ModeWrapper
	case p.IsLink:
		return ModeLink
	default:
		return ModeButton
	}
}
