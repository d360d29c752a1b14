package button

import (
	"fmt"

	kiterrors "github.com/conneroisu/buttonkit/internal/errors"
)

// Error codes carried by the validation errors this package returns.
const (
	CodeMissingChildren   = "BUTTON_MISSING_CHILDREN"
	CodeInvalidAppearance = "BUTTON_INVALID_APPEARANCE"
	CodeInvalidSize       = "BUTTON_INVALID_SIZE"
	CodeInvalidWrapper    = "BUTTON_INVALID_WRAPPER"
	CodeInvalidAttribute  = "BUTTON_INVALID_ATTRIBUTE"
)

// Sentinel errors for errors.Is. Returned errors carry extra context but
// match these by type and code.
var (
	ErrMissingChildren   error = kiterrors.NewValidationError(CodeMissingChildren, "children are required")
	ErrInvalidAppearance error = kiterrors.NewValidationError(CodeInvalidAppearance, "invalid appearance")
	ErrInvalidSize       error = kiterrors.NewValidationError(CodeInvalidSize, "invalid size")
	ErrInvalidWrapper    error = kiterrors.NewValidationError(CodeInvalidWrapper, "invalid wrapper")
	ErrInvalidAttribute  error = kiterrors.NewValidationError(CodeInvalidAttribute, "invalid attribute")
)

const component = "button"

func missingChildren() error {
	return kiterrors.NewValidationError(CodeMissingChildren, "children are required").
		WithComponent(component)
}

func invalidAppearance(v string) error {
	return kiterrors.NewValidationError(CodeInvalidAppearance,
		fmt.Sprintf("appearance %q is not one of %v", v, appearances)).
		WithComponent(component).
		WithContext("value", v)
}

func invalidSize(v string) error {
	return kiterrors.NewValidationError(CodeInvalidSize,
		fmt.Sprintf("size %q is not one of %v", v, sizes)).
		WithComponent(component).
		WithContext("value", v)
}

func invalidWrapper(name, reason string) error {
	return kiterrors.NewValidationError(CodeInvalidWrapper,
		fmt.Sprintf("wrapper %q: %s", name, reason)).
		WithComponent(component)
}

func invalidAttribute(name string) error {
	return kiterrors.NewValidationError(CodeInvalidAttribute,
		fmt.Sprintf("attribute name %q is not a valid HTML attribute name", name)).
		WithComponent(component).
		WithContext("attribute", name)
}
