package button

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	kiterrors "github.com/conneroisu/buttonkit/internal/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// Validator returns the shared validator with the "appearance" and "size"
// tags registered, so other packages can validate their own structs with
// the same vocabulary.
func Validator() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("appearance", func(fl validator.FieldLevel) bool {
			_, err := ParseAppearance(fl.Field().String())
			return err == nil
		})

		_ = v.RegisterValidation("size", func(fl validator.FieldLevel) bool {
			_, err := ParseSize(fl.Field().String())
			return err == nil
		})

		validateInst = v
	})

	return validateInst
}

func validateProps(p *Props) error {
	err := Validator().Struct(p)
	if err == nil {
		return nil
	}

	ves, ok := err.(validator.ValidationErrors)
	if !ok || len(ves) == 0 {
		return kiterrors.NewInternalError(kiterrors.ErrCodeInternalError, "props validation failed", err)
	}

	fe := ves[0]
	switch fe.StructField() {
	case "Children":
		return missingChildren()
	case "Appearance":
		return invalidAppearance(fmt.Sprint(fe.Value()))
	case "Size":
		return invalidSize(fmt.Sprint(fe.Value()))
	default:
		return kiterrors.NewValidationError(kiterrors.ErrCodeValidationFailed,
			fe.Field()+" failed validation for tag '"+fe.Tag()+"'").
			WithComponent(component).
			WithCause(err)
	}
}
