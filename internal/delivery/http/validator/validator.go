// Package validator adapts go-playground/validator to Echo's Validator interface.
package validator

import (
	domainerrors "gadgetry/internal/domain/errors"

	validatorLib "github.com/go-playground/validator/v10"
)

// echoValidator wraps a validator instance for Echo.
type echoValidator struct {
	validate *validatorLib.Validate
}

// New creates the Echo request validator.
func New() *echoValidator {
	return &echoValidator{
		validate: validatorLib.New(validatorLib.WithRequiredStructEnabled()),
	}
}

// Validate runs struct tag validation on a bound request payload.
func (v *echoValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}

	return nil
}
