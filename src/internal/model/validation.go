package model

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var msisdnPattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// RegisterValidations adds the custom tags used by the request models.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("msisdn", func(fl validator.FieldLevel) bool {
		return msisdnPattern.MatchString(fl.Field().String())
	})
}

// NewValidator returns a validator with the custom tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}
