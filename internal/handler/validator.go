package handler

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RequestValidator plugs validator/v10 into echo.Context.Validate.
type RequestValidator struct {
	v *validator.Validate
}

// NewValidator returns the validator installed on the echo instance.
func NewValidator() *RequestValidator {
	return &RequestValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (r *RequestValidator) Validate(i any) error {
	return r.v.Struct(i)
}

// seatFieldFailed reports whether validation failed inside the seats
// list rather than on the list itself.
func seatFieldFailed(err error) bool {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	for _, fe := range errs {
		if fe.StructField() == "Row" || fe.StructField() == "Col" {
			return true
		}
	}
	return false
}

// seatFieldMistyped reports whether binding failed because a value inside
// the seats list had the wrong JSON type, such as "3" or 3.5 for a row.
func seatFieldMistyped(err error) bool {
	var ute *json.UnmarshalTypeError
	return errors.As(err, &ute) && strings.HasPrefix(ute.Field, "seats.")
}
