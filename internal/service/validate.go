package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var fieldLabels = map[string]string{
	"name":     "Name",
	"email":    "Email",
	"password": "Password",
}

// validateStruct reports the first failing field, in declaration order.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return invalid(fe.Field(), message(fe))
}

func message(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Invalid email address"
	case "min":
		return label + " must be at least " + fe.Param() + " characters"
	case "max":
		return label + " must be at most " + fe.Param() + " characters"
	}
	return label + " is invalid"
}
