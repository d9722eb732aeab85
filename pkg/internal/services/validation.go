package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if len(name) > 0 {
				return name
			}
		}
		return field.Name
	})
	return v
}

// ValidateStruct runs every validation tag on data.
func ValidateStruct(data any) FormErrors {
	return toFormErrors(validate.Struct(data))
}

// ValidatePartial runs the validation tags of the named struct fields only.
func ValidatePartial(data any, fields ...string) FormErrors {
	if len(fields) == 0 {
		return FormErrors{}
	}
	return toFormErrors(validate.StructPartial(data, fields...))
}

func toFormErrors(err error) FormErrors {
	out := FormErrors{}
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.Add(NonFieldErrors, err.Error())
		return out
	}

	for _, fe := range verrs {
		out.Add(fe.Field(), describeFieldError(fe))
	}
	return out
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "url", "http_url":
		return "Enter a valid URL."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "eqfield":
		return "The two password fields didn’t match."
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}
