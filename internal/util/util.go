package util

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ParseBindingError renders validation errors as readable sentences,
// other errors are passed through as their message.
func ParseBindingError(errs ...error) []string {
	var out []string
	for _, err := range errs {
		switch typedErr := err.(type) {
		case validator.ValidationErrors:
			for _, e := range typedErr {
				out = append(out, ParseFieldError(e))
			}
		default:
			out = append(out, err.Error())
		}
	}
	return out
}

func ParseFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("The field %s is required.", field)
	case "min":
		param := e.Param()
		return fmt.Sprintf("The field %s must be at least length %s.", field, param)
	case "max":
		param := e.Param()
		return fmt.Sprintf("The field %s must be at most length %s.", field, param)
	case "gt":
		param := e.Param()
		return fmt.Sprintf("The field %s must be greater than %s.", field, param)
	case "gte":
		param := e.Param()
		return fmt.Sprintf("The field %s must be greater than or equal to %s.", field, param)
	case "lt":
		param := e.Param()
		return fmt.Sprintf("The field %s must be less than %s.", field, param)
	case "lte":
		param := e.Param()
		return fmt.Sprintf("The field %s must be less than or equal to %s.", field, param)
	case "url", "http_url":
		return fmt.Sprintf("The field %s must be a valid url.", field)
	case "oneof":
		param := e.Param()
		paramArr := strings.Split(param, " ")
		paramArr[len(paramArr)-1] = "or " + paramArr[len(paramArr)-1]
		param = strings.Join(paramArr, ", ")
		return fmt.Sprintf("The field %s must be one of %s.", field, param)
	default:
		return e.Error()
	}
}
