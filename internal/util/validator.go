package util

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
)

// credit: https://github.com/go-playground/validator/issues/559#issuecomment-976459959

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func msgForTag(fe validator.FieldError, customField map[string]string) string {
	// convert to custom field if exist
	field := fe.Field()
	if custom, ok := customField[field]; ok {
		field = custom
	}

	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%v is required", field)
	case "numeric":
		return fmt.Sprintf("%v must be numeric", field)
	case "min":
		return fmt.Sprintf("%v must be at least %v characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%v must be at most %v characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%v must be greater than %v", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%v must be greater than or equal to %v", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%v must be less than or equal to %v", field, fe.Param())
	}

	log.Printf("Unknown tag: %v with error: %v", fe.Tag(), fe.Error())
	return fe.Error() // default error
}

/*
GenerateErrorMessages extracts validation errors and returns them as an array of FieldError.

Example output:

	[
	  {
		"field": "FontDir",
		"message": "FontDir is required"
	  }
	]

If a customField map is provided, it will replace the field name with the corresponding custom field name.
*/
func GenerateErrorMessages(err error, customField map[string]string) []FieldError {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := make([]FieldError, len(ve))
		for i, fe := range ve {
			field := fe.Field()
			if customFieldName, ok := customField[field]; ok {
				field = customFieldName
			}
			out[i] = FieldError{field, msgForTag(fe, customField)}
		}
		return out
	}

	return []FieldError{
		{
			Field:   "Unknown",
			Message: err.Error(),
		},
	}
}
