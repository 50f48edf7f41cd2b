package utils

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/turtacn/certverify/pkg/errors"
)

// defaultValidator reports fields by their JSON names so details match the wire format.
var defaultValidator *validator.Validate

func init() {
	defaultValidator = validator.New(validator.WithRequiredStructEnabled())
	defaultValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidateStruct validates a struct using the default validator.
// It returns an invalid_request AppError whose message names the first failing field.
func ValidateStruct(s interface{}) error {
	err := defaultValidator.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.ErrInvalidRequest(err.Error())
	}

	details := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		details[fe.Field()] = formatValidationError(fe)
	}

	first := validationErrors[0].Field()

	return errors.ErrValidation(fmt.Sprintf("%s %s", first, details[first]), details)
}

// formatValidationError creates a user-friendly error message for a validation error.
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' tag", fe.Tag())
	}
}

// ValidateNotEmpty checks if a string is not empty.
func ValidateNotEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}
