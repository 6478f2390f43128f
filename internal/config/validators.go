package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// registerExclusive adds a custom validator ensuring two fields are mutually exclusive,
// and makes errors refer to fields by their label tag.
func registerExclusive(validate *validator.Validate) error {
	if err := validate.RegisterValidation("exclusive", validateExclusive); err != nil {
		return fmt.Errorf("registering exclusive validation: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		const splitSize = 2

		name := strings.SplitN(fld.Tag.Get("label"), ",", splitSize)[0]
		if name == "-" || name == "" {
			return fld.Name
		}

		return name
	})

	return nil
}

// validateExclusive checks if two fields are mutually exclusive.
// Returns false if both fields have non-empty values.
func validateExclusive(fl validator.FieldLevel) bool {
	otherFieldName := fl.Param()
	field := fl.Field()
	otherField := fl.Parent().FieldByName(otherFieldName)

	if !field.IsValid() || !otherField.IsValid() {
		return true
	}

	if field.Kind() == reflect.String && otherField.Kind() == reflect.String {
		return field.String() == "" || otherField.String() == ""
	}

	return true
}
