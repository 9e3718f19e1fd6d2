// Package validation wraps go-playground/validator for config files, backend
// payloads and form input.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var defaultValidator = New()

// New creates a validator that reports fields by their json (or yaml) tag names.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "yaml", "form"} {
			name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	return v
}

// Struct validates a struct (or pointer to struct) against its validate tags.
func Struct(s any) error {
	if err := defaultValidator.Struct(s); err != nil {
		return wrap(err)
	}
	return nil
}

// Value validates v whatever its shape: structs are checked directly,
// slices and arrays element by element, pointers through their target.
// Values of any other kind carry no tags and always pass.
func Value(v any) error {
	return value(reflect.ValueOf(v))
}

func value(rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return value(rv.Elem())
	case reflect.Struct:
		if err := defaultValidator.Struct(rv.Interface()); err != nil {
			return wrap(err)
		}
		return nil
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			if err := value(rv.Index(i)); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
	}
	return nil
}

func wrap(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fields := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fields[e.Field()] = friendlyMessage(e)
	}
	return &Error{Fields: fields, cause: err}
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s", e.Param())
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + e.Param()
	case "eqfield":
		return "must match " + strings.ToLower(e.Param())
	default:
		return "is invalid"
	}
}
