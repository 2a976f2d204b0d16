// Package validator provides request validation and input sanitization
// for the posts API. Struct rules are declared with `validate` tags and
// checked by go-playground/validator; failures come back as a
// field-keyed ValidationError.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/welldanyogia/webrana-posts-backend/internal/errors"
)

// Pagination constants
const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// MaxTitleLength is the longest title a post may carry
const MaxTitleLength = 255

// Validator adapts go-playground/validator to echo's Validator interface
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator that reports fields by their JSON names
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate checks i against its `validate` tags. It returns nil or a
// *apperrors.ValidationError; non-struct input is reported as ErrInvalidInput.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("cannot validate %T: %w", i, apperrors.ErrInvalidInput)
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	vErr := apperrors.NewValidationError()
	for _, fe := range fieldErrs {
		vErr.Add(fe.Field(), messageFor(fe))
	}
	return vErr
}

// messageFor renders a human-readable message for a failed rule
func messageFor(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// ValidatePagination sanitizes page/per-page parameters.
// page is clamped to at least 1 and perPage to [1, MaxPerPage];
// a non-positive perPage falls back to defaultPerPage.
func ValidatePagination(page, perPage, defaultPerPage int) (int, int) {
	if defaultPerPage <= 0 || defaultPerPage > MaxPerPage {
		defaultPerPage = DefaultPerPage
	}
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// SanitizeString removes control characters and trims whitespace.
// Length is not enforced here; overlong input is left for Validate to reject.
func SanitizeString(input string) string {
	input = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, input)

	return strings.TrimSpace(input)
}
