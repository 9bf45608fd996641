// Package validation checks form values against per-field rule strings using
// go-playground/validator and reports failures as a field -> message map, the
// same shape the backend uses for its own validation errors.
package validation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Var validates a single value against rules such as "required" or "max=20".
// It returns an empty string when the value is valid.
func Var(value any, rules string) string {
	if rules == "" {
		return ""
	}
	err := instance().Var(value, rules)
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return message(verrs[0])
	}
	return err.Error()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "numeric":
		return "must contain only digits"
	case "url":
		return "must be a valid URL"
	case "alpha":
		return "must contain only letters"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
