package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind tags every error the console produces so callers can switch on it
// instead of probing for optional properties.
type Kind string

const (
	KindNetwork      Kind = "network"
	KindHTTP         Kind = "http"
	KindValidation   Kind = "validation"
	KindConfig       Kind = "config"
	KindUnauthorized Kind = "unauthorized"
)

var (
	ErrNetwork      = errors.New("network error")
	ErrHTTP         = errors.New("http error")
	ErrValidation   = errors.New("validation error")
	ErrConfig       = errors.New("configuration error")
	ErrUnauthorized = errors.New("unauthorized")
)

// FieldErrors maps a form field name to the message reported for it.
type FieldErrors map[string]string

type AppError struct {
	Kind    Kind
	Status  int
	Message string
	Fields  FieldErrors
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (Cause: %v)", e.Kind, e.Message, e.Err)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s %d: %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() []error {
	base := baseFor(e.Kind)
	if e.Err != nil {
		return []error{base, e.Err}
	}
	return []error{base}
}

func baseFor(k Kind) error {
	switch k {
	case KindNetwork:
		return ErrNetwork
	case KindValidation:
		return ErrValidation
	case KindConfig:
		return ErrConfig
	case KindUnauthorized:
		return ErrUnauthorized
	default:
		return ErrHTTP
	}
}

func NewNetwork(msg string, err error) *AppError {
	return &AppError{Kind: KindNetwork, Message: msg, Err: err}
}

func NewHTTP(status int, msg string) *AppError {
	return &AppError{Kind: KindHTTP, Status: status, Message: msg}
}

func NewValidation(status int, msg string, fields FieldErrors) *AppError {
	return &AppError{Kind: KindValidation, Status: status, Message: msg, Fields: fields}
}

func NewConfig(msg string) *AppError {
	return &AppError{Kind: KindConfig, Message: msg}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{Kind: KindUnauthorized, Status: http.StatusUnauthorized, Message: msg}
}

// As returns the AppError inside err, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsKind(err error, k Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == k
}

// Fields returns the field map of a validation error.
func Fields(err error) (FieldErrors, bool) {
	appErr, ok := As(err)
	if !ok || appErr.Kind != KindValidation {
		return nil, false
	}
	return appErr.Fields, true
}

// Message returns the user-facing message of err, or fallback when there is none.
func Message(err error, fallback string) string {
	if appErr, ok := As(err); ok && appErr.Message != "" {
		return appErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}

func ToHTTPStatus(err error) int {
	appErr, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNetwork:
		return http.StatusBadGateway
	case KindConfig:
		return http.StatusServiceUnavailable
	}
	if appErr.Status >= 400 {
		return appErr.Status
	}
	return http.StatusBadGateway
}

func (e *AppError) ToJSON() gin.H {
	body := gin.H{
		"error":   string(e.Kind),
		"message": e.Message,
	}
	if len(e.Fields) > 0 {
		body["errors"] = e.Fields
	}
	return body
}
