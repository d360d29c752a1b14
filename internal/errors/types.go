// Package errors defines the structured error type shared by buttonkit
// packages. Errors carry a category, a stable code and optional context so
// that the CLI, the preview server and library callers can all branch on
// the same values.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeRender     ErrorType = "render"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeSecurity   ErrorType = "security"
	ErrorTypeInternal   ErrorType = "internal"
)

// KitError is a structured error type with context.
type KitError struct {
	Type      ErrorType
	Code      string
	Message   string
	Cause     error
	Context   map[string]interface{}
	Component string
	FilePath  string
}

// Error implements the error interface.
func (e *KitError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	parts = append(parts, e.Message)

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		kv := make([]string, 0, len(keys))
		for _, k := range keys {
			kv = append(kv, fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		parts = append(parts, "("+strings.Join(kv, ", ")+")")
	}

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *KitError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code, so a freshly built error matches the
// package-level sentinel with the same code.
func (e *KitError) Is(target error) bool {
	var t *KitError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *KitError) WithContext(key string, value interface{}) *KitError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithComponent adds component context.
func (e *KitError) WithComponent(component string) *KitError {
	e.Component = component

	return e
}

// WithFile adds the file the error was found in.
func (e *KitError) WithFile(path string) *KitError {
	e.FilePath = path

	return e
}

// WithCause attaches an underlying error.
func (e *KitError) WithCause(cause error) *KitError {
	e.Cause = cause

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *KitError {
	return &KitError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

// NewRenderError creates a render error.
func NewRenderError(code, message string, cause error) *KitError {
	return &KitError{
		Type:    ErrorTypeRender,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *KitError {
	return &KitError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *KitError {
	return &KitError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewSecurityError creates a security error.
func NewSecurityError(code, message string) *KitError {
	return &KitError{
		Type:    ErrorTypeSecurity,
		Code:    code,
		Message: message,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *KitError {
	return &KitError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsValidation reports whether err is, or wraps, a validation error.
func IsValidation(err error) bool {
	return hasType(err, ErrorTypeValidation)
}

// IsSecurityError reports whether err is, or wraps, a security error.
func IsSecurityError(err error) bool {
	return hasType(err, ErrorTypeSecurity)
}

func hasType(err error, typ ErrorType) bool {
	var ke *KitError
	if errors.As(err, &ke) {
		return ke.Type == typ
	}

	return false
}

// CodeOf returns the code of the first KitError in err's chain.
func CodeOf(err error) string {
	var ke *KitError
	if errors.As(err, &ke) {
		return ke.Code
	}

	return ""
}

// HTTPStatus maps an error to the status code the preview server replies with.
func HTTPStatus(err error) int {
	var ke *KitError
	if !errors.As(err, &ke) {
		return http.StatusInternalServerError
	}

	switch ke.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeSecurity:
		return http.StatusForbidden
	case ErrorTypeIO:
		if ke.Code == ErrCodeNotFound {
			return http.StatusNotFound
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Logger is the subset of logging.Logger the Handler needs.
type Logger interface {
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
}

// Handler provides centralized error logging.
type Handler struct {
	logger Logger
}

// NewHandler creates a new error handler.
func NewHandler(logger Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle logs err at a level chosen by its category.
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil || h.logger == nil {
		return
	}

	var ke *KitError
	if !errors.As(err, &ke) {
		h.logger.Error(ctx, err, "Unhandled error occurred")
		return
	}

	switch ke.Type {
	case ErrorTypeValidation:
		h.logger.Warn(ctx, err, "Validation error occurred",
			"type", ke.Type,
			"code", ke.Code,
			"component", ke.Component)
	case ErrorTypeSecurity:
		h.logger.Error(ctx, err, "Security error occurred",
			"type", ke.Type,
			"code", ke.Code)
	default:
		h.logger.Error(ctx, err, "Error occurred",
			"type", ke.Type,
			"code", ke.Code,
			"component", ke.Component)
	}
}

// Common error codes.
const (
	ErrCodeNotFound         = "ERR_NOT_FOUND"
	ErrCodeInvalidOrigin    = "ERR_INVALID_ORIGIN"
	ErrCodeConfigInvalid    = "ERR_CONFIG_INVALID"
	ErrCodeReadFailed       = "ERR_READ_FAILED"
	ErrCodeParseFailed      = "ERR_PARSE_FAILED"
	ErrCodeRenderFailed     = "ERR_RENDER_FAILED"
	ErrCodeInternalError    = "ERR_INTERNAL"
	ErrCodeValidationFailed = "ERR_VALIDATION_FAILED"
)

// ErrInvalidOrigin creates an invalid origin security error.
func ErrInvalidOrigin(origin string) *KitError {
	return NewSecurityError(ErrCodeInvalidOrigin, "invalid origin: "+origin)
}

// ErrNotFound creates a not-found error for the named resource.
func ErrNotFound(kind, name string) *KitError {
	return NewIOError(ErrCodeNotFound, kind+" not found: "+name, nil)
}
