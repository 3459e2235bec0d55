package core

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error codes shared across the engine.
const (
	ErrCodeInvalidArgument      = "INVALID_ARGUMENT"
	ErrCodeSchemaLoadFailure    = "SCHEMA_LOAD_FAILURE"
	ErrCodeConsistencyViolation = "CONSISTENCY_VIOLATION"
	ErrCodeMissingTemplateToken = "MISSING_TEMPLATE_TOKEN"
	ErrCodeMalformedOutput      = "MALFORMED_OUTPUT"
)

// Error is the typed error envelope returned by every engine operation.
// Code identifies the failure class, Details carry structured context for
// logging and API responses.
type Error struct {
	Err     error          `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) String() string {
	bytes, err := json.Marshal(e)
	if err != nil {
		return e.Error()
	}
	return string(bytes)
}

// NewError wraps err with a code and structured details.
func NewError(err error, code string, details map[string]any) *Error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Err:     err,
		Code:    code,
		Message: msg,
		Details: details,
	}
}

// NewErrorf builds a typed error from a format string, with no details map.
func NewErrorf(code, format string, args ...any) *Error {
	return NewError(fmt.Errorf(format, args...), code, nil)
}

// CodeOf extracts the engine error code from err, or "" when err is not a
// typed engine error.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given engine error code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
