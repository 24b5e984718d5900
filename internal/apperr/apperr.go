package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a failure for transport mapping. Everything except
// CodeInternal is a client-facing outcome.
type Code string

const (
	CodeValidation            Code = "validation"
	CodeForeignEntity         Code = "foreign_entity"
	CodeOptionMismatch        Code = "option_mismatch"
	CodeEmptyDefinition       Code = "empty_definition"
	CodeEmptyOptionSet        Code = "empty_option_set"
	CodeUnknownQuestion       Code = "unknown_question"
	CodeMissingRequiredAnswer Code = "missing_required_answer"
	CodeUnauthenticated       Code = "unauthenticated"
	CodeDuplicateResponse     Code = "duplicate_response"
	CodeOwnership             Code = "ownership"
	CodeNotFound              Code = "not_found"
	CodeInternal              Code = "internal"
)

// Error is the single error shape services return for expected failures.
// QuestionIDs is populated for failures that concern specific questions
// (missing required answers).
type Error struct {
	Code        Code
	Message     string
	Details     []string
	QuestionIDs []uint
}

func (e *Error) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %v", e.Message, e.Details)
	}
	return e.Message
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Validation builds a field-level validation error with per-field messages.
func Validation(message string, details ...string) *Error {
	return &Error{Code: CodeValidation, Message: message, Details: details}
}

// HTTPStatus maps the code to the status the HTTP layer should answer with.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeValidation, CodeForeignEntity, CodeOptionMismatch,
		CodeEmptyDefinition, CodeEmptyOptionSet, CodeUnknownQuestion,
		CodeMissingRequiredAnswer:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeDuplicateResponse, CodeOwnership:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// From extracts an *Error from err, or wraps err as an internal failure so the
// HTTP layer never leaks raw storage errors.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Code: CodeInternal, Message: "internal error"}
}

// Is supports errors.Is matching on the code alone.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}
