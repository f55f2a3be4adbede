// Package domainerrors defines the coded error taxonomy shared by services
// and transport adapters. Services attach a Code to every error they return;
// adapters translate codes into their native response shapes (HTTP status,
// chat reply) without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for transport translation.
type Code string

const (
	// CodeValidation marks user-correctable input failures. Validation
	// errors enumerate every violated field, never just the first.
	CodeValidation Code = "validation"
	// CodeBadRequest marks malformed requests (undecodable body, bad id).
	CodeBadRequest Code = "bad_request"
	// CodeUnauthorized marks requests with no authenticated requester.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden marks a missing capability. Forbidden errors never
	// reveal whether the target resource exists.
	CodeForbidden Code = "forbidden"
	// CodeNotFound marks a missing resource.
	CodeNotFound Code = "not_found"
	// CodeConflict marks a state conflict, e.g. an application that has
	// already been reviewed.
	CodeConflict Code = "conflict"
	// CodeInternal marks unexpected failures. Details are logged, not
	// returned to callers.
	CodeInternal Code = "internal"
)

// FieldViolation describes a single violated constraint on a named field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a coded domain error. Validation errors additionally carry the
// full list of field violations so callers can present all problems at once.
type Error struct {
	Code    Code
	Message string
	Fields  []FieldViolation
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New constructs a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// NewValidation constructs a validation error carrying every violation found.
func NewValidation(violations []FieldViolation) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: "validation failed",
		Fields:  violations,
	}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Description returns the human-readable message carried by err, or a
// generic fallback for uncoded errors.
func Description(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}

// Violations returns the field violations carried by err, if any.
func Violations(err error) []FieldViolation {
	var de *Error
	if errors.As(err, &de) {
		return de.Fields
	}
	return nil
}

// ToHTTPStatus maps a code onto its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
