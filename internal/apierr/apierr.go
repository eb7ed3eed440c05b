package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation = "validation"
	CodeConflict   = "conflict"
	CodeNotFound   = "not_found"
	CodeForbidden  = "forbidden"
)

// Error is the structured error the services return to the HTTP layer.
// Field attributes validation failures to the offending request field.
type Error struct {
	Status int
	Code   string
	Field  string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(field, msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Field: field, Err: errors.New(msg)}
}

func Conflict(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeConflict, Err: errors.New(msg)}
}

func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Err: errors.New(msg)}
}

func Forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Code: CodeForbidden, Err: errors.New(msg)}
}

// As unwraps err into an *Error when one is anywhere in the chain.
func As(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
