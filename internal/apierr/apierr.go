package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to API callers. The handler layer maps Status to the
// HTTP response code and passes Code/Details through untouched.
const (
	CodeNotFound             = "not_found"
	CodeInvalidInput         = "invalid_input"
	CodeInvalidTransition    = "invalid_transition"
	CodeNotAssigned          = "not_assigned"
	CodeAlreadyCheckedIn     = "already_checked_in"
	CodeNotCheckedIn         = "not_checked_in"
	CodeAlreadyCheckedOut    = "already_checked_out"
	CodeWrongDay             = "wrong_day"
	CodeOutsideCheckInWindow = "outside_checkin_window"
	CodeInternal             = "internal"
)

type Error struct {
	Status  int
	Code    string
	Err     error
	Details map[string]interface{}
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

func (e *Error) WithDetails(details map[string]interface{}) *Error {
	if e == nil {
		return nil
	}
	e.Details = details
	return e
}

func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

func InvalidInput(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, CodeInvalidInput, fmt.Errorf(format, args...))
}

func InvalidTransition(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, CodeInvalidTransition, fmt.Errorf(format, args...))
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, CodeInternal, err)
}

// From returns err as an *Error, wrapping unknown errors as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// Is reports whether err is an *Error carrying the given code.
func Is(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
