package mhracrawl

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These are meant to be generic and map well to HTTP-ish failure classes.
// ETIMEOUT marks the transient navigation failures that the retry policy
// is allowed to retry.
const (
	EINTERNAL    = "internal"
	EINVALID     = "invalid"
	ENOTFOUND    = "not_found"
	ETIMEOUT     = "timeout"
	EUNAVAILABLE = "unavailable"
)

// Error represents an application-specific error with a machine-readable
// code and a human-readable message.
type Error struct {
	// Code is one of the E* constants above.
	Code string

	// Message is a human-readable description of the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("mhracrawl error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return a generic message.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// NavigationFailure is returned when a page cannot be loaded after all
// retry attempts have been exhausted. It is the only error class that can
// abort an entire crawl run, and only when raised while loading a
// top-level letter index.
type NavigationFailure struct {
	// URL is the target that could not be loaded.
	URL string

	// Err is the failure from the final attempt.
	Err error
}

// Error implements the error interface.
func (e *NavigationFailure) Error() string {
	return fmt.Sprintf("navigation failed for %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error from the final attempt.
func (e *NavigationFailure) Unwrap() error {
	return e.Err
}
