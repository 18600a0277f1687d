package errors

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// StatusError is the structured error surfaced to callers of the authentication flow.
// It carries an HTTP status code and a human-readable status message, and supports
// errors.Is and errors.As through its optional cause.
type StatusError struct {
	// StatusCode is the HTTP status class of the failure.
	StatusCode int
	// StatusMessage is safe to show to users.
	StatusMessage string
	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d %s: %v", e.StatusCode, e.StatusMessage, e.Cause)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.StatusMessage)
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *StatusError) Unwrap() error {
	return e.Cause
}

// New creates a StatusError without a cause.
func New(statusCode int, message string) *StatusError {
	return &StatusError{StatusCode: statusCode, StatusMessage: message}
}

// Newf creates a StatusError with a formatted message.
func Newf(statusCode int, format string, args ...any) *StatusError {
	return New(statusCode, fmt.Sprintf(format, args...))
}

// Wrap attaches a status and message to an existing error.
func Wrap(err error, statusCode int, message string) *StatusError {
	if err == nil {
		return nil
	}
	return &StatusError{StatusCode: statusCode, StatusMessage: message, Cause: err}
}

// BadRequest creates a 400 error.
func BadRequest(message string) *StatusError { return New(http.StatusBadRequest, message) }

// Unauthorized creates a 401 error.
func Unauthorized(message string) *StatusError { return New(http.StatusUnauthorized, message) }

// Forbidden creates a 403 error.
func Forbidden(message string) *StatusError { return New(http.StatusForbidden, message) }

// Internal creates a 500 error.
func Internal(message string) *StatusError { return New(http.StatusInternalServerError, message) }

// ResponseError reports an upstream HTTP exchange that completed with a non-2xx status.
type ResponseError struct {
	Method     string
	URL        string
	StatusCode int
	// Message is the upstream status message when the body carried one.
	Message string
}

func (e *ResponseError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("[%s] %q: %d %s", e.Method, e.URL, e.StatusCode, msg)
}

// FromOperation classifies a failure of a named operation into a StatusError.
//
//   - an upstream response with a status keeps that status;
//   - a transport failure without a response becomes 500 and keeps the cause in the message;
//   - anything else becomes 500 with a generic message.
//
// An existing StatusError is returned unchanged.
func FromOperation(err error, operation string) *StatusError {
	if err == nil {
		return nil
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr
	}

	var respErr *ResponseError
	if errors.As(err, &respErr) && respErr.StatusCode > 0 {
		return Wrap(err, respErr.StatusCode, operationMessage(operation, err))
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return Wrap(err, http.StatusInternalServerError, operationMessage(operation, err))
	}

	return Wrap(err, http.StatusInternalServerError, operation+" failed due to an unexpected error.")
}

func operationMessage(operation string, err error) string {
	msg := err.Error()
	if msg == "" {
		msg = "Unknown error"
	}
	return fmt.Sprintf("%s failed. Error: %s", operation, msg)
}

// StatusCodeOf returns the status carried by err, or 500 when err is not a StatusError.
// A nil error yields 200.
func StatusCodeOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	var respErr *ResponseError
	if errors.As(err, &respErr) && respErr.StatusCode > 0 {
		return respErr.StatusCode
	}
	return http.StatusInternalServerError
}

// MessageOf returns the user-facing message carried by err.
func MessageOf(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusMessage
	}
	if err == nil {
		return ""
	}
	return http.StatusText(StatusCodeOf(err))
}

func isStatus(err error, statusCode int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == statusCode
}

// IsBadRequest checks if an error is a 400 StatusError.
func IsBadRequest(err error) bool { return isStatus(err, http.StatusBadRequest) }

// IsUnauthorized checks if an error is a 401 StatusError.
func IsUnauthorized(err error) bool { return isStatus(err, http.StatusUnauthorized) }

// IsForbidden checks if an error is a 403 StatusError.
func IsForbidden(err error) bool { return isStatus(err, http.StatusForbidden) }

// IsInternal checks if an error is a 500 StatusError.
func IsInternal(err error) bool { return isStatus(err, http.StatusInternalServerError) }
