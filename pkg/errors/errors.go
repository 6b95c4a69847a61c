package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound         = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrValidation       = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal         = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss        = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrImportFailed     = New("IMPORT_FAILED", http.StatusBadGateway, "failed to import source data")
	ErrUnknownYear      = New("UNKNOWN_YEAR", http.StatusBadRequest, "no sources configured for year")
	ErrImportSuperseded = New("IMPORT_SUPERSEDED", http.StatusConflict, "import superseded by a newer request")
	ErrImportQueueFull  = New("IMPORT_QUEUE_FULL", http.StatusServiceUnavailable, "too many pending imports")
)

// FetchError reports a failed upstream fetch. Status is the upstream HTTP status, or 0 when the
// request never produced a response.
type FetchError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Message)
}

// NewFetchError builds a FetchError.
func NewFetchError(status int, format string, args ...any) *FetchError {
	return &FetchError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
