package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeSource represents word source errors (files, downloads)
	ErrorTypeSource ErrorType = "source"
	// ErrorTypeStore represents datamart and snapshot storage errors
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeGraph represents graph availability and query errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Source Errors

// ErrSourceFetchFailed is returned when a remote word source cannot be downloaded
type ErrSourceFetchFailed struct {
	*BaseError
	URL        string
	StatusCode int
}

func NewSourceFetchFailed(url string, statusCode int, err error) *ErrSourceFetchFailed {
	msg := fmt.Sprintf("failed to fetch %s", url)
	if statusCode > 0 {
		msg = fmt.Sprintf("failed to fetch %s (status %d)", url, statusCode)
	}
	return &ErrSourceFetchFailed{
		BaseError:  NewBaseError(ErrorTypeSource, msg, err),
		URL:        url,
		StatusCode: statusCode,
	}
}

// ErrSourceReadFailed is returned when a local word source cannot be read or copied
type ErrSourceReadFailed struct {
	*BaseError
	Path string
}

func NewSourceReadFailed(path string, err error) *ErrSourceReadFailed {
	return &ErrSourceReadFailed{
		BaseError: NewBaseError(ErrorTypeSource, fmt.Sprintf("failed to read %s", path), err),
		Path:      path,
	}
}

// Store Errors

// ErrStoreFailed is returned when a datamart or snapshot operation fails
type ErrStoreFailed struct {
	*BaseError
	Operation string
}

func NewStoreFailed(operation string, err error) *ErrStoreFailed {
	return &ErrStoreFailed{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("store operation failed: %s", operation), err),
		Operation: operation,
	}
}

// ErrSnapshotNotFound is returned when no graph snapshot has been saved yet
type ErrSnapshotNotFound struct {
	*BaseError
	Location string
}

func NewSnapshotNotFound(location string) *ErrSnapshotNotFound {
	return &ErrSnapshotNotFound{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("snapshot not found: %s", location), nil),
		Location:  location,
	}
}

// Graph Errors

// ErrGraphNotLoaded is returned when a query arrives before any graph is published
var ErrGraphNotLoaded = NewBaseError(ErrorTypeGraph, "graph not initialized", nil)

// ErrGraphEmptyVocabulary is returned when a build is requested with no words
var ErrGraphEmptyVocabulary = NewBaseError(ErrorTypeGraph, "no words available to build the graph", nil)

// Context Errors

// ErrContextTimeout is returned when context times out
type ErrContextTimeout struct {
	*BaseError
	Operation string
	Timeout   time.Duration
}

func NewContextTimeout(operation string, timeout time.Duration, err error) *ErrContextTimeout {
	return &ErrContextTimeout{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context timeout: %s (timeout: %v)", operation, timeout), err),
		Operation: operation,
		Timeout:   timeout,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// typed is satisfied by every error in this package through the embedded BaseError
type typed interface {
	errorType() ErrorType
}

func (e *BaseError) errorType() ErrorType {
	return e.Type
}

// IsErrorType checks if an error, or any error it wraps, is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		if t, ok := err.(typed); ok && t.errorType() == errType {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	// Context errors are not retryable
	if IsErrorType(err, ErrorTypeContext) {
		return false
	}
	var notFound *ErrSnapshotNotFound
	if errors.As(err, &notFound) {
		return false
	}
	var fetchErr *ErrSourceFetchFailed
	if errors.As(err, &fetchErr) {
		// Server-side and transport failures are worth another attempt
		return fetchErr.StatusCode == 0 || fetchErr.StatusCode >= 500
	}
	// Storage errors are usually transient (locks, connections)
	return IsErrorType(err, ErrorTypeStore)
}
