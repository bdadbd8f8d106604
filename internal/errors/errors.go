// Package errors provides error handling utilities.
package errors

import (
	"errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeUnknownCategory indicates a resource category with no service mapping
	TypeUnknownCategory Type = "UNKNOWN_CATEGORY"

	// TypeCatalogFetch indicates a catalog fetch failure
	TypeCatalogFetch Type = "CATALOG_FETCH"

	// TypeCacheIO indicates a price cache load or flush failure
	TypeCacheIO Type = "CACHE_IO"

	// TypeUnsupportedUnit indicates an unparseable unit of measure
	TypeUnsupportedUnit Type = "UNSUPPORTED_UNIT"

	// TypeNoCandidate indicates no catalog record matched a resource
	TypeNoCandidate Type = "NO_CANDIDATE"

	// TypeLowConfidence indicates a match below the confidence floor
	TypeLowConfidence Type = "LOW_CONFIDENCE"

	// TypeInvalidPlan indicates malformed or missing required plan input
	TypeInvalidPlan Type = "INVALID_PLAN"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// IsType checks if an error anywhere in the chain is of a specific type
func IsType(err error, t Type) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// UnknownCategory creates an unknown category error
func UnknownCategory(category string) *Error {
	return Newf(TypeUnknownCategory, "no service mapping for category: %s", category)
}

// CatalogFetch creates a catalog fetch error
func CatalogFetch(message string, cause error) *Error {
	return Wrap(TypeCatalogFetch, message, cause)
}

// CacheIO creates a cache IO error
func CacheIO(message string, cause error) *Error {
	return Wrap(TypeCacheIO, message, cause)
}

// UnsupportedUnit creates an unsupported unit error
func UnsupportedUnit(unit string) *Error {
	return Newf(TypeUnsupportedUnit, "unsupported unit of measure: %q", unit)
}

// NoCandidate creates a no candidate match error
func NoCandidate(service, region string) *Error {
	return Newf(TypeNoCandidate, "no catalog records matched service %s in %s", service, region)
}

// InvalidPlan creates an invalid plan error
func InvalidPlan(message string) *Error {
	return New(TypeInvalidPlan, message)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
