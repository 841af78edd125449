package common

import (
	"errors"
	"fmt"
	"strings"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	// ErrStructural marks a spreadsheet whose shape does not match either
	// known export layout (missing columns, missing header row).
	ErrStructural = errors.New("spreadsheet structure invalid")
	// ErrNoOrders marks a structurally valid spreadsheet from which zero
	// order rows survived filtering.
	ErrNoOrders = errors.New("no orders found")

	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// GeocodingError reports an address that could not be resolved to
// coordinates. Address holds the formatted-address string as sent to the
// geocoding service.
type GeocodingError struct {
	Address string
	Reason  string
}

func NewGeocodingError(address, reason string) *GeocodingError {
	return &GeocodingError{Address: address, Reason: reason}
}

func (e *GeocodingError) Error() string {
	return fmt.Sprintf("failed to geocode %q: %s", e.Address, e.Reason)
}

// AggregateGeocodingErrors folds per-address failures into a single error
// listing every address that could not be resolved.
func AggregateGeocodingErrors(errs []*GeocodingError) *GeocodingError {
	if len(errs) == 1 {
		return errs[0]
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return &GeocodingError{
		Address: "multiple addresses",
		Reason:  "failed to geocode: " + strings.Join(parts, "; "),
	}
}

// RoutingError reports a distance-matrix or solver failure.
type RoutingError struct {
	Message string
	Cause   error
}

func NewRoutingError(message string, cause error) *RoutingError {
	return &RoutingError{Message: message, Cause: cause}
}

func (e *RoutingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("routing failed: %s: %v", e.Message, e.Cause)
	}
	return "routing failed: " + e.Message
}

func (e *RoutingError) Unwrap() error {
	return e.Cause
}
