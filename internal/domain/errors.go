package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the API. Every repository/service failure wraps
// exactly one of these so callers can dispatch with errors.Is.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrAuth        = errors.New("auth error")
	ErrStore       = errors.New("store error")
	ErrConsistency = errors.New("consistency error")
)

// Validationf wraps ErrValidation with a formatted detail message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with a formatted detail message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Authf wraps ErrAuth with a formatted detail message.
func Authf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrAuth, fmt.Sprintf(format, args...))
}

// Storef wraps ErrStore with a formatted detail message and underlying cause.
func Storef(cause error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %v", ErrStore, fmt.Sprintf(format, args...), cause)
}

// Consistencyf wraps ErrConsistency. Raised when the sample/ledger invariant
// was found violated and could not be repaired; callers should retry the
// whole transition rather than assume partial success.
func Consistencyf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConsistency, fmt.Sprintf(format, args...))
}
