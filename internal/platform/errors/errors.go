// Package errors provides error types and utilities for subsift.
// It extends the standard errors package with wrapping helpers and the
// failure taxonomy used across pagination, wildcard probing and resolution.
package errors

import (
	"errors"
	"fmt"
	"net"
)

// Sentinel errors for common failure scenarios
var (
	// ErrTimeout indicates an operation exceeded its time limit
	ErrTimeout = errors.New("operation timed out")

	// ErrRateLimit indicates a rate limit was exceeded
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrInvalidInput indicates invalid input was provided
	ErrInvalidInput = errors.New("invalid input")

	// ErrConnectionFailed indicates a connection could not be established
	ErrConnectionFailed = errors.New("connection failed")

	// ErrServiceUnavailable indicates a service is temporarily unavailable (5xx)
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrMalformedResponse indicates a response body could not be parsed
	ErrMalformedResponse = errors.New("malformed response")

	// ErrNameNotFound indicates an authoritative NXDOMAIN answer.
	// It is a normal negative outcome, never retried.
	ErrNameNotFound = errors.New("name does not exist")

	// ErrServerFailure indicates a resolver-side SERVFAIL answer
	ErrServerFailure = errors.New("resolver server failure")

	// ErrAllSourcesFailed indicates every configured dataset source failed
	// before producing a single page. The only fatal discovery error.
	ErrAllSourcesFailed = errors.New("all sources failed")
)

// wrappedError wraps an error with additional context
type wrappedError struct {
	msg   string
	cause error
}

// Error implements the error interface
func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Unwrap returns the underlying error
func (e *wrappedError) Unwrap() error {
	return e.cause
}

// Wrap wraps an error with additional context message.
// If err is nil, Wrap returns nil.
//
// Example:
//   err := someOperation()
//   if err != nil {
//       return errors.Wrap(err, "failed to perform operation")
//   }
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg:   msg,
		cause: err,
	}
}

// Wrapf wraps an error with a formatted context message.
// If err is nil, Wrapf returns nil.
//
// Example:
//   err := fetchPage(page)
//   if err != nil {
//       return errors.Wrapf(err, "failed to fetch page %d", page)
//   }
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around errors.Is from the standard library.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type.
// This is a convenience wrapper around errors.As from the standard library.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// New creates a new error with the given message.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf formats according to a format specifier and returns the string as a value that satisfies error.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Join returns an error that wraps the given errors.
// Any nil error values are discarded.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// IsTimeout reports whether the error is a timeout error
func IsTimeout(err error) bool {
	return Is(err, ErrTimeout)
}

// IsRateLimit reports whether the error is a rate limit error
func IsRateLimit(err error) bool {
	return Is(err, ErrRateLimit)
}

// IsMalformedResponse reports whether the error is a malformed response error
func IsMalformedResponse(err error) bool {
	return Is(err, ErrMalformedResponse)
}

// IsNameNotFound reports whether the error is an authoritative NXDOMAIN
func IsNameNotFound(err error) bool {
	return Is(err, ErrNameNotFound)
}

// IsAllSourcesFailed reports whether the error is a total source failure
func IsAllSourcesFailed(err error) bool {
	return Is(err, ErrAllSourcesFailed)
}

// IsTransient reports whether the error is worth retrying: timeouts,
// throttling, connection failures, 5xx responses and SERVFAIL answers.
// Authoritative negatives (NXDOMAIN), malformed responses and cancellation
// are not transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if Is(err, ErrTimeout) ||
		Is(err, ErrRateLimit) ||
		Is(err, ErrConnectionFailed) ||
		Is(err, ErrServiceUnavailable) ||
		Is(err, ErrServerFailure) {
		return true
	}
	var netErr net.Error
	if As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
