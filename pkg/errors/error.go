// Package errors carries the coded errors of the replay engine.
//
// Codes are grouped by where the failure originates:
//   - 1-99: unknown
//   - 100-199: validation of requests, trade intents, timestamps and configuration
//   - 200-299: tick vendors (credentials, availability, empty windows, queries)
//   - 300-399: replay (front-month resolution, bar limits)
//   - 400-499: export of ticks, bars and metrics
//
// A replay either returns a complete metrics record or one of these errors:
//
//	if errors.HasCode(err, errors.ErrCodeEmptyWindow) {
//		// the market was closed for the whole window
//	}
package errors

import (
	"errors"
	"fmt"
)

// Error is a failure tagged with an ErrorCode. Cause is optional.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates an Error without a cause.
func New(code ErrorCode, message string) *Error {
	return Wrap(code, message, nil)
}

// Newf is New with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return Wrap(code, fmt.Sprintf(format, args...), nil)
}

// Wrap tags cause with code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%d] %s", e.Code, e.Message)
	}

	return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Kind is the name of the error's code, e.g. "EmptyWindow".
func (e *Error) Kind() string {
	return e.Code.String()
}

// Is wraps the standard errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps the standard errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode returns the code of the outermost *Error in err's chain, or
// ErrCodeUnknown when there is none.
func GetCode(err error) ErrorCode {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}

	return ErrCodeUnknown
}

// HasCode reports whether GetCode(err) is code.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}
