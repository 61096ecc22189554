package errors

import "fmt"

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter      ErrorCode = 100
	ErrCodeInvalidConfiguration  ErrorCode = 101
	ErrCodePreconditionViolation ErrorCode = 102
	ErrCodeBadTimestamp          ErrorCode = 103
	ErrCodeWindowTooLarge        ErrorCode = 104
	ErrCodeVersionMismatch       ErrorCode = 105

	// Upstream errors (200-299)
	ErrCodeAuthMissing         ErrorCode = 200
	ErrCodeUpstreamUnavailable ErrorCode = 201
	ErrCodeEmptyWindow         ErrorCode = 202
	ErrCodeInvalidProvider     ErrorCode = 203
	ErrCodeQueryFailed         ErrorCode = 204

	// Replay errors (300-399)
	ErrCodeNoInstruments    ErrorCode = 300
	ErrCodeBarLimitExceeded ErrorCode = 301

	// Export errors (400-499)
	ErrCodeWriteFailed ErrorCode = 400
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:               "Unknown",
	ErrCodeInvalidParameter:      "InvalidParameter",
	ErrCodeInvalidConfiguration:  "InvalidConfiguration",
	ErrCodePreconditionViolation: "PreconditionViolation",
	ErrCodeBadTimestamp:          "BadTimestamp",
	ErrCodeWindowTooLarge:        "WindowTooLarge",
	ErrCodeVersionMismatch:       "VersionMismatch",
	ErrCodeAuthMissing:           "AuthMissing",
	ErrCodeUpstreamUnavailable:   "UpstreamUnavailable",
	ErrCodeEmptyWindow:           "EmptyWindow",
	ErrCodeInvalidProvider:       "InvalidProvider",
	ErrCodeQueryFailed:           "QueryFailed",
	ErrCodeNoInstruments:         "NoInstruments",
	ErrCodeBarLimitExceeded:      "BarLimitExceeded",
	ErrCodeWriteFailed:           "WriteFailed",
}

// String returns the name of the code, or "ErrorCode(n)" for an unregistered code.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}

	return fmt.Sprintf("ErrorCode(%d)", int(c))
}
