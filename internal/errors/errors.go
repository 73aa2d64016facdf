package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// SyntaxInvalid indicates the parser reported at least one error diagnostic
	SyntaxInvalid ErrorCode = "SYNTAX_INVALID"
	// Unformatted indicates a file differs from its canonical form (check mode)
	Unformatted ErrorCode = "UNFORMATTED"
	// ConfigInvalid indicates an invalid configuration value
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// IOFailure indicates a file could not be read or written
	IOFailure ErrorCode = "IO_FAILURE"
	// InternalError indicates a formatter defect (contract violation)
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// Hint is a suggested follow-up for an error code
type Hint struct {
	Description string `json:"description" yaml:"description"`
	Command     string `json:"command,omitempty" yaml:"command,omitempty"`
}

// FormatError represents a formatter error with code, message and optional path
type FormatError struct {
	Code    ErrorCode `json:"code" yaml:"code"`
	Message string    `json:"message" yaml:"message"`
	Path    string    `json:"path,omitempty" yaml:"path,omitempty"`
	Details any       `json:"details,omitempty" yaml:"details,omitempty"`
	cause   error     // Underlying error (not exported to JSON)
}

// New creates a new FormatError
func New(code ErrorCode, message string, cause error) *FormatError {
	return &FormatError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *FormatError) Error() string {
	prefix := fmt.Sprintf("[%s]", e.Code)
	if e.Path != "" {
		prefix += " " + e.Path + ":"
	}
	if e.cause != nil {
		return fmt.Sprintf("%s %s: %v", prefix, e.Message, e.cause)
	}
	return fmt.Sprintf("%s %s", prefix, e.Message)
}

// Unwrap returns the underlying error
func (e *FormatError) Unwrap() error {
	return e.cause
}

// WithPath returns a copy of the error attributed to a file
func (e *FormatError) WithPath(path string) *FormatError {
	c := *e
	c.Path = path
	return &c
}

// WithDetails adds details to the error
func (e *FormatError) WithDetails(details any) *FormatError {
	e.Details = details
	return e
}

// CodeOf returns the code of the first FormatError in err's chain,
// or InternalError when err carries none.
func CodeOf(err error) ErrorCode {
	var fe *FormatError
	if stderrors.As(err, &fe) {
		return fe.Code
	}
	return InternalError
}

// From returns the first FormatError in err's chain
func From(err error) (*FormatError, bool) {
	var fe *FormatError
	if err != nil && stderrors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Is reports whether err's chain contains a FormatError with the given code
func Is(err error, code ErrorCode) bool {
	var fe *FormatError
	return err != nil && stderrors.As(err, &fe) && fe.Code == code
}

// Hints maps error codes to suggested follow-ups
var Hints = map[ErrorCode][]Hint{
	SyntaxInvalid: {
		{Description: "Fix the reported syntax errors; csfmt never formats invalid input"},
	},
	Unformatted: {
		{Description: "Rewrite the file in canonical form", Command: "csfmt fmt ${path}"},
	},
	ConfigInvalid: {
		{Description: "Inspect the effective configuration", Command: "csfmt config show"},
	},
}

// GetHints returns suggested follow-ups for an error code
func GetHints(code ErrorCode) []Hint {
	if hints, ok := Hints[code]; ok {
		return hints
	}
	return nil
}
