// Package errors defines the coded errors shared by the optimizer, the CLI
// and the HTTP API.
//
// Every failure a caller can act on carries a [Code]. The CLI maps codes to
// exit statuses and the server maps them to HTTP statuses, so neither has to
// parse messages.
//
// Codes are grouped by prefix:
//   - INVALID_* and UNKNOWN_*: the caller supplied a bad catalog, expression,
//     schedule or request
//   - *NOT_FOUND: a file or saved run does not exist
//   - STORAGE_ERROR and TIMEOUT: a cache or store backend failed
//   - INTERNAL_ERROR: an optimizer invariant broke, which is a bug
//
// Typical use:
//
//	if len(tokens) == 0 {
//	    return errs.New(errs.ErrCodeInvalidExpression, "expression is empty")
//	}
//	...
//	if errs.Is(err, errs.ErrCodeUnknownModule) {
//	    // point the user at the catalog
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidCatalog    Code = "INVALID_CATALOG"
	ErrCodeInvalidModule     Code = "INVALID_MODULE"
	ErrCodeInvalidExpression Code = "INVALID_EXPRESSION"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeUnknownModule     Code = "UNKNOWN_MODULE"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeRunNotFound  Code = "RUN_NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeStorage Code = "STORAGE_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// invalid lists the codes that blame the caller's input.
var invalid = map[Code]bool{
	ErrCodeInvalidInput:      true,
	ErrCodeInvalidCatalog:    true,
	ErrCodeInvalidModule:     true,
	ErrCodeInvalidExpression: true,
	ErrCodeInvalidConfig:     true,
	ErrCodeInvalidFormat:     true,
	ErrCodeUnknownModule:     true,
}

// Error pairs a Code with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a printf-style message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap is like New but records cause, which stays reachable through
// errors.Is and errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// Is reports whether err's outermost *Error has the given code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// IsInvalid reports whether err blames the caller's input.
func IsInvalid(err error) bool {
	return invalid[GetCode(err)]
}

// UserMessage strips the code prefix for display. Errors without a code are
// returned as they print.
func UserMessage(err error) string {
	if e, ok := as(err); ok {
		return e.Message
	}
	return err.Error()
}

func as(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// LineError locates a parse failure on a 1-based line of an input file.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *LineError) Unwrap() error { return e.Err }
