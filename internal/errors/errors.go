// Package errors defines the coded error type used for the installer's fatal
// taxonomy. Components return these; only the cli layer turns them into a
// process exit.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of failure independently of its message.
type ErrorCode string

const (
	ErrUnknown ErrorCode = "UNKNOWN"

	// ErrInvalidOption is a malformed or unsupported option value.
	ErrInvalidOption ErrorCode = "INVALID_OPTION"
	// ErrDestinationPopulated means assets already exist, no ledger was
	// found and --force was not given.
	ErrDestinationPopulated ErrorCode = "DESTINATION_POPULATED"
	// ErrArchiveStructure means the downloaded bundle lacks the asset root.
	ErrArchiveStructure ErrorCode = "ARCHIVE_STRUCTURE"

	ErrTagResolve      ErrorCode = "TAG_RESOLVE"
	ErrDownload        ErrorCode = "DOWNLOAD"
	ErrExtract         ErrorCode = "EXTRACT"
	ErrFileIO          ErrorCode = "FILE_IO"
	ErrManifestWrite   ErrorCode = "MANIFEST_WRITE"
	ErrDeclarationFile ErrorCode = "DECLARATION_FILE"
)

// Error is a structured error with a stable code and optional details.
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is matches another *Error with the same code.
func (e *Error) Is(target error) bool {
	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates an Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates an Error with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps err with a code and message. It returns nil when err is nil.
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps err with a code and a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// GetCode returns the code of the first *Error in err's chain, or ErrUnknown.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrUnknown
}

// GetDetails merges the details of every *Error in err's chain. Outer errors
// win on duplicate keys. It returns nil when there are none.
func GetDetails(err error) map[string]interface{} {
	var details map[string]interface{}
	for err != nil {
		if e, ok := err.(*Error); ok {
			for k, v := range e.Details {
				if details == nil {
					details = make(map[string]interface{})
				}
				if _, seen := details[k]; !seen {
					details[k] = v
				}
			}
		}
		err = errors.Unwrap(err)
	}
	return details
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && GetCode(err) == code
}

// UserMessage returns the message meant for the terminal: the Message of the
// outermost *Error, or err.Error() for anything else.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Wrapped != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Wrapped)
		}
		return e.Message
	}
	return err.Error()
}
