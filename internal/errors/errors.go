package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Sift error code.
type ErrorCode string

const (
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"      // 400
	ErrInvalidFilterValue ErrorCode = "INVALID_FILTER_VALUE" // 400
	ErrUnparsableQuery    ErrorCode = "UNPARSABLE_QUERY"     // 400
	ErrUnparsableNumber   ErrorCode = "UNPARSABLE_NUMBER"    // 400
	ErrUnparsableLetter   ErrorCode = "UNPARSABLE_LETTER"    // 400
	ErrNotFound           ErrorCode = "NOT_FOUND"            // 404
	ErrFileNotFound       ErrorCode = "FILE_NOT_FOUND"       // 404
	ErrAlreadyExists      ErrorCode = "ALREADY_EXISTS"       // 409
	ErrInvalidValueType   ErrorCode = "INVALID_VALUE_TYPE"   // 422
	ErrCancelled          ErrorCode = "CANCELLED"            // 499
	ErrInternal           ErrorCode = "INTERNAL"             // 500
)

// SiftError represents a structured error with code, status, and details.
type SiftError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *SiftError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *SiftError {
	return &SiftError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidFilterValue creates a 400 error for a filter parameter that cannot be parsed.
func NewInvalidFilterValue(param, value, want string) *SiftError {
	return &SiftError{
		Code:    ErrInvalidFilterValue,
		Status:  400,
		Message: fmt.Sprintf("invalid value for %s: %q (must be %s)", param, value, want),
		Details: map[string]any{"parameter": param, "value": value},
	}
}

// NewUnparsableQuery creates a 400 error when no interpretation rule matches a query.
func NewUnparsableQuery(query string) *SiftError {
	return &SiftError{
		Code:    ErrUnparsableQuery,
		Status:  400,
		Message: "unable to interpret natural language query",
		Details: map[string]any{"query": query},
	}
}

// NewUnparsableNumber creates a 400 error when a length query has no numeric token.
func NewUnparsableNumber(query string) *SiftError {
	return &SiftError{
		Code:    ErrUnparsableNumber,
		Status:  400,
		Message: "unable to parse numeric value in query",
		Details: map[string]any{"query": query},
	}
}

// NewUnparsableLetter creates a 400 error when a letter query names no letter.
func NewUnparsableLetter(query string) *SiftError {
	return &SiftError{
		Code:    ErrUnparsableLetter,
		Status:  400,
		Message: "unable to parse letter from query",
		Details: map[string]any{"query": query},
	}
}

// NewNotFound creates a 404 error for when a string record cannot be found.
func NewNotFound(value string) *SiftError {
	return &SiftError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("string not found: %q", value),
		Details: map[string]any{"value": value},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *SiftError {
	return &SiftError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewAlreadyExists creates a 409 error when a value is already stored.
func NewAlreadyExists(value string) *SiftError {
	return &SiftError{
		Code:    ErrAlreadyExists,
		Status:  409,
		Message: "string already exists",
		Details: map[string]any{"value": value},
	}
}

// NewInvalidValueType creates a 422 error when a field has the wrong type or encoding.
func NewInvalidValueType(field, want string) *SiftError {
	return &SiftError{
		Code:    ErrInvalidValueType,
		Status:  422,
		Message: fmt.Sprintf("invalid data type for %q (must be %s)", field, want),
		Details: map[string]any{"field": field},
	}
}

// NewCancelled creates a 499 error when an operation is interrupted by its context.
func NewCancelled(op string) *SiftError {
	return &SiftError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message stays generic; the cause is kept in Details for logging.
func NewInternal(err error) *SiftError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &SiftError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error is (or wraps) a SiftError with the given code.
func Is(err error, code ErrorCode) bool {
	var sErr *SiftError
	if stderrors.As(err, &sErr) {
		return sErr.Code == code
	}
	return false
}
