package actions

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Code string

const (
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeNotFound     Code = "NOT_FOUND"
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Error is the typed failure every action returns. Message is safe to show
// to callers; the wrapped cause is for logs only.
type Error struct {
	Code    Code              `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func Unauthorized() *Error {
	return &Error{Code: CodeUnauthorized, Message: "authentication required"}
}

func NotFound(what string) *Error {
	return &Error{Code: CodeNotFound, Message: what + " not found"}
}

func Validation(message string, fields map[string]string) *Error {
	if message == "" {
		message = describeFields(fields)
	}
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

func Internal(cause error) *Error {
	return &Error{Code: CodeInternal, Message: "internal error", cause: cause}
}

// AsError returns err as an *Error, classifying unknown errors as internal.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var actionErr *Error
	if errors.As(err, &actionErr) {
		return actionErr
	}
	return Internal(err)
}

func describeFields(fields map[string]string) string {
	if len(fields) == 0 {
		return "invalid input"
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+fields[name])
	}
	return strings.Join(parts, "; ")
}
