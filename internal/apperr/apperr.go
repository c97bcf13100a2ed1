// Package apperr is the client's error taxonomy. Every failure the UI shows
// is an *AppError whose Kind decides how it is surfaced.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the category of an error.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
	KindConflict
	KindNetwork
	KindBusy
	KindCancelled
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindNetwork:
		return "network"
	case KindBusy:
		return "busy"
	case KindCancelled:
		return "cancelled"
	default:
		return "unexpected"
	}
}

// AppError is a categorised client error.
type AppError struct {
	Kind    Kind
	Message string
	Status  int // HTTP status when the error came from the backend
	Cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any *AppError of the same kind.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

func Validation(format string, args ...any) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(message string) *AppError {
	if message == "" {
		message = "session expired, please log in again"
	}
	return &AppError{Kind: KindUnauthorized, Message: message, Status: 401}
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message, Status: 404}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message, Status: 409}
}

func Network(op string, cause error) *AppError {
	return &AppError{Kind: KindNetwork, Message: op + " failed: backend unreachable", Cause: cause}
}

func Unexpected(message string, cause error) *AppError {
	return &AppError{Kind: KindUnexpected, Message: message, Cause: cause}
}

func Busy(id int64) *AppError {
	return &AppError{Kind: KindBusy, Message: fmt.Sprintf("todo %d has a request in flight", id)}
}

func Cancelled(message string) *AppError {
	return &AppError{Kind: KindCancelled, Message: message}
}

// KindOf returns the kind of err, KindUnexpected for foreign errors.
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnexpected
}

// IsKind reports whether err is an *AppError of kind k.
func IsKind(err error, k Kind) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.Kind == k
}

// UserMessage is the text shown in a toast or on stderr. Network and
// unexpected failures get a generic message; the detail goes to the log.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ae *AppError
	if !errors.As(err, &ae) {
		return "Something went wrong"
	}
	switch ae.Kind {
	case KindNetwork:
		return "Cannot reach the server, try again"
	case KindUnexpected:
		if ae.Message != "" && ae.Status != 0 {
			return ae.Message
		}
		return "Something went wrong"
	default:
		return ae.Message
	}
}

// ExitCode maps an error to the CLI convention: 0 ok, 1 error, 2 usage.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsKind(err, KindValidation), IsKind(err, KindCancelled):
		return 2
	default:
		return 1
	}
}
