package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so calling layers can pick a message or status code.
type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindInsufficientSeats Kind = "INSUFFICIENT_SEATS"
	KindAlreadyExists     Kind = "ALREADY_EXISTS"
	KindInvalidState      Kind = "INVALID_STATE"
	KindValidation        Kind = "VALIDATION"
	KindInternal          Kind = "INTERNAL"
)

// AppError is the single error type returned by storage and services.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError of the same kind, so the bare sentinels below
// work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound          = &AppError{Kind: KindNotFound}
	ErrInsufficientSeats = &AppError{Kind: KindInsufficientSeats}
	ErrAlreadyExists     = &AppError{Kind: KindAlreadyExists}
	ErrInvalidState      = &AppError{Kind: KindInvalidState}
	ErrValidation        = &AppError{Kind: KindValidation}
	ErrInternal          = &AppError{Kind: KindInternal}
)

func NotFound(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InsufficientSeats(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindInsufficientSeats, Message: fmt.Sprintf(format, args...)}
}

func AlreadyExists(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Internal(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of the first AppError in err's chain, or
// KindInternal for foreign errors. A nil error has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the human readable part of err without the kind prefix.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
