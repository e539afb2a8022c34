package entity

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation          ErrorKind = "validation"
	KindInsufficientBalance ErrorKind = "insufficient_balance"
	KindNotFound            ErrorKind = "not_found"
	KindAlreadyResolved     ErrorKind = "already_resolved"
	KindConcurrencyConflict ErrorKind = "concurrency_conflict"
	KindInvariant           ErrorKind = "invariant"
)

// Error carries a stable kind next to a human message. Compare with
// errors.Is against the Err* sentinels, which match on kind only.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

var (
	ErrValidation          = &Error{Kind: KindValidation}
	ErrInsufficientBalance = &Error{Kind: KindInsufficientBalance}
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrAlreadyResolved     = &Error{Kind: KindAlreadyResolved}
	ErrConcurrencyConflict = &Error{Kind: KindConcurrencyConflict}
	ErrInvariant           = &Error{Kind: KindInvariant}
)

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NewValidationError(format string, args ...interface{}) error {
	return newError(KindValidation, format, args...)
}

func NewInsufficientBalanceError(format string, args ...interface{}) error {
	return newError(KindInsufficientBalance, format, args...)
}

func NewNotFoundError(format string, args ...interface{}) error {
	return newError(KindNotFound, format, args...)
}

func NewAlreadyResolvedError(format string, args ...interface{}) error {
	return newError(KindAlreadyResolved, format, args...)
}

func NewConcurrencyConflictError(format string, args ...interface{}) error {
	return newError(KindConcurrencyConflict, format, args...)
}

func NewInvariantError(format string, args ...interface{}) error {
	return newError(KindInvariant, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain, or "" when
// err is not a domain error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
