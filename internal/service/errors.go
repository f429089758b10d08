package service

import "errors"

// ErrorKind classifies every failure a core operation can report. Handlers
// map kinds to HTTP status codes; the message inside the envelope is the
// kind-specific text, never a raw dependency error.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindAuth
	KindExpired
	KindDependency
)

type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.cause }

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func AuthFailure(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

func Expired(message string) *Error {
	return &Error{Kind: KindExpired, Message: message}
}

func Dependency(message string, cause error) *Error {
	return &Error{Kind: KindDependency, Message: message, cause: cause}
}

// KindOf returns the classification of err, or KindUnknown for errors that
// did not originate from a core operation.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
