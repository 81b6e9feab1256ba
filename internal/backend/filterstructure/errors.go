package filterstructure

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures reported back to the user.
type ErrorKind int

const (
	KindParse ErrorKind = iota
	KindName
	KindType
	KindRuntime
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindParse:
		return "ParseError"
	case KindName:
		return "NameError"
	case KindType:
		return "TypeError"
	case KindRuntime:
		return "RuntimeError"
	case KindInternal:
		return "InternalError"
	default:
		return "UnknownError"
	}
}

// Error is a user facing failure of one of the pipeline stages.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ParseError reports malformed command text.
func ParseError(format string, args ...any) *Error { return newError(KindParse, format, args...) }

// NameError reports an unknown emoji or filter.
func NameError(format string, args ...any) *Error { return newError(KindName, format, args...) }

// TypeError reports a wrong argument count or an argument of the wrong kind.
func TypeError(format string, args ...any) *Error { return newError(KindType, format, args...) }

// RuntimeError reports a filter precondition violated by the value it received.
func RuntimeError(format string, args ...any) *Error { return newError(KindRuntime, format, args...) }

// AsError returns err as a taxonomy error. Anything that is not already one
// is wrapped as an internal error carrying the original text.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindInternal, Message: err.Error()}
}

// KindOf returns the kind of err, treating foreign errors as internal.
// A nil error has no kind and yields -1.
func KindOf(err error) ErrorKind {
	if err == nil {
		return -1
	}
	return AsError(err).Kind
}
