package cv

import (
	"context"
	"errors"

	errorslib "github.com/goliatone/go-errors"
)

// ErrorKind classifies errors returned by the builder.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindInvalidFormat ErrorKind = "invalid_format"
	KindNotFound      ErrorKind = "not_found"
	KindBusy          ErrorKind = "busy"
	KindTimeout       ErrorKind = "timeout"
	KindCanceled      ErrorKind = "canceled"
	KindIO            ErrorKind = "io"
	KindInternal      ErrorKind = "internal"
	KindNotImpl       ErrorKind = "not_implemented"
)

// Error wraps errors with a kind.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new error of the given kind.
func NewError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// ErrInvalidFormat is returned by imports that do not carry a personal block.
var ErrInvalidFormat = NewError(KindInvalidFormat, "invalid format", nil)

// AsGoError maps an error into a go-errors error.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	kind := KindFromError(err)
	msg := err.Error()
	var cvErr *Error
	if errors.As(err, &cvErr) && cvErr.Msg != "" {
		msg = cvErr.Msg
	}

	switch kind {
	case KindValidation:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("validation")
	case KindInvalidFormat:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("invalid_format")
	case KindNotFound:
		return errorslib.New(msg, errorslib.CategoryNotFound).WithTextCode("not_found")
	case KindBusy:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("busy")
	case KindTimeout:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("timeout")
	case KindCanceled:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("canceled")
	case KindNotImpl:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("not_implemented")
	case KindIO:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("io")
	default:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("internal")
	}
}

// KindFromError maps an error to its kind.
func KindFromError(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var cvErr *Error
	if errors.As(err, &cvErr) {
		return cvErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	return KindInternal
}

// IsKind reports whether err carries kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindFromError(err) == kind
}
