// Package rmerr defines the error taxonomy shared across the reMarkable
// tagged-block reader: every parsing failure is one of three kinds, and
// carries the reader's cursor position as context.
package rmerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies why a read failed.
type Kind int

const (
	// KindIO means the underlying byte source was exhausted or unreadable.
	KindIO Kind = iota
	// KindInvalidInput means the stream was readable but structurally wrong:
	// a tag mismatch, a bad subblock size, an unknown enum discriminant, a
	// dangling tree reference, and so on.
	KindInvalidInput
	// KindUnsupported means the stream is a recognized but unhandled
	// format or version.
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindInvalidInput:
		return "invalid_input"
	case KindUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("unknown_kind(%d)", int(k))
	}
}

// Error is the error type returned by every package in this module.
// Context records the reader's cursor position at the moment of failure,
// or a note that the cursor had already reached EOF.
type Error struct {
	Kind    Kind
	Message string
	Context string
	cause   error
}

func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Context)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.cause
}

// IO builds a KindIO error.
func IO(format string, args ...any) *Error {
	return &Error{Kind: KindIO, Message: fmt.Sprintf(format, args...)}
}

// Invalid builds a KindInvalidInput error.
func Invalid(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// Unsupported builds a KindUnsupported error.
func Unsupported(format string, args ...any) *Error {
	return &Error{Kind: KindUnsupported, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies a foreign (non-*Error) error as kind and attaches it
// as the cause. An error that is already an *Error is returned unchanged.
func Wrap(err error, kind Kind, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	if rmErr, ok := err.(*Error); ok {
		return rmErr
	}
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		cause:   errors.WithStack(err),
	}
}

// WithContext attaches cursor-position context to an error, unless it
// already carries one. pos is the reader's position when the failure
// was observed; atEOF indicates the cursor had already been exhausted.
func WithContext(err error, pos int64, atEOF bool) error {
	if err == nil {
		return nil
	}
	rmErr, ok := err.(*Error)
	if !ok {
		rmErr = &Error{Kind: KindInvalidInput, Message: err.Error(), cause: err}
	}
	if rmErr.Context != "" {
		return rmErr
	}
	if atEOF {
		rmErr.Context = "error occurred after data has been read"
	} else {
		rmErr.Context = fmt.Sprintf("cursor position %d", pos)
	}
	return rmErr
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var rmErr *Error
	if errors.As(err, &rmErr) {
		return rmErr.Kind == kind
	}
	return false
}
