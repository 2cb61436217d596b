// Package errorsx defines the error taxonomy shared by every I/O and
// engine layer, and a panic-recovery helper in the spirit of the
// project's ambient error handling.
//
// Every user-visible failure is constructed through one of the
// constructor helpers below (FileMissing, BadFormat, BadArgs, ...) so the CLI can print a single stable message and exit
// with a uniform status code, regardless of which layer raised it.
package errorsx

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a Sushi error for callers that want to branch on it
// (the CLI only needs the message, but tests and library callers may
// care about the distinction).
type Kind int

const (
	KindFileMissing Kind = iota
	KindBadFormat
	KindBadArgs
	KindNoStreams
	KindAmbiguousStream
	KindInternalInvariant
)

func (k Kind) String() string {
	switch k {
	case KindFileMissing:
		return "file missing"
	case KindBadFormat:
		return "bad format"
	case KindBadArgs:
		return "bad arguments"
	case KindNoStreams:
		return "no streams"
	case KindAmbiguousStream:
		return "ambiguous stream"
	case KindInternalInvariant:
		return "internal invariant violated"
	default:
		return "error"
	}
}

// Error is the single user-visible failure type. It always carries a
// human-readable message and, except for InternalInvariant, is expected
// to be handled by printing Error() and exiting with a non-zero status.
type Error struct {
	Kind  Kind
	Title string // the file/stream title the message should name, if any
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.cause }

// Is allows errors.Is(err, &Error{Kind: KindBadFormat}) style checks.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.Kind == e.Kind
}

func newErr(kind Kind, title, format string, args ...any) *Error {
	return &Error{Kind: kind, Title: title, msg: fmt.Sprintf(format, args...)}
}

func FileMissing(path, title string) error {
	return newErr(KindFileMissing, title, "%s: file not found: %s", title, path)
}

func BadFormat(path, detail string) error {
	return newErr(KindBadFormat, path, "%s: %s", path, detail)
}

func BadArgs(detail string) error {
	return newErr(KindBadArgs, "", "invalid arguments: %s", detail)
}

func NoStreams(title string) error {
	return newErr(KindNoStreams, title, "%s: no matching audio/subtitle stream found", title)
}

func AmbiguousStream(title string, candidates []string) error {
	return newErr(KindAmbiguousStream, title, "%s: ambiguous stream, candidates: %v", title, candidates)
}

// InternalInvariant panics: these represent programmer bugs (a circular
// link, mutation of a linked event, an even median window) rather than
// recoverable user errors, and are never meant to be caught.
func InternalInvariant(detail string) error {
	err := newErr(KindInternalInvariant, "", "internal invariant violated: %s", detail)
	panic(err)
}

// Wrap attaches additional context to an existing error while
// preserving its Kind when the wrapped error is already an *Error.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	if se, ok := err.(*Error); ok {
		return &Error{Kind: se.Kind, Title: se.Title, msg: context, cause: se}
	}
	return errors.Wrap(err, context)
}
