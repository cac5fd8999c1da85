// Package errs defines the error kinds shared by the block device reader,
// the v6 codec, and the front-end commands, per the error handling policy:
// decoding errors are fatal for the inode being processed but recoverable
// for traversal; RangeError against a user-supplied inode number produces a
// message and skips that root; IOError aborts the whole session.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an Error so callers can branch with errors.Is against the
// package-level sentinels below, regardless of the specific message.
type Kind int

const (
	// Range marks an inode number or block index outside its valid bounds.
	Range Kind = iota
	// Format marks a decoded structure that violates the on-disk layout's
	// invariants (block-count mismatch, out-of-volume indirect pointer,
	// truncated record).
	Format
	// IO marks a failure reading the underlying backend.
	IO
	// Usage marks a CLI argument violation.
	Usage
)

func (k Kind) String() string {
	switch k {
	case Range:
		return "range"
	case Format:
		return "format"
	case IO:
		return "io"
	case Usage:
		return "usage"
	default:
		return "unknown"
	}
}

// Error is a Kind-tagged error. Compare against ErrRange/ErrFormat/ErrIO/
// ErrUsage with errors.Is; the Kind survives %w wrapping.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is one of the four Kind sentinels and matches
// this error's Kind, so errors.Is(err, errs.ErrFormat) works without callers
// needing to know about the Error type.
func (e *Error) Is(target error) bool {
	sentinel, ok := target.(*Error)
	if !ok {
		return false
	}
	return sentinel.Kind == e.Kind && sentinel.msg == ""
}

// Sentinels for use with errors.Is. They carry no message, only a Kind.
var (
	ErrRange  = &Error{Kind: Range}
	ErrFormat = &Error{Kind: Format}
	ErrIO     = &Error{Kind: IO}
	ErrUsage  = &Error{Kind: Usage}
)

func newf(k Kind, format string, a ...any) *Error {
	return &Error{Kind: k, msg: fmt.Sprintf(format, a...)}
}

// Rangef builds a RangeError with a formatted message.
func Rangef(format string, a ...any) error { return newf(Range, format, a...) }

// Formatf builds a FormatError with a formatted message.
func Formatf(format string, a ...any) error { return newf(Format, format, a...) }

// IOf wraps err as an IOError with additional context.
func IOf(err error, format string, a ...any) error {
	e := newf(IO, format, a...)
	e.err = err
	return e
}

// Usagef builds a UsageError with a formatted message.
func Usagef(format string, a ...any) error { return newf(Usage, format, a...) }

// ExitCode maps an error's Kind to the process exit code the front-ends use:
// 0 success (not applicable here), 1 usage error, 2 format/range/io error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == Usage {
			return 1
		}
		return 2
	}
	return 2
}
