// Package errs defines the error kinds shared by the resource codecs.
//
// Every failure a codec reports carries one of a small set of kinds so
// that callers can tell an unreadable file from a malformed one, or a
// missing key from a file whose structure could not be located.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// Other is the kind of errors that did not originate in this module.
	Other Kind = iota
	// IO covers read and write failures of the underlying file.
	IO
	// Parse covers malformed XML or JSON input.
	Parse
	// Structural means an expected anchor (root element, defineLocales
	// call, closing brace) is missing.
	Structural
	// NotFound means the key addressed by an update is absent.
	NotFound
	// Conflict means the key addressed by an add already exists.
	Conflict
)

func (k Kind) String() string {
	switch k {
	case IO:
		return "io"
	case Parse:
		return "parse"
	case Structural:
		return "structural"
	case NotFound:
		return "not found"
	case Conflict:
		return "conflict"
	}
	return "other"
}

// Error is a classified failure of an operation on a file.
type Error struct {
	Kind Kind
	Op   string // "read", "remove", "update", ...
	Path string // may be empty for in-memory transforms
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Err != nil {
		msg = e.Err.Error()
	}
	switch {
	case e.Op != "" && e.Path != "":
		return fmt.Sprintf("%s %s: %s", e.Op, e.Path, msg)
	case e.Op != "":
		return e.Op + ": " + msg
	case e.Path != "":
		return e.Path + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// E builds an *Error whose message is formatted like fmt.Errorf.
func E(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap classifies err. A nil err yields nil.
func Wrap(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// WithPath returns err with Op and Path filled in when err is an *Error
// without a path. Unclassified errors are wrapped with kind Other.
func WithPath(err error, op, path string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Path == "" {
			return &Error{Kind: e.Kind, Op: op, Path: path, Err: e.Err}
		}
		return err
	}
	return &Error{Kind: Other, Op: op, Path: path, Err: err}
}

// KindOf reports the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
