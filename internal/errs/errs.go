// Package errs defines the failure taxonomy shared by every artifact
// operation. Callers classify failures with errors.Is against the sentinel
// values, or with KindOf.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind uint8

const (
	Other Kind = iota
	// AlreadyExists signals a name collision; it is expected and non-fatal.
	AlreadyExists
	Filesystem
	Download
	Setup
	Validation
	NotFound
)

func (k Kind) String() string {
	switch k {
	case AlreadyExists:
		return "already exists"
	case Filesystem:
		return "filesystem error"
	case Download:
		return "download error"
	case Setup:
		return "setup error"
	case Validation:
		return "validation error"
	case NotFound:
		return "not found"
	default:
		return "error"
	}
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrAlreadyExists = &Error{Kind: AlreadyExists}
	ErrFilesystem    = &Error{Kind: Filesystem}
	ErrDownload      = &Error{Kind: Download}
	ErrSetup         = &Error{Kind: Setup}
	ErrValidation    = &Error{Kind: Validation}
	ErrNotFound      = &Error{Kind: NotFound}
)

// Error is a classified failure of a single operation step.
type Error struct {
	Kind Kind
	Op   string // e.g. "create project", "backup managed file"
	Path string
	Err  error
}

// E builds an *Error. err may be nil.
func E(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Errorf builds an *Error whose cause is a formatted message.
func Errorf(kind Kind, op, path, format string, args ...any) *Error {
	return E(kind, op, path, fmt.Errorf(format, args...))
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a bare sentinel of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Op != "" || t.Path != "" || t.Err != nil {
		return e == t
	}
	return e.Kind == t.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or Other.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}
