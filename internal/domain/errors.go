package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures crossing package boundaries
type ErrorKind string

const (
	KindValidation ErrorKind = "validation" // malformed input or query
	KindNotFound   ErrorKind = "not_found"  // no record for the identifier
	KindStorage    ErrorKind = "storage"    // record store read/write failure
	KindFileSystem ErrorKind = "filesystem" // non-fatal unlink failure
)

// Sentinels for errors.Is checks against *Error values
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")
	ErrFileSystem = errors.New("filesystem warning")
)

// Error carries a kind plus the operation and identifier it relates to
type Error struct {
	Kind ErrorKind
	Op   string
	ID   string
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.ID != "" {
		msg += fmt.Sprintf(" (id %s)", e.ID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel belonging to the error's kind
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrStorage:
		return e.Kind == KindStorage
	case ErrFileSystem:
		return e.Kind == KindFileSystem
	}
	return false
}

// NewValidationError reports malformed input
func NewValidationError(op string, err error) *Error {
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

// NewNotFoundError reports an identifier with no matching record
func NewNotFoundError(op, id string) *Error {
	return &Error{Kind: KindNotFound, Op: op, ID: id}
}

// NewStorageError wraps a record store failure
func NewStorageError(op, id string, err error) *Error {
	return &Error{Kind: KindStorage, Op: op, ID: id, Err: err}
}

// NewFileSystemWarning wraps a filesystem failure that must not reach callers
func NewFileSystemWarning(op, path string, err error) *Error {
	return &Error{Kind: KindFileSystem, Op: op, ID: path, Err: err}
}

// KindOf returns the kind of err, or "" when err carries none
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsClientFault reports whether err is caused by the caller's input
func IsClientFault(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound)
}
