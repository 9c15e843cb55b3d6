package vfs

import "fmt"

// ErrKind is a POSIX-style error taxonomy (spec.md §4.1).
type ErrKind string

const (
	ENOENT    ErrKind = "ENOENT"
	EEXIST    ErrKind = "EEXIST"
	EISDIR    ErrKind = "EISDIR"
	ENOTDIR   ErrKind = "ENOTDIR"
	ENOTEMPTY ErrKind = "ENOTEMPTY"
)

// Error is the error type every VFS operation returns its failures as.
type Error struct {
	Kind ErrKind
	Path string
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Path, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Path)
}

func newErr(kind ErrKind, path, msg string) *Error {
	return &Error{Kind: kind, Path: path, Msg: msg}
}

// IsNotExist reports whether err is an ENOENT Error.
func IsNotExist(err error) bool { return errKindIs(err, ENOENT) }

// IsExist reports whether err is an EEXIST Error.
func IsExist(err error) bool { return errKindIs(err, EEXIST) }

func errKindIs(err error, kind ErrKind) bool {
	ve, ok := err.(*Error)
	return ok && ve.Kind == kind
}
