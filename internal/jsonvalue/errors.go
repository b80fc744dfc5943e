package jsonvalue

import (
	"errors"
	"fmt"
)

var (
	ErrPathNotFound          = errors.New("path not found")
	ErrIndexOutOfRange       = errors.New("index out of range")
	ErrRootDeletionForbidden = errors.New("root can not be deleted")
	ErrKeyExists             = errors.New("key already exists")
	ErrInvalidJSON           = errors.New("invalid JSON")
)

// PathError records a failed operation on a path.
type PathError struct {
	Op   string
	Path Path
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

func newPathError(op string, p Path, err error) *PathError {
	return &PathError{Op: op, Path: p, Err: err}
}
