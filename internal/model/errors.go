package model

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that no recipe exists for the requested id.
var ErrNotFound = errors.New("recipe not found")

// StorageError wraps an I/O failure of the persistent store.
type StorageError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError returns true if err is or wraps a StorageError.
// Uses errors.As to handle wrapped errors.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// ProgrammerError signals a broken contract between the presentation layer
// and the core, such as an index that is out of range for the rendered list.
// It is raised with panic, never returned.
type ProgrammerError struct {
	Op     string
	Index  int
	Length int
}

// Error implements the error interface.
func (e *ProgrammerError) Error() string {
	return fmt.Sprintf("%s: index %d out of range [0:%d]", e.Op, e.Index, e.Length)
}

// CheckIndex panics with a ProgrammerError when i is outside [0, n).
func CheckIndex(op string, i, n int) {
	if i < 0 || i >= n {
		panic(&ProgrammerError{Op: op, Index: i, Length: n})
	}
}
