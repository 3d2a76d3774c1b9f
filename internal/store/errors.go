package store

import (
	"errors"
	"fmt"
)

// NotFoundError reports that no event matches the requested ID.
// Recoverable: the session shows a status message and stays alive.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("event %d not found", e.ID)
}

// IsNotFound returns true if the error is a NotFoundError.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// PersistenceError reports an I/O or constraint failure from the
// database. Recoverable at session level; fatal only at startup.
type PersistenceError struct {
	Op  string // operation that failed, e.g. "create event"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistence returns true if the error is a PersistenceError.
// Uses errors.As to handle wrapped errors.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// persistErr wraps a driver error with the failing operation.
func persistErr(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}
