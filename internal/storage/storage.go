// Package storage defines the contract every lead backend implements.
package storage

import (
	"context"
	"errors"

	"leadapi/internal/lead"
)

// ErrUnavailable wraps every I/O failure a backend reports: the file could not
// be opened or written, or the database could not be reached or committed.
var ErrUnavailable = errors.New("storage unavailable")

// Receipt describes a completed append. Only relational backends produce an ID.
type Receipt struct {
	ID    int64
	HasID bool
}

// Backend persists lead records. Initialize is idempotent and is called once
// at startup; Append writes exactly one record or nothing.
type Backend interface {
	Kind() string
	Initialize(ctx context.Context) error
	Append(ctx context.Context, rec lead.Record) (Receipt, error)
}

// Pinger is implemented by backends that can probe their live connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Unavailable joins err with ErrUnavailable. It returns nil for a nil err.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrUnavailable, &OpError{Op: op, Err: err})
}

// OpError records which backend operation failed.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *OpError) Unwrap() error { return e.Err }
