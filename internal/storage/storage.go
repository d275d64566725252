// Package storage persists a task collection as a single serialized blob.
// Every backend stores the whole collection under one key; there is no
// partial or incremental persistence.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNoData is returned by Load when nothing has been saved yet.
	ErrNoData = errors.New("no saved data")
	// ErrMalformed is returned by Decode for data that is not a valid
	// task collection.
	ErrMalformed = errors.New("malformed task collection")
)

type Backend interface {
	// Load returns the last saved blob or ErrNoData.
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the stored blob.
	Save(ctx context.Context, data []byte) error
	Close() error
}
