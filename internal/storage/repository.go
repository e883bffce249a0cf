// ABOUTME: Table interface for the BMI history backing store.
// ABOUTME: A key-ordered table with create, read-all, delete-by-id and delete-all.
package storage

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/harperreed/bmi/internal/models"
)

var (
	// ErrNotFound is returned when a record id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrLocked is returned when another process holds an exclusive backend.
	ErrLocked = errors.New("history is in use by another process")
)

// Table defines the storage contract for history records.
// Implementations serialize their own writes.
type Table interface {
	// Insert assigns a fresh id to r, stores it and returns the id.
	// All other fields are stored verbatim.
	Insert(ctx context.Context, r *models.Record) (int64, error)

	// ListAll returns every record, newest first (timestamp, then id).
	ListAll(ctx context.Context) ([]*models.Record, error)

	// Delete removes one record or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error

	// DeleteAll removes every record in a single operation.
	DeleteAll(ctx context.Context) error

	Close() error
}

type options struct {
	logger *log.Logger
}

// Option configures a backend.
type Option func(*options)

// WithLogger sets the logger used by a backend. A nil logger is ignored.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
