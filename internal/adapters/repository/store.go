// Package repository persists health observations for the backend.
package repository

import (
	"context"

	"github.com/okian/aquaguard/internal/domain/model"
)

// Store provides read/write access to stored observations.
type Store interface {
	// Save appends a record and returns it with its assigned ID.
	Save(ctx context.Context, r model.Record) (model.Record, error)

	// All returns every record, newest first.
	All(ctx context.Context) ([]model.Record, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	Close() error
}

// Open returns a SQLite store for path, or an in-memory store when path is empty.
func Open(path string, opts ...Option) (Store, error) {
	if path == "" {
		return NewMemoryStore(), nil
	}
	return NewSQLiteStore(path, opts...)
}

func validate(r model.Record) error {
	switch {
	case r.Village == "":
		return wrap("validate", ErrInvalidRecord, errMissing("village"))
	case r.Diarrhea < 0 || r.Fever < 0:
		return wrap("validate", ErrInvalidRecord, errNegative)
	case r.Rainfall == "":
		return wrap("validate", ErrInvalidRecord, errMissing("rainfall"))
	case r.Risk == "":
		return wrap("validate", ErrInvalidRecord, errMissing("risk"))
	case r.Date == "":
		return wrap("validate", ErrInvalidRecord, errMissing("date"))
	}
	return nil
}
