package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for store errors.
var (
	ErrInvalidRecord = errors.New("invalid record")
	ErrClosed        = errors.New("store closed")
	ErrStorage       = errors.New("storage failure")
)

var errNegative = errors.New("case counts must not be negative")

func errMissing(field string) error { return fmt.Errorf("%s is required", field) }

func wrap(op string, kind, err error) error {
	return fmt.Errorf("repository.%s: %w: %w", op, kind, err)
}

var errClosedStore = errors.New("use of closed store")
