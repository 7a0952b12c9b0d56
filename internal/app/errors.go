package service

import (
	"errors"
	"fmt"
)

// Sentinel kinds returned by the service.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrInvalidInput = errors.New("invalid submission")
	ErrStore        = errors.New("store failure")
)

func wrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
