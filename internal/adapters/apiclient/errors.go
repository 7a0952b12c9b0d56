package apiclient

import (
	"errors"
	"fmt"
)

// Sentinel kinds returned by Client calls.
var (
	// ErrUnreachable means the request never got an HTTP answer.
	ErrUnreachable = errors.New("backend unreachable")
	// ErrRejected means the backend answered with a non-2xx status.
	ErrRejected = errors.New("backend rejected request")
	// ErrDecode means a 2xx answer could not be decoded.
	ErrDecode = errors.New("backend response malformed")
)

// StatusError carries the status of a rejected call. It unwraps to ErrRejected.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s: status %d: %s", e.Op, ErrRejected, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s: status %d", e.Op, ErrRejected, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrRejected }

func wrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
