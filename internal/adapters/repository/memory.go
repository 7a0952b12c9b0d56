package repository

import (
	"context"
	"sync"

	"github.com/okian/aquaguard/internal/domain/model"
)

// MemoryStore keeps records in process memory. IDs start at 1.
type MemoryStore struct {
	mu      sync.RWMutex
	records []model.Record
	nextID  int64
	closed  bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Save(ctx context.Context, r model.Record) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return model.Record{}, wrap("save", ErrStorage, err)
	}
	if err := validate(r); err != nil {
		return model.Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.Record{}, wrap("save", ErrClosed, errClosedStore)
	}
	r.ID = s.nextID
	s.nextID++
	s.records = append(s.records, r)
	return r, nil
}

func (s *MemoryStore) All(ctx context.Context) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap("all", ErrStorage, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, wrap("all", ErrClosed, errClosedStore)
	}
	out := make([]model.Record, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, wrap("count", ErrStorage, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, wrap("count", ErrClosed, errClosedStore)
	}
	return len(s.records), nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
