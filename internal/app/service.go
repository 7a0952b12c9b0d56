// Package service provides the backend business service behind the
// submission and listing endpoints.
package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/okian/aquaguard/internal/adapters/repository"
	"github.com/okian/aquaguard/internal/domain/model"
	"github.com/okian/aquaguard/internal/domain/risk"
	"github.com/okian/aquaguard/pkg/logger"
	"github.com/okian/aquaguard/pkg/metrics"
)

// DateLayout is the format of Record.Date.
const DateLayout = "2006-01-02"

// Service classifies, stamps and stores observations.
type Service struct {
	mu sync.RWMutex

	store        repository.Store
	ownsStore    bool
	databasePath string
	busyTimeout  time.Duration
	now          func() time.Time

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDatabasePath selects the SQLite file. Empty keeps records in memory.
func WithDatabasePath(path string) Option {
	return func(s *Service) {
		s.databasePath = path
	}
}

// WithBusyTimeout sets how long SQLite waits on a locked database file.
func WithBusyTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.busyTimeout = d
	}
}

// WithStore injects a ready store; the service will not close it.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithClock overrides the clock used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Call Start before use.
func New(opts ...Option) *Service {
	s := &Service{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the store unless one was injected.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	if s.store == nil {
		store, err := repository.Open(s.databasePath, repository.WithBusyTimeout(s.busyTimeout))
		if err != nil {
			return wrapKind("service.start", ErrStore, err)
		}
		s.store = store
		s.ownsStore = true
	}

	s.started = true
	backend := "memory"
	if s.databasePath != "" {
		backend = s.databasePath
	}
	s.logger.Info(ctx, "health data service started", logger.String("store", backend))
	return nil
}

// Stop closes a store opened by Start.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.ownsStore && s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "failed to close store", logger.Error(err))
		}
		s.store = nil
		s.ownsStore = false
	}
	s.started = false
	s.logger.Info(context.Background(), "health data service stopped")
}

func (s *Service) activeStore() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// Submit classifies the observation, stamps today's date and stores it.
func (s *Service) Submit(ctx context.Context, sub model.Submission) (model.Record, error) {
	const op = "service.submit"

	store, err := s.activeStore()
	if err != nil {
		return model.Record{}, wrapKind(op, ErrStore, err)
	}

	village := strings.TrimSpace(sub.Village)
	rainfall := strings.TrimSpace(sub.Rainfall)
	switch {
	case village == "":
		return model.Record{}, wrapKind(op, ErrInvalidInput, errors.New("village is required"))
	case rainfall == "":
		return model.Record{}, wrapKind(op, ErrInvalidInput, errors.New("rainfall is required"))
	case sub.Diarrhea < 0 || sub.Fever < 0:
		return model.Record{}, wrapKind(op, ErrInvalidInput, errors.New("case counts must not be negative"))
	}

	rec := model.Record{
		Village:  village,
		Diarrhea: sub.Diarrhea,
		Fever:    sub.Fever,
		Rainfall: rainfall,
		Risk:     risk.Classify(sub.Diarrhea, rainfall),
		Date:     s.now().Format(DateLayout),
	}

	start := time.Now()
	saved, err := store.Save(ctx, rec)
	metrics.RecordStoreLatency("save", float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordStoreError("save")
		if errors.Is(err, repository.ErrInvalidRecord) {
			return model.Record{}, wrapKind(op, ErrInvalidInput, err)
		}
		return model.Record{}, wrapKind(op, ErrStore, err)
	}

	metrics.RecordStored(risk.Class(saved.Risk))
	s.logger.Info(ctx, "observation stored",
		logger.Int64("id", saved.ID),
		logger.String("village", saved.Village),
		logger.String("risk", saved.Risk))
	return saved, nil
}

// Records returns all stored observations, newest first.
func (s *Service) Records(ctx context.Context) ([]model.Record, error) {
	const op = "service.records"

	store, err := s.activeStore()
	if err != nil {
		return nil, wrapKind(op, ErrStore, err)
	}
	start := time.Now()
	records, err := store.All(ctx)
	metrics.RecordStoreLatency("all", float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordStoreError("all")
		return nil, wrapKind(op, ErrStore, err)
	}
	return records, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	started, store, path := s.started, s.store, s.databasePath
	s.mu.RUnlock()

	stats := map[string]any{
		"started":  started,
		"database": path,
	}
	if started && store != nil {
		if n, err := store.Count(ctx); err == nil {
			stats["records"] = n
		}
	}
	return stats
}
