package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/okian/aquaguard/internal/adapters/apiclient"
	"github.com/okian/aquaguard/internal/domain/model"
	"github.com/okian/aquaguard/pkg/logger"
)

const (
	directoryPermission = 0o750
	filePermission      = 0o600
	percentMultiplier   = 100

	outcomeAccepted    = "accepted"
	outcomeRejected    = "rejected"
	outcomeUnreachable = "unreachable"
)

// Sentinel kinds for seed runs.
var (
	// ErrBackendDown is returned when the backend cannot be reached before seeding.
	ErrBackendDown = errors.New("backend unreachable")
	// ErrInvalidConfig is returned for a run configuration that cannot be executed.
	ErrInvalidConfig = errors.New("invalid seed config")
)

// Run generates cfg.Count observations and submits them with cfg.Workers
// concurrent workers.
func Run(ctx context.Context, cfg *Config, backend Backend) (*Stats, error) {
	if cfg.Count < 0 {
		return nil, fmt.Errorf("seed.run: %w: count must not be negative, got %d", ErrInvalidConfig, cfg.Count)
	}

	log := logger.Named("seed")
	stats := &Stats{StartTime: time.Now(), ByRisk: make(map[string]int)}

	log.Info(ctx, "starting seed run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("count", cfg.Count),
		logger.Int("workers", cfg.Workers))

	if _, err := backend.Records(ctx); err != nil {
		if errors.Is(err, apiclient.ErrUnreachable) {
			return nil, fmt.Errorf("%w: %w", ErrBackendDown, err)
		}
		return nil, fmt.Errorf("backend check failed: %w", err)
	}

	subs := generate(cfg.Count)
	stats.Generated = len(subs)

	if err := submitAll(ctx, cfg, backend, subs, stats); err != nil {
		return nil, err
	}

	if records, err := backend.Records(ctx); err == nil {
		stats.Stored = len(records)
	} else {
		log.Warn(ctx, "could not list records after seeding", logger.Error(err))
	}

	if cfg.OutputFile != "" {
		if err := saveSubmissions(cfg.OutputFile, subs); err != nil {
			log.Warn(ctx, "failed to save generated observations", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)
	return stats, nil
}

type result struct {
	outcome string
	risk    string
}

func submitAll(ctx context.Context, cfg *Config, backend Backend, subs []model.Submission, stats *Stats) error {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	jobs := make(chan model.Submission, workers*2)
	results := make(chan result, workers*2)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range jobs {
				results <- submitOne(ctx, backend, s, cfg.Verbose)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, s := range subs {
			select {
			case <-ctx.Done():
				return
			case jobs <- s:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		stats.Submitted++
		switch r.outcome {
		case outcomeAccepted:
			stats.Accepted++
			stats.ByRisk[r.risk]++
		case outcomeUnreachable:
			stats.Unreachable++
		default:
			stats.Rejected++
		}
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("seeding interrupted: %w", err)
	}
	return nil
}

func submitOne(ctx context.Context, backend Backend, s model.Submission, verbose bool) result {
	res, err := backend.Submit(ctx, s)
	switch {
	case err == nil:
		if verbose {
			logger.Named("seed").Debug(ctx, "submitted",
				logger.String("village", s.Village),
				logger.String("risk", res.Risk))
		}
		return result{outcome: outcomeAccepted, risk: res.Risk}
	case errors.Is(err, apiclient.ErrUnreachable):
		return result{outcome: outcomeUnreachable}
	default:
		return result{outcome: outcomeRejected}
	}
}

func saveSubmissions(filename string, subs []model.Submission) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal observations: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var acceptRate, perSecond float64
	if stats.Submitted > 0 {
		acceptRate = float64(stats.Accepted) / float64(stats.Submitted) * percentMultiplier
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("rejected", stats.Rejected),
		logger.Int("unreachable", stats.Unreachable),
		logger.Int("safe", stats.ByRisk[model.RiskSafe]),
		logger.Int("medium", stats.ByRisk[model.RiskMedium]),
		logger.Int("high", stats.ByRisk[model.RiskHigh]),
		logger.Int("stored", stats.Stored),
		logger.Duration("duration", stats.Duration),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("perSecond", perSecond))
}
