// Package seed generates random village observations and submits them
// concurrently to a backend, for demos and load checks.
package seed

import (
	"context"
	"time"

	"github.com/okian/aquaguard/internal/domain/model"
)

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL    string        // backend base URL, informational
	Count      int           // observations to generate
	Workers    int           // concurrent submitters
	Timeout    time.Duration // per-request timeout, applied by the caller's client
	OutputFile string        // optional JSON dump of generated observations
	Verbose    bool
}

// Backend is the subset of the API client the seeder needs.
type Backend interface {
	Submit(ctx context.Context, s model.Submission) (model.SubmitResult, error)
	Records(ctx context.Context) ([]model.Record, error)
}

// Stats holds run statistics.
type Stats struct {
	Generated   int
	Submitted   int
	Accepted    int
	Rejected    int
	Unreachable int
	ByRisk      map[string]int // risk label -> accepted count
	Stored      int            // records listed by the backend after the run
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
}
