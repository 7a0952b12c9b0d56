package seed

import (
	"fmt"
	"os"
	"time"

	"github.com/okian/aquaguard/pkg/logger"
)

// SetupLogging initializes the logger to stdout and a log file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) error {
	if logFile == "" {
		logFile = "seed_log_" + time.Now().Format("20060102_150405") + ".log"
	}
	if err := logger.Init(logger.WithFile(logFile)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the seed tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`AquaGuard seeder
================

Generates random village observations and submits them to the backend.

Usage:
  go run ./cmd/seed [options]

Options:
  -url string
        Base URL of the backend (default from AQUAGUARD_API_URL or http://localhost:5000)
  -count int
        Number of observations to submit (default 50)
  -workers int
        Number of concurrent submitters (default 4)
  -timeout duration
        Per-request timeout (default 10s)
  -output string
        Write generated observations to this JSON file
  -log string
        Log file (default: seed_log_TIMESTAMP.log)
  -verbose
        Log every submission
  -help
        Show this help message
`)
}
