// Command seed fills a backend with random observations.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/aquaguard/internal/adapters/apiclient"
	"github.com/okian/aquaguard/internal/config"
	"github.com/okian/aquaguard/internal/seed"
	"github.com/okian/aquaguard/pkg/logger"
)

const (
	defaultTimeout = 10 * time.Second
	runTimeout     = 10 * time.Minute
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	var (
		baseURL = flag.String("url", cfg.APIURL, "Base URL of the backend")
		count   = flag.Int("count", cfg.SeedCount, "Number of observations to submit")
		workers = flag.Int("workers", cfg.SeedWorkers, "Number of concurrent submitters")
		timeout = flag.Duration("timeout", defaultTimeout, "Per-request timeout")
		output  = flag.String("output", "", "Write generated observations to this JSON file")
		logFile = flag.String("log", "", "Log file (default: seed_log_TIMESTAMP.log)")
		verbose = flag.Bool("verbose", false, "Log every submission")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seed.ShowHelp()
		return
	}

	if err := seed.SetupLogging(*logFile, *verbose); err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	client, err := apiclient.New(*baseURL, apiclient.WithTimeout(*timeout))
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	if _, err := seed.Run(ctx, &seed.Config{
		BaseURL:    *baseURL,
		Count:      *count,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *output,
		Verbose:    *verbose,
	}, client); err != nil {
		_, _ = os.Stderr.WriteString("seeding failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
