// Command backend serves the health-data API: POST /submit and GET /data.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/okian/aquaguard/cmd/internal/boot"
	"github.com/okian/aquaguard/internal/adapters/http/api"
	"github.com/okian/aquaguard/internal/adapters/http/swagger"
	service "github.com/okian/aquaguard/internal/app"
	"github.com/okian/aquaguard/internal/config"
	"github.com/okian/aquaguard/pkg/logger"
	"github.com/okian/aquaguard/pkg/metrics"
)

const storeMetricsSchedule = "@every 15s"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := boot.InitLogging(ctx, cfg, "backend")
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := metrics.RegisterRuntimeCollectors(); err != nil {
		log.Warn(ctx, "runtime collectors unavailable", logger.Error(err))
	}

	svc := service.New(
		service.WithLogger(log),
		service.WithDatabasePath(cfg.DatabasePath),
		service.WithBusyTimeout(time.Duration(cfg.DatabaseBusyTimeoutMS)*time.Millisecond),
	)
	if err := svc.Start(ctx); err != nil {
		log.Fatal(ctx, "failed to start service", logger.Error(err))
	}
	defer svc.Stop()

	go func() {
		if err := startStoreMetricsUpdater(ctx, svc); err != nil {
			log.Warn(ctx, "store metrics updater not started", logger.Error(err))
		}
	}()

	srv := boot.NewServer(cfg.APIAddr, newHandler(ctx, cfg, svc, log))
	if err := boot.Serve(ctx, srv, log); err != nil {
		log.Error(ctx, "server error", logger.Error(err))
	}
}

// newHandler builds the backend routes: API, OpenAPI docs and metrics,
// wrapped with CORS and request logging.
func newHandler(ctx context.Context, cfg *config.Config, svc *service.Service, log logger.Logger) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc, svc,
		api.WithAllowedOrigins(cfg.AllowedOrigins),
		api.WithLogger(log.Named("http")))
	apiServer.Register(ctx, mux)
	return apiServer.Handler(mux)
}

// startStoreMetricsUpdater publishes the stored record count on a cron
// schedule and blocks until ctx ends.
func startStoreMetricsUpdater(ctx context.Context, svc *service.Service) error {
	c := cron.New()
	if _, err := c.AddFunc(storeMetricsSchedule, func() { updateStoreMetrics(ctx, svc) }); err != nil {
		return err
	}
	updateStoreMetrics(ctx, svc)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func updateStoreMetrics(ctx context.Context, svc *service.Service) {
	if n, ok := svc.GetStats(ctx)["records"].(int); ok {
		metrics.UpdateStoredTotal(n)
	}
}
