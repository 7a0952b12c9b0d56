// Command dashboard serves the health dashboard pages and talks to the
// backend configured by api_url.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/aquaguard/cmd/internal/boot"
	"github.com/okian/aquaguard/internal/adapters/apiclient"
	"github.com/okian/aquaguard/internal/adapters/http/site"
	"github.com/okian/aquaguard/internal/adapters/page"
	"github.com/okian/aquaguard/internal/config"
	"github.com/okian/aquaguard/internal/dashboard"
	"github.com/okian/aquaguard/pkg/logger"
	"github.com/okian/aquaguard/pkg/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := boot.InitLogging(ctx, cfg, "dashboard")
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := metrics.RegisterRuntimeCollectors(); err != nil {
		log.Warn(ctx, "runtime collectors unavailable", logger.Error(err))
	}

	h, err := newHandler(ctx, cfg, log)
	if err != nil {
		log.Fatal(ctx, "failed to build dashboard", logger.Error(err))
	}

	log.Info(ctx, "dashboard configured", logger.String("api_url", cfg.APIURL))
	if err := boot.Serve(ctx, boot.NewServer(cfg.Addr, h), log); err != nil {
		log.Error(ctx, "server error", logger.Error(err))
	}
}

// newHandler wires API client, page document, dashboard client and site.
func newHandler(ctx context.Context, cfg *config.Config, log logger.Logger) (http.Handler, error) {
	client, err := apiclient.New(cfg.APIURL,
		apiclient.WithTimeout(time.Duration(cfg.RequestTimeoutMS)*time.Millisecond),
		apiclient.WithLogger(log.Named("apiclient")))
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}

	doc := page.New()
	dash := dashboard.New(client, doc,
		dashboard.WithLogger(log),
		dashboard.WithNotificationTTL(time.Duration(cfg.NotificationTTLMS)*time.Millisecond))

	s, err := site.NewServer(dash, doc,
		site.WithAPIURL(client.BaseURL()),
		site.WithLogger(log.Named("site")))
	if err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}

	mux := http.NewServeMux()
	s.Register(ctx, mux)
	return mux, nil
}
