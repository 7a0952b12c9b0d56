// Package dashboard implements the dashboard client: form submission,
// record loading and the notification helper, all rendered through a Surface.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/aquaguard/internal/adapters/apiclient"
	"github.com/okian/aquaguard/internal/domain/model"
	"github.com/okian/aquaguard/internal/domain/view"
	"github.com/okian/aquaguard/pkg/logger"
	"github.com/okian/aquaguard/pkg/metrics"
)

// Notification copy.
const (
	MsgMissingFields = "Please fill in all required fields"
	MsgSubmitted     = "Data submitted successfully! Risk Level: %s"
	MsgSubmitFailed  = "Error submitting data. Please try again."
	MsgUnreachable   = view.UnreachableMessage
)

// API is the backend contract used by the client.
type API interface {
	Submit(ctx context.Context, s model.Submission) (model.SubmitResult, error)
	Records(ctx context.Context) ([]model.Record, error)
}

// Client drives one Surface against one backend.
type Client struct {
	api             API
	surface         Surface
	notifier        *Notifier
	notificationTTL time.Duration
	logger          logger.Logger
}

// New creates a Client.
func New(api API, surface Surface, opts ...Option) *Client {
	c := &Client{
		api:             api,
		surface:         surface,
		notificationTTL: DefaultNotificationTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Named("dashboard")
	}
	c.notifier = NewNotifier(surface, c.notificationTTL)
	return c
}

// Notifier exposes the client's notification helper.
func (c *Client) Notifier() *Notifier { return c.notifier }

// Submit reads the form from the surface and submits it.
func (c *Client) Submit(ctx context.Context) error {
	return c.SubmitForm(ctx, c.surface.Form())
}

// SubmitForm validates f and posts it to the backend. Validation failures
// never reach the network. On success the surface's form is reset; on
// failure it is left as it was.
func (c *Client) SubmitForm(ctx context.Context, f Form) error {
	const op = "dashboard.submit"

	sub, err := f.Submission()
	if err != nil {
		c.notifier.Show(MsgMissingFields, KindError)
		metrics.RecordSubmission("invalid")
		c.logger.Debug(ctx, "submission rejected by form validation", logger.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := c.api.Submit(ctx, sub)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnreachable) {
			c.notifier.Show(MsgUnreachable, KindError)
			metrics.RecordSubmission("unreachable")
		} else {
			c.notifier.Show(MsgSubmitFailed, KindError)
			metrics.RecordSubmission("rejected")
		}
		c.logger.Warn(ctx, "submission failed",
			logger.String("village", sub.Village),
			logger.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	c.notifier.Show(fmt.Sprintf(MsgSubmitted, res.Risk), KindSuccess)
	c.surface.ResetForm(DefaultForm())
	metrics.RecordSubmission("submitted")
	c.logger.Info(ctx, "observation submitted",
		logger.String("village", sub.Village),
		logger.String("risk", res.Risk))
	return nil
}

// Load fetches all records and renders counters, table and banner.
// On failure only the table area changes, to an empty-state naming the problem.
func (c *Client) Load(ctx context.Context) error {
	const op = "dashboard.load"

	records, err := c.api.Records(ctx)
	if err != nil {
		msg := view.BackendErrorMessage
		if errors.Is(err, apiclient.ErrUnreachable) {
			msg = view.UnreachableMessage
		}
		c.surface.RenderTable(view.EmptyTable(msg))
		metrics.RecordLoad("failed")
		c.logger.Warn(ctx, "failed to load records", logger.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	d := view.Build(records)
	c.surface.SetStats(d.Stats)
	c.surface.RenderTable(d.Table)
	c.surface.SetAlert(d.Alert)

	outcome := "ok"
	if d.Table.Empty {
		outcome = "empty"
	}
	metrics.RecordLoad(outcome)
	metrics.UpdateDashboard(d.Stats.Total, d.Stats.Safe, d.Stats.Medium, d.Stats.High, d.Alert.Visible)
	c.logger.Debug(ctx, "dashboard rendered",
		logger.Int("total", d.Stats.Total),
		logger.Int("high", d.Stats.High))
	return nil
}

// Records returns the backend's current records without touching the surface.
func (c *Client) Records(ctx context.Context) ([]model.Record, error) {
	return c.api.Records(ctx)
}
