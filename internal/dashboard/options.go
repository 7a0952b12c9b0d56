package dashboard

import (
	"time"

	"github.com/okian/aquaguard/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithNotificationTTL sets how long notifications stay visible.
func WithNotificationTTL(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.notificationTTL = d
		}
	}
}
