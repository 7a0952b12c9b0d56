package dashboard

import (
	"sync"
	"time"

	"github.com/okian/aquaguard/pkg/metrics"
)

// DefaultNotificationTTL is how long a notification stays visible.
const DefaultNotificationTTL = 3 * time.Second

type stopper interface{ Stop() bool }

// Notifier shows one notification at a time. Each Show replaces the pending
// dismissal, so an older timer can never hide a newer message.
type Notifier struct {
	mu    sync.Mutex
	slot  NotificationSlot
	ttl   time.Duration
	timer stopper
	gen   uint64

	afterFunc func(time.Duration, func()) stopper
}

// NewNotifier creates a Notifier writing to slot. A non-positive ttl uses the default.
func NewNotifier(slot NotificationSlot, ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &Notifier{
		slot: slot,
		ttl:  ttl,
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
	}
}

// Show displays message with the given kind and schedules its dismissal.
func (n *Notifier) Show(message, kind string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}
	n.gen++
	gen := n.gen

	n.slot.ShowNotification(message, kind)
	metrics.RecordNotification(kind)

	n.timer = n.afterFunc(n.ttl, func() { n.dismiss(gen) })
}

// Dismiss hides the current notification immediately.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.gen++
	n.slot.HideNotification()
}

// dismiss hides the notification only if no newer one was shown since gen.
func (n *Notifier) dismiss(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if gen != n.gen {
		return
	}
	n.timer = nil
	n.slot.HideNotification()
}

// TTL returns the dismissal delay.
func (n *Notifier) TTL() time.Duration { return n.ttl }
