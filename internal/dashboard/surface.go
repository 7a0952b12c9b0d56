package dashboard

import "github.com/okian/aquaguard/internal/domain/view"

// Notification kinds, used as the style class suffix.
const (
	KindSuccess = "success"
	KindError   = "error"
)

// NotificationSlot is the part of a surface that shows transient messages.
type NotificationSlot interface {
	ShowNotification(message, kind string)
	HideNotification()
}

// Surface is the UI the client reads from and renders into.
// Implementations must be safe for concurrent use: the dismissal timer
// calls HideNotification from its own goroutine.
type Surface interface {
	NotificationSlot

	Form() Form
	ResetForm(Form)

	SetStats(view.Stats)
	RenderTable(view.Table)
	SetAlert(view.Alert)
}
