// Package page holds the dashboard's element slots and applies rendered
// view models to them. It is the only place that knows element IDs.
package page

import (
	"html/template"
	"strconv"
	"sync"

	"github.com/okian/aquaguard/internal/dashboard"
	"github.com/okian/aquaguard/internal/domain/view"
)

// Element IDs.
const (
	IDVillage        = "village"
	IDDiarrhea       = "diarrhea"
	IDFever          = "fever"
	IDRainfall       = "rainfall"
	IDNotification   = "notification"
	IDTotalRecords   = "total-records"
	IDSafeAreas      = "safe-areas"
	IDMediumRisk     = "medium-risk"
	IDHighRisk       = "high-risk"
	IDTableContainer = "table-container"
	IDHighRiskAlert  = "high-risk-alert"
	IDAlertMessage   = "alert-message"
)

// Element is the state of one slot.
type Element struct {
	ID     string
	Value  string        // form inputs
	Text   string        // text content
	HTML   template.HTML // inner markup, only used by table-container
	Class  string
	Hidden bool
}

// Document is a concurrency-safe set of elements keyed by ID.
// It implements dashboard.Surface.
type Document struct {
	mu       sync.RWMutex
	elements map[string]*Element
}

var _ dashboard.Surface = (*Document)(nil)

// New returns a document in its initial state: empty form with Low rainfall,
// zero counters, hidden notification and banner, empty table area.
func New() *Document {
	d := &Document{elements: make(map[string]*Element)}
	for _, id := range []string{
		IDVillage, IDDiarrhea, IDFever, IDRainfall,
		IDNotification, IDTotalRecords, IDSafeAreas, IDMediumRisk, IDHighRisk,
		IDTableContainer, IDHighRiskAlert, IDAlertMessage,
	} {
		d.elements[id] = &Element{ID: id}
	}
	d.elements[IDRainfall].Value = dashboard.DefaultForm().Rainfall
	d.elements[IDNotification].Class = "notification"
	d.elements[IDNotification].Hidden = true
	d.elements[IDHighRiskAlert].Hidden = true
	for _, id := range []string{IDTotalRecords, IDSafeAreas, IDMediumRisk, IDHighRisk} {
		d.elements[id].Text = "0"
	}
	return d
}

// Element returns a copy of the element with the given ID.
func (d *Document) Element(id string) (Element, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	el, ok := d.elements[id]
	if !ok {
		return Element{}, false
	}
	return *el, true
}

// Snapshot copies all elements, keyed by ID, for templates.
func (d *Document) Snapshot() map[string]Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]Element, len(d.elements))
	for id, el := range d.elements {
		out[id] = *el
	}
	return out
}

// FillForm writes all four form inputs at once.
func (d *Document) FillForm(f dashboard.Form) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.applyForm(f)
}

func (d *Document) applyForm(f dashboard.Form) {
	d.elements[IDVillage].Value = f.Village
	d.elements[IDDiarrhea].Value = f.Diarrhea
	d.elements[IDFever].Value = f.Fever
	d.elements[IDRainfall].Value = f.Rainfall
}

// Form reads the four form inputs.
func (d *Document) Form() dashboard.Form {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return dashboard.Form{
		Village:  d.elements[IDVillage].Value,
		Diarrhea: d.elements[IDDiarrhea].Value,
		Fever:    d.elements[IDFever].Value,
		Rainfall: d.elements[IDRainfall].Value,
	}
}

// ResetForm restores the form inputs.
func (d *Document) ResetForm(f dashboard.Form) {
	d.FillForm(f)
}

func (d *Document) ShowNotification(message, kind string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.elements[IDNotification]
	n.Text = message
	n.Class = "notification " + kind
	n.Hidden = false
}

func (d *Document) HideNotification() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements[IDNotification].Hidden = true
}

// SetStats writes the four counters.
func (d *Document) SetStats(s view.Stats) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements[IDTotalRecords].Text = strconv.Itoa(s.Total)
	d.elements[IDSafeAreas].Text = strconv.Itoa(s.Safe)
	d.elements[IDMediumRisk].Text = strconv.Itoa(s.Medium)
	d.elements[IDHighRisk].Text = strconv.Itoa(s.High)
}

// RenderTable replaces the table area with the rendered table or empty state.
func (d *Document) RenderTable(t view.Table) {
	markup := renderTable(t)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements[IDTableContainer].HTML = markup
}

// SetAlert shows or hides the high-risk banner.
func (d *Document) SetAlert(a view.Alert) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements[IDHighRiskAlert].Hidden = !a.Visible
	msg := ""
	if a.Visible {
		msg = a.Message
	}
	d.elements[IDAlertMessage].Text = msg
}
