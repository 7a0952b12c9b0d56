// Package view turns record collections into a render-ready dashboard model.
//
// Everything here is pure: no I/O, no clocks, no UI handles. Adapters apply
// the result to whatever surface displays it.
package view

import (
	"fmt"

	"github.com/okian/aquaguard/internal/domain/model"
	"github.com/okian/aquaguard/internal/domain/risk"
)

// User-facing copy.
const (
	EmptyMessage        = "No health data recorded yet"
	UnreachableMessage  = "Cannot connect to server. Please ensure the API server is running."
	BackendErrorMessage = "Unable to load health data. The server returned an error."
	DatePlaceholder     = "N/A"

	alertSuffix = "been identified as high risk for water-borne disease outbreak. Immediate action and monitoring recommended."
)

// Stats holds the four summary counters.
// Total may exceed Safe+Medium+High when records carry unknown labels.
type Stats struct {
	Total  int
	Safe   int
	Medium int
	High   int
}

// Row is one table line.
type Row struct {
	Village   string
	Diarrhea  int
	Fever     int
	Rainfall  string
	Risk      string
	RiskClass string
	Date      string
}

// Table is either a list of rows or an empty-state message, never both.
type Table struct {
	Rows         []Row
	Empty        bool
	EmptyMessage string
}

// Alert is the high-risk banner state.
type Alert struct {
	Visible bool
	Count   int
	Message string
}

// Dashboard is the full render model for one load.
type Dashboard struct {
	Stats Stats
	Table Table
	Alert Alert
}

// Build computes the dashboard for a record collection.
func Build(records []model.Record) Dashboard {
	stats := Tally(records)
	return Dashboard{
		Stats: stats,
		Table: BuildTable(records),
		Alert: BuildAlert(stats.High),
	}
}

// Tally counts records per risk category.
func Tally(records []model.Record) Stats {
	s := Stats{Total: len(records)}
	for _, r := range records {
		switch r.Risk {
		case model.RiskSafe:
			s.Safe++
		case model.RiskMedium:
			s.Medium++
		case model.RiskHigh:
			s.High++
		}
	}
	return s
}

// BuildTable renders one row per record, or the empty-state prompt.
func BuildTable(records []model.Record) Table {
	if len(records) == 0 {
		return EmptyTable(EmptyMessage)
	}
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		date := r.Date
		if date == "" {
			date = DatePlaceholder
		}
		rows = append(rows, Row{
			Village:   r.Village,
			Diarrhea:  r.Diarrhea,
			Fever:     r.Fever,
			Rainfall:  r.Rainfall,
			Risk:      r.Risk,
			RiskClass: risk.Class(r.Risk),
			Date:      date,
		})
	}
	return Table{Rows: rows}
}

// EmptyTable returns an empty-state table carrying msg.
func EmptyTable(msg string) Table {
	if msg == "" {
		msg = EmptyMessage
	}
	return Table{Empty: true, EmptyMessage: msg}
}

// BuildAlert returns the banner for the given number of high-risk records.
func BuildAlert(high int) Alert {
	if high <= 0 {
		return Alert{}
	}
	return Alert{Visible: true, Count: high, Message: AlertMessage(high)}
}

// AlertMessage formats the banner text with singular/plural wording.
func AlertMessage(count int) string {
	areaText := "areas have"
	if count == 1 {
		areaText = "area has"
	}
	return fmt.Sprintf("%d %s %s", count, areaText, alertSuffix)
}
