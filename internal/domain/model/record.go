// Package model contains domain models passed between layers.
package model

// Risk labels assigned by the backend.
const (
	RiskSafe   = "Safe"
	RiskMedium = "Medium Risk"
	RiskHigh   = "High Risk"
)

// Rainfall levels offered by the entry form. Other strings are passed through.
const (
	RainfallLow    = "Low"
	RainfallMedium = "Medium"
	RainfallHigh   = "High"
)

// Record is one village observation plus its computed risk.
// Fields mirror the JSON returned by GET /data.
type Record struct {
	ID       int64  `json:"id,omitempty"`
	Village  string `json:"village"`
	Diarrhea int    `json:"diarrhea"`
	Fever    int    `json:"fever"`
	Rainfall string `json:"rainfall"`
	Risk     string `json:"risk"`
	Date     string `json:"date,omitempty"` // YYYY-MM-DD
}

// Submission is the payload of POST /submit.
type Submission struct {
	Village  string `json:"village"`
	Diarrhea int    `json:"diarrhea"`
	Fever    int    `json:"fever"`
	Rainfall string `json:"rainfall"`
}

// SubmitResult is the body answered by POST /submit.
type SubmitResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Risk    string `json:"risk,omitempty"`
}
