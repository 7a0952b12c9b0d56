// Package risk holds the outbreak-risk rules shared by the backend and the dashboard.
package risk

import "github.com/okian/aquaguard/internal/domain/model"

// Thresholds on weekly diarrhea cases.
const (
	mediumMinCases = 5
	mediumMaxCases = 10
)

// Classify computes the risk label for an observation.
// High requires both more than 10 diarrhea cases and high rainfall; fever is not considered.
func Classify(diarrhea int, rainfall string) string {
	switch {
	case diarrhea > mediumMaxCases && rainfall == model.RainfallHigh:
		return model.RiskHigh
	case diarrhea >= mediumMinCases && diarrhea <= mediumMaxCases:
		return model.RiskMedium
	default:
		return model.RiskSafe
	}
}

// Class maps a risk label to its badge style class. Unknown labels map to "".
func Class(label string) string {
	switch label {
	case model.RiskSafe:
		return "safe"
	case model.RiskMedium:
		return "medium"
	case model.RiskHigh:
		return "high"
	default:
		return ""
	}
}
