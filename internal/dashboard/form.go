package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/aquaguard/internal/domain/model"
)

// Form holds the raw values of the four entry fields.
type Form struct {
	Village  string
	Diarrhea string
	Fever    string
	Rainfall string
}

// DefaultForm is the state the entry form is reset to after a submit.
func DefaultForm() Form {
	return Form{Rainfall: model.RainfallLow}
}

// Submission validates the form and builds the payload.
// Village is trimmed; rainfall falls back to Low when unset.
func (f Form) Submission() (model.Submission, error) {
	village := strings.TrimSpace(f.Village)
	diarrhea := strings.TrimSpace(f.Diarrhea)
	fever := strings.TrimSpace(f.Fever)
	if village == "" || diarrhea == "" || fever == "" {
		return model.Submission{}, ErrInvalidForm
	}

	d, err := strconv.Atoi(diarrhea)
	if err != nil {
		return model.Submission{}, fmt.Errorf("%w: diarrhea %q is not a whole number", ErrInvalidForm, f.Diarrhea)
	}
	fv, err := strconv.Atoi(fever)
	if err != nil {
		return model.Submission{}, fmt.Errorf("%w: fever %q is not a whole number", ErrInvalidForm, f.Fever)
	}

	rainfall := strings.TrimSpace(f.Rainfall)
	if rainfall == "" {
		rainfall = model.RainfallLow
	}
	return model.Submission{Village: village, Diarrhea: d, Fever: fv, Rainfall: rainfall}, nil
}
