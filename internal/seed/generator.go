package seed

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"

	"github.com/okian/aquaguard/internal/domain/model"
)

const (
	maxDiarrhea = 20
	maxFever    = 15
	tagLength   = 8
)

var villagePrefixes = []string{"Amba", "Bela", "Chandi", "Dhari", "Ekta", "Gopal", "Hari", "Jamu", "Kesar", "Lakshmi"}

var rainfallLevels = []string{model.RainfallLow, model.RainfallMedium, model.RainfallHigh}

// randomInt returns a uniform value in [0, n).
func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// generate creates count observations. Village names carry a short uuid tag
// so seeded rows are easy to tell apart.
func generate(count int) []model.Submission {
	out := make([]model.Submission, count)
	for i := range out {
		out[i] = generateOne()
	}
	return out
}

func generateOne() model.Submission {
	tag := uuid.NewString()[:tagLength]
	return model.Submission{
		Village:  villagePrefixes[randomInt(len(villagePrefixes))] + "-" + tag,
		Diarrhea: randomInt(maxDiarrhea + 1),
		Fever:    randomInt(maxFever + 1),
		Rainfall: rainfallLevels[randomInt(len(rainfallLevels))],
	}
}
