package usecase

import (
	"math"
	"math/rand"

	"clipflow/domain/model"
)

// EstimateRevenue assigns a monetary figure to one publish outcome. Failed
// and skipped outcomes earn nothing. The bounded-random figure for successes
// stands in for a real ad-revenue integration; orchestration only depends on
// this one function, so swapping the estimator never touches the run loop.
func EstimateRevenue(outcome model.PublishOutcome) float64 {
	if !outcome.Success() {
		return 0
	}
	amount := rand.Float64()*45 + 5
	return math.Round(amount*100) / 100
}
