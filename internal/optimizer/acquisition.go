package optimizer

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Acquisition names an acquisition function.
type Acquisition string

const (
	// AcquisitionUCB is the upper confidence bound mean + kappa * std.
	AcquisitionUCB Acquisition = "ucb"
	// AcquisitionEI is the expected improvement over the best observed score.
	AcquisitionEI Acquisition = "ei"
)

func upperConfidenceBound(mean float64, std float64, kappa float64) float64 {
	return mean + kappa*std
}

func expectedImprovement(mean float64, std float64, best float64, xi float64) float64 {
	improvement := mean - best - xi
	if std <= 0 {
		return math.Max(improvement, 0)
	}

	z := improvement / std

	return improvement*distuv.UnitNormal.CDF(z) + std*distuv.UnitNormal.Prob(z)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
