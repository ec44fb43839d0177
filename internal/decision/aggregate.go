// Package decision turns indicator statuses and weights into a trading decision.
package decision

import (
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// Aggregate sums the weights of Buy, Sell and Neutral statuses into the three scores.
// Buy wins only if its score is strictly greater than both others, likewise Sell;
// everything else, ties included, is Hold. Statuses and weights must name the same
// indicators.
func Aggregate(statuses map[types.IndicatorType]types.IndicatorStatus, weights types.WeightVector) (types.Decision, error) {
	if err := checkSameNames(lo.Keys(statuses), weights); err != nil {
		return types.Decision{}, err
	}

	var decision types.Decision

	// fixed order keeps the float sums reproducible
	for _, name := range types.SortIndicatorTypes(lo.Keys(statuses)) {
		weight := weights[name]

		switch statuses[name].Direction {
		case types.DirectionBuy:
			decision.BuyScore += weight
		case types.DirectionSell:
			decision.SellScore += weight
		default:
			decision.HoldScore += weight
		}
	}

	decision.Action = decide(decision.BuyScore, decision.SellScore, decision.HoldScore)

	return decision, nil
}

func decide(buy, sell, hold float64) types.Action {
	switch {
	case buy > sell && buy > hold:
		return types.ActionBuy
	case sell > buy && sell > hold:
		return types.ActionSell
	default:
		return types.ActionHold
	}
}

// ValidateWeights checks weights against the provider's indicator names: the same
// set of names, every weight finite and non-negative.
func ValidateWeights(names []types.IndicatorType, weights types.WeightVector) error {
	if err := checkSameNames(names, weights); err != nil {
		return err
	}

	for _, name := range weights.Names() {
		w := weights[name]
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return errors.Newf(errors.ErrCodeInvalidWeight, "weight for %s is not a finite number", name)
		}

		if w < 0 {
			return errors.Newf(errors.ErrCodeInvalidWeight, "weight for %s is negative: %f", name, w)
		}
	}

	return nil
}

// ValidateBounds checks that a weight search covers exactly the provider's indicators.
func ValidateBounds(names []types.IndicatorType, bounds types.Bounds) error {
	weights := make(types.WeightVector, len(bounds))
	for name, bound := range bounds {
		weights[name] = bound.Low
	}

	return checkSameNames(names, weights)
}

func checkSameNames(names []types.IndicatorType, weights types.WeightVector) error {
	missing, extra := lo.Difference(names, weights.Names())
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}

	slices.Sort(missing)
	slices.Sort(extra)

	return errors.Newf(errors.ErrCodeConfigurationMismatch,
		"indicators and weights differ: no weight for %v, no indicator for %v", missing, extra)
}
