package optimizer

import (
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// space maps weight vectors to points of the unit cube, one coordinate per bounded
// indicator in sorted name order.
type space struct {
	names  []types.IndicatorType
	bounds []types.Bound
}

func newSpace(bounds types.Bounds) (space, error) {
	if len(bounds) == 0 {
		return space{}, errors.New(errors.ErrCodeInvalidBounds, "bounds must name at least one indicator")
	}

	validate := validator.New()
	names := bounds.Names()
	s := space{names: names, bounds: make([]types.Bound, len(names))}

	for i, name := range names {
		b := bounds[name]
		if math.IsNaN(b.Low) || math.IsNaN(b.High) || math.IsInf(b.Low, 0) || math.IsInf(b.High, 0) {
			return space{}, errors.Newf(errors.ErrCodeInvalidBounds, "bound of %s must be finite", name)
		}

		if err := validate.Struct(b); err != nil {
			return space{}, errors.Wrapf(errors.ErrCodeInvalidBounds, err, "invalid bound for %s: [%f, %f]", name, b.Low, b.High)
		}

		s.bounds[i] = b
	}

	return s, nil
}

func (s space) dims() int {
	return len(s.names)
}

// toWeights scales a unit point into the bounds.
func (s space) toWeights(unit []float64) types.WeightVector {
	weights := make(types.WeightVector, len(s.names))
	for i, name := range s.names {
		b := s.bounds[i]
		weights[name] = b.Clamp(b.Low + min(max(unit[i], 0), 1)*b.Width())
	}

	return weights
}

// toUnit maps a weight vector back into the unit cube. Fixed dimensions map to 0.
func (s space) toUnit(weights types.WeightVector) ([]float64, error) {
	if len(weights) != len(s.names) {
		return nil, errors.Newf(errors.ErrCodeConfigurationMismatch, "expected %d weights, got %d", len(s.names), len(weights))
	}

	unit := make([]float64, len(s.names))

	for i, name := range s.names {
		w, ok := weights[name]
		if !ok {
			return nil, errors.Newf(errors.ErrCodeConfigurationMismatch, "no weight for %s", name)
		}

		b := s.bounds[i]
		if b.Width() > 0 {
			unit[i] = min(max((w-b.Low)/b.Width(), 0), 1)
		}
	}

	return unit, nil
}
