package types

import (
	"github.com/samber/lo"
)

// WeightVector maps an indicator to its non-negative weight.
type WeightVector map[IndicatorType]float64

// Names returns the indicator names of the vector in sorted order.
func (w WeightVector) Names() []IndicatorType {
	return SortIndicatorTypes(lo.Keys(w))
}

// Clone returns a copy that can be modified without affecting w.
func (w WeightVector) Clone() WeightVector {
	return lo.Assign(w)
}

// Bound is the closed search interval of a single weight.
type Bound struct {
	Low  float64 `yaml:"low" json:"low" validate:"gte=0"`
	High float64 `yaml:"high" json:"high" validate:"gtefield=Low"`
}

// Width returns High - Low.
func (b Bound) Width() float64 {
	return b.High - b.Low
}

// Clamp restricts v to the bound.
func (b Bound) Clamp(v float64) float64 {
	return min(max(v, b.Low), b.High)
}

// Bounds maps an indicator to the interval its weight is searched in.
type Bounds map[IndicatorType]Bound

// Names returns the indicator names of the bounds in sorted order.
func (b Bounds) Names() []IndicatorType {
	return SortIndicatorTypes(lo.Keys(b))
}
