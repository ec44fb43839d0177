package indicator

import "math"

// EMA is a streaming exponential moving average with alpha = 2 / (period + 1).
// The first value seeds the average.
type EMA struct {
	period int
	alpha  float64
	value  float64
	count  int
}

// NewEMA creates a new EMA over the given period.
func NewEMA(period int) *EMA {
	return &EMA{
		period: period,
		alpha:  2 / (float64(period) + 1),
	}
}

// Add feeds the next value and returns the updated average.
func (e *EMA) Add(value float64) float64 {
	if e.count == 0 {
		e.value = value
	} else {
		e.value = e.alpha*value + (1-e.alpha)*e.value
	}

	e.count++

	return e.value
}

// Value returns the current average, NaN before the first value.
func (e *EMA) Value() float64 {
	if e.count == 0 {
		return math.NaN()
	}

	return e.value
}

// Count returns how many values have been fed.
func (e *EMA) Count() int {
	return e.count
}

// Reset drops the average.
func (e *EMA) Reset() {
	e.value = 0
	e.count = 0
}
