package indicator

import "math"

// SMA is a streaming simple moving average over a fixed period.
type SMA struct {
	stats *RollingStats
}

// NewSMA creates a new SMA over the given period.
func NewSMA(period int) *SMA {
	return &SMA{stats: NewRollingStats(period)}
}

// Add feeds the next value and returns the average, NaN until the period is filled.
func (s *SMA) Add(value float64) float64 {
	s.stats.Push(value)

	return s.Value()
}

// Value returns the current average, NaN until the period is filled.
func (s *SMA) Value() float64 {
	if !s.stats.Ready() {
		return math.NaN()
	}

	return s.stats.Mean()
}

// Ready reports whether the period is filled.
func (s *SMA) Ready() bool {
	return s.stats.Ready()
}

// Reset drops all values.
func (s *SMA) Reset() {
	s.stats.Reset()
}
