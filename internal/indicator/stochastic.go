package indicator

import (
	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// Stochastic is the stochastic oscillator. Both %K and %D above the upper level is
// a Sell, both below the lower level is a Buy.
type Stochastic struct {
	kPeriod    int
	dPeriod    int
	lowerLevel float64
	upperLevel float64
	highest    *RollingExtremum
	lowest     *RollingExtremum
	d          *SMA
}

// NewStochastic creates a stochastic oscillator with %K(14), %D(3) and levels 20/80.
func NewStochastic() Indicator {
	s := &Stochastic{kPeriod: 14, dPeriod: 3, lowerLevel: 20, upperLevel: 80}
	s.Reset()

	return s
}

// Name returns the name of the indicator.
func (s *Stochastic) Name() types.IndicatorType {
	return types.IndicatorTypeStochastic
}

// Config expects %K period (int) and %D period (int).
func (s *Stochastic) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: k period (int), d period (int)")
	}

	k, err := intParam(params[0], "k period")
	if err != nil {
		return err
	}

	d, err := intParam(params[1], "d period")
	if err != nil {
		return err
	}

	if k <= 0 || d <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "periods must be positive, got %d and %d", k, d)
	}

	s.kPeriod = k
	s.dPeriod = d
	s.Reset()

	return nil
}

// Update feeds the next bar.
func (s *Stochastic) Update(bar types.Bar, _ IndicatorContext) types.IndicatorStatus {
	s.highest.Push(bar.High)
	s.lowest.Push(bar.Low)

	if !s.highest.Ready() {
		return insufficient(s.Name())
	}

	hh, ll := s.highest.Value(), s.lowest.Value()

	// a flat range has no position inside it, treat it as the middle
	k := 50.0
	if hh > ll {
		k = 100 * (bar.Close - ll) / (hh - ll)
	}

	d := s.d.Add(k)
	if !s.d.Ready() {
		return insufficient(s.Name())
	}

	switch {
	case k > s.upperLevel && d > s.upperLevel:
		return status(s.Name(), types.DirectionSell, "Overbought", k)
	case k < s.lowerLevel && d < s.lowerLevel:
		return status(s.Name(), types.DirectionBuy, "Oversold", k)
	default:
		return status(s.Name(), types.DirectionNeutral, LabelNeutral, k)
	}
}

// Reset drops all state.
func (s *Stochastic) Reset() {
	s.highest = NewRollingMax(s.kPeriod)
	s.lowest = NewRollingMin(s.kPeriod)
	s.d = NewSMA(s.dPeriod)
}
