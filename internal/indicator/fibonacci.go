package indicator

import (
	"fmt"

	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// Fibonacci locates the close inside the high/low range of the last period bars.
// At or below the 38.2% level it is a Buy, at or above the 61.8% level a Sell.
type Fibonacci struct {
	period    int
	buyLevel  float64
	sellLevel float64
	highest   *RollingExtremum
	lowest    *RollingExtremum
}

// NewFibonacci creates a 60 bar Fibonacci retracement indicator.
func NewFibonacci() Indicator {
	f := &Fibonacci{period: 60, buyLevel: 0.382, sellLevel: 0.618}
	f.Reset()

	return f
}

// Name returns the name of the indicator.
func (f *Fibonacci) Name() types.IndicatorType {
	return types.IndicatorTypeFibonacci
}

// Config expects period (int).
func (f *Fibonacci) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, err := intParam(params[0], "period")
	if err != nil {
		return err
	}

	if period < 2 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be at least 2, got %d", period)
	}

	f.period = period
	f.Reset()

	return nil
}

// Update feeds the next bar.
func (f *Fibonacci) Update(bar types.Bar, _ IndicatorContext) types.IndicatorStatus {
	f.highest.Push(bar.High)
	f.lowest.Push(bar.Low)

	if !f.highest.Ready() {
		return insufficient(f.Name())
	}

	hh, ll := f.highest.Value(), f.lowest.Value()
	if hh <= ll {
		return types.NeutralStatus(f.Name(), "No range")
	}

	position := (bar.Close - ll) / (hh - ll)

	switch {
	case position <= f.buyLevel:
		return status(f.Name(), types.DirectionBuy, fmt.Sprintf("Near support (%.1f%%)", position*100), position)
	case position >= f.sellLevel:
		return status(f.Name(), types.DirectionSell, fmt.Sprintf("Near resistance (%.1f%%)", position*100), position)
	default:
		return status(f.Name(), types.DirectionNeutral, "Inside retracement band", position)
	}
}

// Reset drops all state.
func (f *Fibonacci) Reset() {
	f.highest = NewRollingMax(f.period)
	f.lowest = NewRollingMin(f.period)
}
