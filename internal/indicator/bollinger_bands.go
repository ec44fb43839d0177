package indicator

import (
	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// BollingerBands reports a Sell at or above the upper band and a Buy at or below
// the lower band.
type BollingerBands struct {
	period int
	stdDev float64
	stats  *RollingStats
}

// NewBollingerBands creates Bollinger Bands over 20 bars at 2 standard deviations.
func NewBollingerBands() Indicator {
	return &BollingerBands{
		period: 20,
		stdDev: 2.0,
		stats:  NewRollingStats(20),
	}
}

// Name returns the name of the indicator.
func (b *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Config expects period (int) and standard deviation multiplier (float64).
func (b *BollingerBands) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: period (int), stdDev (float64)")
	}

	period, err := intParam(params[0], "period")
	if err != nil {
		return err
	}

	if period < 2 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be at least 2, got %d", period)
	}

	stdDev, err := floatParam(params[1], "stdDev")
	if err != nil {
		return err
	}

	if stdDev <= 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter, "stdDev must be positive, got %f", stdDev)
	}

	b.period = period
	b.stdDev = stdDev
	b.Reset()

	return nil
}

// Update feeds the next close and classifies it against the bands.
func (b *BollingerBands) Update(bar types.Bar, _ IndicatorContext) types.IndicatorStatus {
	b.stats.Push(bar.Close)

	if !b.stats.Ready() {
		return insufficient(b.Name())
	}

	middle := b.stats.Mean()
	width := b.stdDev * b.stats.SampleStdDev()
	upper, lower := middle+width, middle-width

	// %B, 0 at the lower band and 1 at the upper band
	percentB := 0.5
	if upper > lower {
		percentB = (bar.Close - lower) / (upper - lower)
	}

	switch {
	case width == 0:
		return status(b.Name(), types.DirectionNeutral, "Bands collapsed", percentB)
	case bar.Close >= upper:
		return status(b.Name(), types.DirectionSell, "Price near upper band", percentB)
	case bar.Close <= lower:
		return status(b.Name(), types.DirectionBuy, "Price near lower band", percentB)
	default:
		return status(b.Name(), types.DirectionNeutral, "Price within bands", percentB)
	}
}

// Reset drops all state.
func (b *BollingerBands) Reset() {
	b.stats = NewRollingStats(b.period)
}
