package indicator

import (
	"math"

	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// GoldenCross reports a Buy on the bar where the short SMA crosses above the long SMA.
type GoldenCross struct {
	shortPeriod int
	longPeriod  int
	short       *SMA
	long        *SMA
	prevShort   float64
	prevLong    float64
}

// NewGoldenCross creates a SMA(50)/SMA(200) golden cross indicator.
func NewGoldenCross() Indicator {
	g := &GoldenCross{shortPeriod: 50, longPeriod: 200}
	g.Reset()

	return g
}

// Name returns the name of the indicator.
func (g *GoldenCross) Name() types.IndicatorType {
	return types.IndicatorTypeGoldenCross
}

// Config expects short period (int) and long period (int).
func (g *GoldenCross) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: short period (int), long period (int)")
	}

	short, err := intParam(params[0], "short period")
	if err != nil {
		return err
	}

	long, err := intParam(params[1], "long period")
	if err != nil {
		return err
	}

	if short <= 0 || long <= short {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "periods must satisfy 0 < short < long, got %d and %d", short, long)
	}

	g.shortPeriod = short
	g.longPeriod = long
	g.Reset()

	return nil
}

// Update feeds the next bar and checks for a crossing on this bar.
func (g *GoldenCross) Update(bar types.Bar, _ IndicatorContext) types.IndicatorStatus {
	short := g.short.Add(bar.Close)
	long := g.long.Add(bar.Close)
	prevShort, prevLong := g.prevShort, g.prevLong
	g.prevShort, g.prevLong = short, long

	if math.IsNaN(long) {
		return insufficient(g.Name())
	}

	spread := short - long

	if short > long && !math.IsNaN(prevLong) && prevShort <= prevLong {
		return status(g.Name(), types.DirectionBuy, "Golden cross", spread)
	}

	return status(g.Name(), types.DirectionNeutral, "No golden cross", spread)
}

// Reset drops all state.
func (g *GoldenCross) Reset() {
	g.short = NewSMA(g.shortPeriod)
	g.long = NewSMA(g.longPeriod)
	g.prevShort = math.NaN()
	g.prevLong = math.NaN()
}
