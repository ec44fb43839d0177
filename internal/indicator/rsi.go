package indicator

import (
	"fmt"
	"math"

	"github.com/moznion/go-optional"

	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// rsiCalculator computes RSI from rolling means of gains and losses over the last
// period price changes. The means use whatever changes are available, so a value
// exists from the second bar on.
type rsiCalculator struct {
	gains     *RollingStats
	losses    *RollingStats
	prevClose optional.Option[float64]
}

func newRSICalculator(period int) *rsiCalculator {
	return &rsiCalculator{
		gains:     NewRollingStats(period),
		losses:    NewRollingStats(period),
		prevClose: optional.None[float64](),
	}
}

// add feeds a close and returns the RSI, NaN when it is undefined.
func (c *rsiCalculator) add(closePrice float64) float64 {
	prev, err := c.prevClose.Take()
	c.prevClose = optional.Some(closePrice)

	if err != nil {
		return math.NaN()
	}

	change := closePrice - prev
	c.gains.Push(math.Max(change, 0))
	c.losses.Push(math.Max(-change, 0))

	avgGain := c.gains.Mean()
	avgLoss := c.losses.Mean()

	if avgLoss == 0 {
		if avgGain == 0 {
			// flat prices
			return math.NaN()
		}

		return 100
	}

	rs := avgGain / avgLoss

	return 100 - (100 / (1 + rs))
}

func (c *rsiCalculator) reset() {
	c.gains.Reset()
	c.losses.Reset()
	c.prevClose = optional.None[float64]()
}

// RSI represents the Relative Strength Index indicator.
type RSI struct {
	period            int
	rsiLowerThreshold float64
	rsiUpperThreshold float64
	calc              *rsiCalculator
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	return &RSI{
		period:            14,
		rsiLowerThreshold: 30,
		rsiUpperThreshold: 70,
		calc:              newRSICalculator(14),
	}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Config configures the RSI indicator. Expected parameters: period (int), and
// optionally lower threshold (float64) and upper threshold (float64).
func (r *RSI) Config(params ...any) error {
	if len(params) < 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects at least 1 parameter: period (int)")
	}

	period, err := intParam(params[0], "period")
	if err != nil {
		return err
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	lower, upper := r.rsiLowerThreshold, r.rsiUpperThreshold

	if len(params) >= 2 {
		if lower, err = floatParam(params[1], "lower threshold"); err != nil {
			return err
		}
	}

	if len(params) >= 3 {
		if upper, err = floatParam(params[2], "upper threshold"); err != nil {
			return err
		}
	}

	if lower >= upper {
		return errors.Newf(errors.ErrCodeInvalidParameter, "lower threshold %.2f must be below upper threshold %.2f", lower, upper)
	}

	r.period = period
	r.rsiLowerThreshold = lower
	r.rsiUpperThreshold = upper
	r.calc = newRSICalculator(period)

	return nil
}

// Update feeds the next bar and classifies the RSI value.
func (r *RSI) Update(bar types.Bar, _ IndicatorContext) types.IndicatorStatus {
	value := r.calc.add(bar.Close)
	if math.IsNaN(value) {
		return insufficient(r.Name())
	}

	switch {
	case value > r.rsiUpperThreshold:
		return status(r.Name(), types.DirectionSell, fmt.Sprintf("Overbought (%.2f)", value), value)
	case value < r.rsiLowerThreshold:
		return status(r.Name(), types.DirectionBuy, fmt.Sprintf("Oversold (%.2f)", value), value)
	default:
		return status(r.Name(), types.DirectionNeutral, LabelNeutral, value)
	}
}

// Reset drops all state.
func (r *RSI) Reset() {
	r.calc.reset()
}
