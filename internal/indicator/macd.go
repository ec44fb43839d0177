package indicator

import (
	"fmt"
	"math"

	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// macdCalculator streams the MACD line, signal line and histogram.
type macdCalculator struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
	fast         *EMA
	slow         *EMA
	signal       *EMA
}

type macdValue struct {
	line      float64
	signal    float64
	histogram float64
}

func newMACDCalculator(fastPeriod, slowPeriod, signalPeriod int) *macdCalculator {
	return &macdCalculator{
		fastPeriod:   fastPeriod,
		slowPeriod:   slowPeriod,
		signalPeriod: signalPeriod,
		fast:         NewEMA(fastPeriod),
		slow:         NewEMA(slowPeriod),
		signal:       NewEMA(signalPeriod),
	}
}

// add feeds a close. ok is false until the slow EMA has seen a full period.
func (c *macdCalculator) add(closePrice float64) (macdValue, bool) {
	line := c.fast.Add(closePrice) - c.slow.Add(closePrice)
	signal := c.signal.Add(line)

	if c.slow.Count() < c.slowPeriod {
		return macdValue{}, false
	}

	return macdValue{line: line, signal: signal, histogram: line - signal}, true
}

func (c *macdCalculator) reset() {
	c.fast.Reset()
	c.slow.Reset()
	c.signal.Reset()
}

func configureMACD(params ...any) (*macdCalculator, error) {
	if len(params) != 3 {
		return nil, errors.New(errors.ErrCodeMissingParameter, "Config expects 3 parameters: fast period (int), slow period (int), signal period (int)")
	}

	periods := make([]int, 3)

	for i, p := range params {
		period, err := intParam(p, fmt.Sprintf("period %d", i))
		if err != nil {
			return nil, err
		}

		if period <= 0 {
			return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
		}

		periods[i] = period
	}

	if periods[0] >= periods[1] {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "fast period %d must be shorter than slow period %d", periods[0], periods[1])
	}

	return newMACDCalculator(periods[0], periods[1], periods[2]), nil
}

// MACD reports Buy while the MACD line is above its signal line and Sell otherwise.
type MACD struct {
	calc *macdCalculator
}

// NewMACD creates a MACD(12, 26, 9) indicator.
func NewMACD() Indicator {
	return &MACD{
		calc: newMACDCalculator(12, 26, 9),
	}
}

// Name returns the name of the indicator.
func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Config expects fast, slow and signal periods.
func (m *MACD) Config(params ...any) error {
	calc, err := configureMACD(params...)
	if err != nil {
		return err
	}

	m.calc = calc

	return nil
}

// Update feeds the next bar and compares the MACD line with the signal line.
func (m *MACD) Update(bar types.Bar, _ IndicatorContext) types.IndicatorStatus {
	value, ok := m.calc.add(bar.Close)
	if !ok {
		return insufficient(m.Name())
	}

	if value.line > value.signal {
		return status(m.Name(), types.DirectionBuy, "Bullish", value.line)
	}

	return status(m.Name(), types.DirectionSell, "Bearish", value.line)
}

// Reset drops all state.
func (m *MACD) Reset() {
	m.calc.reset()
}

// MACDHistogram reports reversals: the histogram crossing up through zero is a Buy,
// crossing down through zero is a Sell.
type MACDHistogram struct {
	calc     *macdCalculator
	previous float64
}

// NewMACDHistogram creates a MACD(12, 26, 9) histogram reversal indicator.
func NewMACDHistogram() Indicator {
	return &MACDHistogram{
		calc:     newMACDCalculator(12, 26, 9),
		previous: math.NaN(),
	}
}

// Name returns the name of the indicator.
func (m *MACDHistogram) Name() types.IndicatorType {
	return types.IndicatorTypeMACDHistogram
}

// Config expects fast, slow and signal periods.
func (m *MACDHistogram) Config(params ...any) error {
	calc, err := configureMACD(params...)
	if err != nil {
		return err
	}

	m.calc = calc
	m.Reset()

	return nil
}

// Update feeds the next bar and detects a zero crossing of the histogram.
func (m *MACDHistogram) Update(bar types.Bar, _ IndicatorContext) types.IndicatorStatus {
	value, ok := m.calc.add(bar.Close)
	if !ok {
		return insufficient(m.Name())
	}

	previous := m.previous
	m.previous = value.histogram

	switch {
	case math.IsNaN(previous):
		return status(m.Name(), types.DirectionNeutral, "No reversal", value.histogram)
	case previous < 0 && value.histogram >= 0:
		return status(m.Name(), types.DirectionBuy, fmt.Sprintf("Reversal to bullish (%.4f)", value.histogram), value.histogram)
	case previous > 0 && value.histogram <= 0:
		return status(m.Name(), types.DirectionSell, fmt.Sprintf("Reversal to bearish (%.4f)", value.histogram), value.histogram)
	default:
		return status(m.Name(), types.DirectionNeutral, "No reversal", value.histogram)
	}
}

// Reset drops all state.
func (m *MACDHistogram) Reset() {
	m.calc.reset()
	m.previous = math.NaN()
}
