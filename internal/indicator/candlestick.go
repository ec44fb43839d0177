package indicator

import (
	"math"

	"github.com/moznion/go-optional"

	"github.com/mkhv12/stk-advisor/internal/types"
)

// Candlestick detects single and two bar reversal patterns on the latest bars:
// bullish engulfing and hammer are Buys, bearish engulfing and shooting star are Sells.
type Candlestick struct {
	prev optional.Option[types.Bar]
}

// NewCandlestick creates a candlestick pattern indicator.
func NewCandlestick() Indicator {
	return &Candlestick{prev: optional.None[types.Bar]()}
}

// Name returns the name of the indicator.
func (c *Candlestick) Name() types.IndicatorType {
	return types.IndicatorTypeCandlestick
}

// Config takes no parameters.
func (c *Candlestick) Config(_ ...any) error {
	return nil
}

// Update feeds the next bar and checks the patterns, engulfing first.
func (c *Candlestick) Update(bar types.Bar, _ IndicatorContext) types.IndicatorStatus {
	prev, err := c.prev.Take()
	c.prev = optional.Some(bar)

	if err != nil {
		return insufficient(c.Name())
	}

	switch {
	case isBullishEngulfing(prev, bar):
		return types.IndicatorStatus{Name: c.Name(), Direction: types.DirectionBuy, Label: "Bullish engulfing"}
	case isBearishEngulfing(prev, bar):
		return types.IndicatorStatus{Name: c.Name(), Direction: types.DirectionSell, Label: "Bearish engulfing"}
	case isHammer(bar):
		return types.IndicatorStatus{Name: c.Name(), Direction: types.DirectionBuy, Label: "Hammer"}
	case isShootingStar(bar):
		return types.IndicatorStatus{Name: c.Name(), Direction: types.DirectionSell, Label: "Shooting star"}
	default:
		return types.NeutralStatus(c.Name(), "No pattern")
	}
}

// Reset drops the previous bar.
func (c *Candlestick) Reset() {
	c.prev = optional.None[types.Bar]()
}

func isBullishEngulfing(prev, cur types.Bar) bool {
	return prev.Close < prev.Open && cur.Close > cur.Open &&
		cur.Open <= prev.Close && cur.Close >= prev.Open
}

func isBearishEngulfing(prev, cur types.Bar) bool {
	return prev.Close > prev.Open && cur.Close < cur.Open &&
		cur.Open >= prev.Close && cur.Close <= prev.Open
}

func candleShadows(bar types.Bar) (body, upper, lower float64) {
	body = math.Abs(bar.Close - bar.Open)
	upper = bar.High - math.Max(bar.Open, bar.Close)
	lower = math.Min(bar.Open, bar.Close) - bar.Low

	return body, upper, lower
}

func isHammer(bar types.Bar) bool {
	body, upper, lower := candleShadows(bar)

	return body > 0 && lower >= 2*body && upper <= body
}

func isShootingStar(bar types.Bar) bool {
	body, upper, lower := candleShadows(bar)

	return body > 0 && upper >= 2*body && lower <= body
}
