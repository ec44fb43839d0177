package indicator

import (
	"math"

	"github.com/moznion/go-optional"

	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// RSIDivergence compares the latest close and RSI with the extremes of the previous
// lookback bars. A new price low with a higher RSI than the RSI low is a bullish
// divergence (Buy); a new price high with a lower RSI than the RSI high is bearish (Sell).
type RSIDivergence struct {
	rsiPeriod int
	lookback  int
	rsi       *rsiCalculator

	priceLow  *RollingExtremum
	priceHigh *RollingExtremum
	rsiLow    *RollingExtremum
	rsiHigh   *RollingExtremum
}

// NewRSIDivergence creates an RSI(14) divergence indicator with a 14 bar lookback.
func NewRSIDivergence() Indicator {
	d := &RSIDivergence{rsiPeriod: 14, lookback: 14}
	d.Reset()

	return d
}

// Name returns the name of the indicator.
func (d *RSIDivergence) Name() types.IndicatorType {
	return types.IndicatorTypeRSIDivergence
}

// Config expects RSI period (int) and lookback (int).
func (d *RSIDivergence) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: rsi period (int), lookback (int)")
	}

	period, err := intParam(params[0], "rsi period")
	if err != nil {
		return err
	}

	lookback, err := intParam(params[1], "lookback")
	if err != nil {
		return err
	}

	if period <= 0 || lookback <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "periods must be positive, got %d and %d", period, lookback)
	}

	d.rsiPeriod = period
	d.lookback = lookback
	d.Reset()

	return nil
}

// Update feeds the next bar. The current bar is compared before it joins the window.
func (d *RSIDivergence) Update(bar types.Bar, _ IndicatorContext) types.IndicatorStatus {
	rsi := d.rsi.add(bar.Close)
	if math.IsNaN(rsi) {
		return insufficient(d.Name())
	}

	result := types.NeutralStatus(d.Name(), "No divergence")
	result.RawValue = optional.Some(rsi)

	if d.priceLow.Ready() {
		switch {
		case bar.Close < d.priceLow.Value() && rsi > d.rsiLow.Value():
			result = status(d.Name(), types.DirectionBuy, "Bullish divergence", rsi)
		case bar.Close > d.priceHigh.Value() && rsi < d.rsiHigh.Value():
			result = status(d.Name(), types.DirectionSell, "Bearish divergence", rsi)
		}
	} else {
		result = insufficient(d.Name())
	}

	d.priceLow.Push(bar.Close)
	d.priceHigh.Push(bar.Close)
	d.rsiLow.Push(rsi)
	d.rsiHigh.Push(rsi)

	return result
}

// Reset drops all state.
func (d *RSIDivergence) Reset() {
	d.rsi = newRSICalculator(d.rsiPeriod)
	d.priceLow = NewRollingMin(d.lookback)
	d.priceHigh = NewRollingMax(d.lookback)
	d.rsiLow = NewRollingMin(d.lookback)
	d.rsiHigh = NewRollingMax(d.lookback)
}
