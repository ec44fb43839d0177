package indicator

import (
	"github.com/mkhv12/stk-advisor/internal/types"
)

// VWAP is the cumulative volume weighted average of the typical price.
// A close under VWAP is a Buy, otherwise a Sell.
type VWAP struct {
	priceVolume float64
	volume      float64
}

// NewVWAP creates a cumulative VWAP indicator.
func NewVWAP() Indicator {
	return &VWAP{}
}

// Name returns the name of the indicator.
func (v *VWAP) Name() types.IndicatorType {
	return types.IndicatorTypeVWAP
}

// Config takes no parameters.
func (v *VWAP) Config(_ ...any) error {
	return nil
}

// Update adds the bar to the running sums.
func (v *VWAP) Update(bar types.Bar, _ IndicatorContext) types.IndicatorStatus {
	v.priceVolume += bar.TypicalPrice() * bar.Volume
	v.volume += bar.Volume

	if v.volume <= 0 {
		return insufficient(v.Name())
	}

	vwap := v.priceVolume / v.volume

	if bar.Close < vwap {
		return status(v.Name(), types.DirectionBuy, "Price under VWAP", vwap)
	}

	return status(v.Name(), types.DirectionSell, "Price over VWAP", vwap)
}

// Reset drops the running sums.
func (v *VWAP) Reset() {
	v.priceVolume = 0
	v.volume = 0
}
