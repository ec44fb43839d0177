package indicator

import (
	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// VolumeTrend compares the bar volume with its moving average: higher is a Buy,
// otherwise a Sell.
type VolumeTrend struct {
	period int
	vma    *SMA
}

// NewVolumeTrend creates a volume trend indicator over a 20 bar volume average.
func NewVolumeTrend() Indicator {
	return &VolumeTrend{
		period: 20,
		vma:    NewSMA(20),
	}
}

// Name returns the name of the indicator.
func (v *VolumeTrend) Name() types.IndicatorType {
	return types.IndicatorTypeVolumeTrend
}

// Config expects period (int).
func (v *VolumeTrend) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, err := intParam(params[0], "period")
	if err != nil {
		return err
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	v.period = period
	v.Reset()

	return nil
}

// Update feeds the next bar's volume.
func (v *VolumeTrend) Update(bar types.Bar, _ IndicatorContext) types.IndicatorStatus {
	vma := v.vma.Add(bar.Volume)
	if !v.vma.Ready() {
		return insufficient(v.Name())
	}

	if bar.Volume > vma {
		return status(v.Name(), types.DirectionBuy, "Increasing volume", vma)
	}

	return status(v.Name(), types.DirectionSell, "Decreasing volume", vma)
}

// Reset drops all state.
func (v *VolumeTrend) Reset() {
	v.vma = NewSMA(v.period)
}
