package indicator

import (
	"github.com/moznion/go-optional"

	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// ADX measures trend strength. In a strong trend it follows the MACD status,
// otherwise it follows the RSI status.
type ADX struct {
	period           int
	strongTrendLevel float64
	movement         *directionalMovement
}

// NewADX creates an ADX(14) indicator with a strong-trend level of 25.
func NewADX() Indicator {
	return &ADX{
		period:           14,
		strongTrendLevel: 25,
		movement:         newDirectionalMovement(14),
	}
}

// Name returns the name of the indicator.
func (a *ADX) Name() types.IndicatorType {
	return types.IndicatorTypeADX
}

// Dependencies returns the indicators ADX takes its direction from.
func (a *ADX) Dependencies() []types.IndicatorType {
	return []types.IndicatorType{types.IndicatorTypeRSI, types.IndicatorTypeMACD}
}

// Config expects period (int) and optionally the strong-trend level (float64).
func (a *ADX) Config(params ...any) error {
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

	level := a.strongTrendLevel
	if len(params) >= 2 {
		if level, err = floatParam(params[1], "strong trend level"); err != nil {
			return err
		}
	}

	a.period = period
	a.strongTrendLevel = level
	a.movement = newDirectionalMovement(period)

	return nil
}

// Update feeds the next bar. Until ADX is available the trend is treated as weak.
func (a *ADX) Update(bar types.Bar, ctx IndicatorContext) types.IndicatorStatus {
	value, ok := a.movement.add(bar)

	raw := optional.None[float64]()
	if ok {
		raw = optional.Some(value)
	}

	follow, prefix := types.IndicatorTypeRSI, "Weak trend, RSI: "
	if ok && value >= a.strongTrendLevel {
		follow, prefix = types.IndicatorTypeMACD, "Strong trend, MACD: "
	}

	dep, found := ctx.Statuses[follow]
	if !found {
		return insufficient(a.Name())
	}

	return types.IndicatorStatus{
		Name:      a.Name(),
		Direction: dep.Direction,
		Label:     prefix + dep.Label,
		RawValue:  raw,
	}
}

// Reset drops all state.
func (a *ADX) Reset() {
	a.movement.reset()
}
