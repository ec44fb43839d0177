package indicator

import (
	"github.com/moznion/go-optional"

	"github.com/mkhv12/stk-advisor/internal/types"
)

// Status labels shared by several indicators.
const (
	LabelInsufficientData = "Insufficient data"
	LabelNeutral          = "Neutral"
)

// IndicatorContext carries the statuses already computed for the current bar.
// Composite indicators read the statuses of their dependencies from it.
type IndicatorContext struct {
	Statuses map[types.IndicatorType]types.IndicatorStatus
}

// Indicator is a streaming technical indicator. Update is called once per bar in
// ascending time order and must only use bars it has already been given.
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Update consumes the next bar and returns the status as of that bar
	Update(bar types.Bar, ctx IndicatorContext) types.IndicatorStatus
	// Config overrides the default parameters
	Config(params ...any) error
	// Reset drops all state so the indicator can be fed a new series
	Reset()
}

// CompositeIndicator is an indicator whose status is derived from other indicators'
// statuses on the same bar.
type CompositeIndicator interface {
	Indicator
	Dependencies() []types.IndicatorType
}

func status(name types.IndicatorType, direction types.Direction, label string, value float64) types.IndicatorStatus {
	return types.IndicatorStatus{
		Name:      name,
		Direction: direction,
		Label:     label,
		RawValue:  optional.Some(value),
	}
}

func insufficient(name types.IndicatorType) types.IndicatorStatus {
	return types.NeutralStatus(name, LabelInsufficientData)
}
