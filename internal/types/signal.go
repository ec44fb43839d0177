package types

import (
	"github.com/moznion/go-optional"
)

// Direction is the trading direction an indicator status points to.
type Direction string

const (
	DirectionBuy     Direction = "buy"
	DirectionSell    Direction = "sell"
	DirectionNeutral Direction = "neutral"
)

// IndicatorStatus is the status of one indicator computed from the bars seen so far.
type IndicatorStatus struct {
	// Name is the indicator that produced the status
	Name IndicatorType `yaml:"name"`
	// Direction is the only field the aggregator looks at
	Direction Direction `yaml:"direction"`
	// Label is a human readable description used for reporting only, e.g. "Oversold"
	Label string `yaml:"label"`
	// RawValue is the indicator value, if one could be computed
	RawValue optional.Option[float64] `yaml:"-"`
}

// NeutralStatus returns a Neutral status with the given label and no raw value.
func NeutralStatus(name IndicatorType, label string) IndicatorStatus {
	return IndicatorStatus{
		Name:      name,
		Direction: DirectionNeutral,
		Label:     label,
		RawValue:  optional.None[float64](),
	}
}
