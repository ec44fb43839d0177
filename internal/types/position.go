package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// PositionState is the state of the single-position account.
type PositionState string

const (
	PositionStateFlat PositionState = "flat"
	PositionStateLong PositionState = "long"
)

// Position is the only position a simulation holds. Entry fields are set iff State is Long.
type Position struct {
	State      PositionState              `yaml:"state"`
	ShareCount int64                      `yaml:"share_count"`
	EntryPrice optional.Option[float64]   `yaml:"-"`
	EntryTime  optional.Option[time.Time] `yaml:"-"`
}

// FlatPosition returns an empty position.
func FlatPosition() Position {
	return Position{
		State:      PositionStateFlat,
		ShareCount: 0,
		EntryPrice: optional.None[float64](),
		EntryTime:  optional.None[time.Time](),
	}
}

// IsLong reports whether shares are held.
func (p Position) IsLong() bool {
	return p.State == PositionStateLong
}
