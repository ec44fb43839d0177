package types

import (
	"time"
)

// TradeAction is the side of a simulated trade.
type TradeAction string

const (
	TradeActionBuy  TradeAction = "buy"
	TradeActionSell TradeAction = "sell"
)

// TradeEvent is one entry of the simulation trade log.
type TradeEvent struct {
	Time   time.Time   `yaml:"time" csv:"time"`
	Action TradeAction `yaml:"action" csv:"action"`
	Price  float64     `yaml:"price" csv:"price"`
	// ShareCount is the share count after the trade was applied.
	// For example, buying 3 shares from flat yields 3 and selling them yields 0.
	ShareCount int64 `yaml:"share_count" csv:"share_count"`
}

// HoldDays returns the elapsed time between two instants in fractional days.
func HoldDays(entry time.Time, exit time.Time) float64 {
	return exit.Sub(entry).Hours() / 24
}
