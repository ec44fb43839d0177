package engine

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"

	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// SimulationState is the account of one symbol run: cash, the single position and the trade log.
// Cash is kept as a decimal so that buying floor(cash/price) shares never drives it below zero.
type SimulationState struct {
	cash     decimal.Decimal
	position types.Position
	trades   []types.TradeEvent
}

// NewSimulationState creates a flat account holding the given cash.
func NewSimulationState(initialCapital float64) (*SimulationState, error) {
	if initialCapital < 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidCapital, "initial capital must not be negative, got %f", initialCapital)
	}

	return &SimulationState{
		cash:     decimal.NewFromFloat(initialCapital),
		position: types.FlatPosition(),
		trades:   []types.TradeEvent{},
	}, nil
}

// Cash returns the current cash balance.
func (s *SimulationState) Cash() float64 {
	cash, _ := s.cash.Float64()

	return cash
}

// Position returns the current position.
func (s *SimulationState) Position() types.Position {
	return s.position
}

// Trades returns the trade log in chronological order.
func (s *SimulationState) Trades() []types.TradeEvent {
	return s.trades
}

// Buy spends the whole cash balance on floor(cash/price) shares. It returns false without
// changing anything when a position is already open or not a single share is affordable.
func (s *SimulationState) Buy(at time.Time, price float64) (types.TradeEvent, bool) {
	if s.position.IsLong() || price <= 0 {
		return types.TradeEvent{}, false
	}

	priceDec := decimal.NewFromFloat(price)

	shares := s.cash.Div(priceDec).Floor()
	if shares.LessThan(decimal.NewFromInt(1)) {
		return types.TradeEvent{}, false
	}

	s.cash = s.cash.Sub(shares.Mul(priceDec))
	s.position = types.Position{
		State:      types.PositionStateLong,
		ShareCount: shares.IntPart(),
		EntryPrice: optional.Some(price),
		EntryTime:  optional.Some(at),
	}

	event := types.TradeEvent{
		Time:       at,
		Action:     types.TradeActionBuy,
		Price:      price,
		ShareCount: s.position.ShareCount,
	}
	s.trades = append(s.trades, event)

	return event, true
}

// ShouldExit reports whether a sell signal at price may close the open position: the gain
// must reach profitThreshold or the loss must reach stopLossThreshold, both relative to entry.
func (s *SimulationState) ShouldExit(price float64, profitThreshold float64, stopLossThreshold float64) bool {
	if !s.position.IsLong() {
		return false
	}

	entry := s.position.EntryPrice.Unwrap()
	if entry <= 0 {
		return false
	}

	gain := (price - entry) / entry
	loss := (entry - price) / entry

	return gain >= profitThreshold || loss >= stopLossThreshold
}

// Sell closes the open position at price. It returns false when the account is flat.
func (s *SimulationState) Sell(at time.Time, price float64) (types.TradeEvent, bool) {
	if !s.position.IsLong() {
		return types.TradeEvent{}, false
	}

	proceeds := decimal.NewFromInt(s.position.ShareCount).Mul(decimal.NewFromFloat(price))
	s.cash = s.cash.Add(proceeds)
	s.position = types.FlatPosition()

	event := types.TradeEvent{
		Time:       at,
		Action:     types.TradeActionSell,
		Price:      price,
		ShareCount: 0,
	}
	s.trades = append(s.trades, event)

	return event, true
}
