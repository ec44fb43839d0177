package engine

import (
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkhv12/stk-advisor/internal/backtest/stats"
	"github.com/mkhv12/stk-advisor/internal/decision"
	"github.com/mkhv12/stk-advisor/internal/indicator"
	"github.com/mkhv12/stk-advisor/internal/logger"
	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// Simulator walks a bar series forward, decides on every bar from the statuses
// computed so far and trades a single long position.
type Simulator struct {
	config    BacktestEngineV1Config
	providers indicator.ProviderFactory
	logger    *logger.Logger
}

// NewSimulator creates a simulator. Every Run and Analyze call gets a fresh provider from providers.
func NewSimulator(config BacktestEngineV1Config, providers indicator.ProviderFactory, logger *logger.Logger) *Simulator {
	return &Simulator{
		config:    config,
		providers: providers,
		logger:    logger,
	}
}

// ValidateBars rejects series with a non-positive or non-finite close, or timestamps
// that are not strictly ascending.
func ValidateBars(bars []types.Bar) error {
	for i, bar := range bars {
		if bar.Close <= 0 || math.IsNaN(bar.Close) || math.IsInf(bar.Close, 0) {
			return errors.Newf(errors.ErrCodeInvalidBar, "bar %d of %s at %s has invalid close %f", i, bar.Symbol, bar.Time, bar.Close)
		}

		if i > 0 && !bar.Time.After(bars[i-1].Time) {
			return errors.Newf(errors.ErrCodeInvalidBar, "bar %d of %s at %s is not after %s", i, bar.Symbol, bar.Time, bars[i-1].Time)
		}
	}

	return nil
}

func (s *Simulator) prepare(bars []types.Bar, weights types.WeightVector) (indicator.StatusProvider, error) {
	if err := ValidateBars(bars); err != nil {
		return nil, err
	}

	provider, err := s.providers()
	if err != nil {
		return nil, err
	}

	if err := decision.ValidateWeights(provider.Names(), weights); err != nil {
		return nil, err
	}

	return provider, nil
}

// Run simulates symbol over bars. An empty series yields a NoData result and no error.
func (s *Simulator) Run(symbol string, bars []types.Bar, weights types.WeightVector) (types.BacktestResult, error) {
	if len(bars) == 0 {
		s.logger.Warn("No bars to simulate", zap.String("symbol", symbol))

		return types.BacktestResult{
			ID:             uuid.New().String(),
			Symbol:         symbol,
			NoData:         true,
			InitialCapital: s.config.InitialCapital,
			FinalPosition:  types.FlatPosition(),
		}, nil
	}

	provider, err := s.prepare(bars, weights)
	if err != nil {
		return types.BacktestResult{}, err
	}

	state, err := NewSimulationState(s.config.InitialCapital)
	if err != nil {
		return types.BacktestResult{}, err
	}

	var last types.Decision

	for _, bar := range bars {
		statuses := provider.Next(bar)

		last, err = decision.Aggregate(statuses, weights)
		if err != nil {
			return types.BacktestResult{}, err
		}

		s.step(state, bar, last)
	}

	lastClose := bars[len(bars)-1].Close
	result := stats.Summarize(state.Trades(), state.Cash(), state.Position(), lastClose, s.config.InitialCapital)
	result.ID = uuid.New().String()
	result.Symbol = symbol
	result.LastDecision = last

	s.logger.Info("Simulation finished",
		zap.String("symbol", symbol),
		zap.Int("bars", len(bars)),
		zap.Int("buys", result.BuyCount),
		zap.Int("wins", result.WinCount),
		zap.Float64("profit_or_loss", result.ProfitOrLoss),
	)

	return result, nil
}

func (s *Simulator) step(state *SimulationState, bar types.Bar, d types.Decision) {
	s.logger.Debug("Bar decision",
		zap.String("symbol", bar.Symbol),
		zap.Time("time", bar.Time),
		zap.Float64("close", bar.Close),
		zap.String("action", string(d.Action)),
		zap.Float64("buy_score", d.BuyScore),
		zap.Float64("sell_score", d.SellScore),
		zap.Float64("hold_score", d.HoldScore),
	)

	switch {
	case d.Action == types.ActionBuy && !state.Position().IsLong():
		if event, ok := state.Buy(bar.Time, bar.Close); ok {
			s.logger.Debug("Bought", zap.String("symbol", bar.Symbol), zap.Int64("shares", event.ShareCount), zap.Float64("price", event.Price))
		}
	case d.Action == types.ActionSell && state.Position().IsLong():
		if !state.ShouldExit(bar.Close, s.config.ProfitThreshold, s.config.StopLossThreshold) {
			return
		}

		if event, ok := state.Sell(bar.Time, bar.Close); ok {
			s.logger.Debug("Sold", zap.String("symbol", bar.Symbol), zap.Float64("price", event.Price))
		}
	}
}

// Analyze feeds every bar without trading and returns the statuses and decision of the last bar.
func (s *Simulator) Analyze(symbol string, bars []types.Bar, weights types.WeightVector) (types.Analysis, error) {
	if len(bars) == 0 {
		return types.Analysis{}, errors.Newf(errors.ErrCodeNoDataFound, "no market data found for symbol %s", symbol)
	}

	provider, err := s.prepare(bars, weights)
	if err != nil {
		return types.Analysis{}, err
	}

	var statuses map[types.IndicatorType]types.IndicatorStatus
	for _, bar := range bars {
		statuses = provider.Next(bar)
	}

	d, err := decision.Aggregate(statuses, weights)
	if err != nil {
		return types.Analysis{}, err
	}

	return types.Analysis{
		Symbol:       symbol,
		CurrentPrice: bars[len(bars)-1].Close,
		Decision:     d,
		Statuses:     statuses,
		PriceDrop:    measurePriceDrop(bars, PriceDropThreshold),
	}, nil
}

// PriceDropThreshold is the fall from the highest close that Analyze flags.
const PriceDropThreshold = 0.20

func measurePriceDrop(bars []types.Bar, threshold float64) types.PriceDrop {
	high := bars[0].Close
	for _, bar := range bars[1:] {
		high = max(high, bar.Close)
	}

	drop := types.PriceDrop{High: high}
	if high > 0 {
		drop.DropPct = (high - bars[len(bars)-1].Close) / high * 100
		drop.Significant = drop.DropPct >= threshold*100
	}

	return drop
}
