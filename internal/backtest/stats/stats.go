// Package stats reduces simulation trade logs into performance summaries.
package stats

import (
	"time"

	"github.com/samber/lo"

	"github.com/mkhv12/stk-advisor/internal/types"
)

// Summarize derives the run statistics from a trade log and the final account state.
// Each Sell is paired with the Buy before it; a pair is a win when the sell price is
// higher than the buy price. Every division is guarded: no buys gives a 0 win rate,
// no closed trades gives a 0 average hold time, zero capital gives a 0 return.
func Summarize(trades []types.TradeEvent, cash float64, position types.Position, lastClose float64, initialCapital float64) types.BacktestResult {
	result := types.BacktestResult{
		InitialCapital: initialCapital,
		CurrentPrice:   lastClose,
		FinalPosition:  position,
		Trades:         trades,
		HoldTimes:      []float64{},
	}

	var (
		entryPrice float64
		entryTime  time.Time
		open       bool
	)

	for _, trade := range trades {
		switch trade.Action {
		case types.TradeActionBuy:
			result.BuyCount++
			entryPrice, entryTime, open = trade.Price, trade.Time, true
		case types.TradeActionSell:
			result.SellCount++

			if !open {
				continue
			}

			result.HoldTimes = append(result.HoldTimes, types.HoldDays(entryTime, trade.Time))

			if trade.Price > entryPrice {
				result.WinCount++
			}

			open = false
		}
	}

	result.FinalValue = cash + float64(position.ShareCount)*lastClose
	result.ProfitOrLoss = result.FinalValue - initialCapital

	if initialCapital > 0 {
		result.ReturnPct = result.ProfitOrLoss / initialCapital * 100
	}

	if result.BuyCount > 0 {
		result.WinRate = float64(result.WinCount) / float64(result.BuyCount) * 100
	}

	if len(result.HoldTimes) > 0 {
		result.AverageHoldTime = lo.Sum(result.HoldTimes) / float64(len(result.HoldTimes))
	}

	return result
}

// SummarizeBatch averages results across the symbols of a batch the way the
// multi-symbol report presents them. Symbols without data only count as failed.
func SummarizeBatch(results []types.BacktestResult) types.BatchSummary {
	simulated := lo.Filter(results, func(r types.BacktestResult, _ int) bool { return !r.NoData })
	traded := lo.Filter(simulated, func(r types.BacktestResult, _ int) bool { return r.BuyCount > 0 })

	return types.BatchSummary{
		Symbols:             len(results),
		Failed:              len(results) - len(simulated),
		AverageWinSignalPct: mean(traded, func(r types.BacktestResult) float64 { return r.WinRate }),
		AverageReturnPct:    mean(simulated, func(r types.BacktestResult) float64 { return r.ReturnPct }),
		AverageBuySignals:   mean(traded, func(r types.BacktestResult) float64 { return float64(r.BuyCount) }),
		AverageHoldTime:     mean(simulated, func(r types.BacktestResult) float64 { return r.AverageHoldTime }),
		TotalWins:           lo.SumBy(simulated, func(r types.BacktestResult) int { return r.WinCount }),
		TotalProfitOrLoss:   lo.SumBy(simulated, func(r types.BacktestResult) float64 { return r.ProfitOrLoss }),
	}
}

func mean(results []types.BacktestResult, value func(types.BacktestResult) float64) float64 {
	if len(results) == 0 {
		return 0
	}

	return lo.SumBy(results, value) / float64(len(results))
}
