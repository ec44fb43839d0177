package optimizer

import (
	"context"
	"fmt"

	"github.com/mkhv12/stk-advisor/internal/backtest/engine"
	enginev1 "github.com/mkhv12/stk-advisor/internal/backtest/engine/engine_v1"
	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// Metric selects the batch statistic an objective maximizes.
type Metric string

const (
	MetricTotalWins    Metric = "total_wins"
	MetricProfitOrLoss Metric = "profit_or_loss"
	MetricWinRate      Metric = "win_rate"
)

// Runner runs a batch backtest. engine.Engine satisfies it.
type Runner interface {
	Run(ctx context.Context, symbols []string, weights types.WeightVector, callbacks engine.LifecycleCallbacks) ([]engine.SymbolResult, error)
}

// Score reduces a batch summary to the metric.
func (m Metric) Score(summary types.BatchSummary) (float64, error) {
	switch m {
	case MetricTotalWins:
		return float64(summary.TotalWins), nil
	case MetricProfitOrLoss:
		return summary.TotalProfitOrLoss, nil
	case MetricWinRate:
		return summary.AverageWinSignalPct, nil
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "unknown metric %q", m)
	}
}

// NewBacktestObjective scores weights by running the batch backtest over symbols.
// Symbols without data contribute nothing; the objective fails only when no symbol
// could be simulated.
func NewBacktestObjective(runner Runner, symbols []string, metric Metric) Objective {
	return func(ctx context.Context, weights types.WeightVector) (float64, error) {
		if _, err := metric.Score(types.BatchSummary{}); err != nil {
			return 0, err
		}

		results, err := runner.Run(ctx, symbols, weights, engine.LifecycleCallbacks{})
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeOptimizerEvaluationFailed, "backtest failed", err)
		}

		completed := enginev1.CompletedResults(results)
		if len(completed) == 0 && len(results) > 0 {
			return 0, errors.Wrap(errors.ErrCodeOptimizerEvaluationFailed,
				fmt.Sprintf("all %d symbols failed", len(results)), results[0].Err)
		}

		return metric.Score(enginev1.SummarizeRun(results))
	}
}
