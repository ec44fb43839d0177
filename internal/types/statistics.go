package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mkhv12/stk-advisor/internal/version"
)

// BacktestResult summarizes one completed simulation run.
type BacktestResult struct {
	// ID is the unique identifier for this run.
	ID string `yaml:"id" json:"id"`
	// Symbol of the simulated instrument.
	Symbol string `yaml:"symbol" json:"symbol"`
	// NoData is set when the symbol had no bars. Every other field is zero in that case.
	NoData bool `yaml:"no_data" json:"no_data"`
	// InitialCapital is the cash the run started with.
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital"`
	// FinalValue is cash + shares * last close. Open positions are valued, not liquidated.
	FinalValue float64 `yaml:"final_value" json:"final_value"`
	// ProfitOrLoss is FinalValue - InitialCapital.
	ProfitOrLoss float64 `yaml:"profit_or_loss" json:"profit_or_loss"`
	// ReturnPct is ProfitOrLoss / InitialCapital * 100.
	ReturnPct float64 `yaml:"return_pct" json:"return_pct"`
	// BuyCount is the number of Buy trade events.
	BuyCount int `yaml:"buy_count" json:"buy_count"`
	// SellCount is the number of Sell trade events.
	SellCount int `yaml:"sell_count" json:"sell_count"`
	// WinCount is the number of sells whose price exceeded the paired entry price.
	WinCount int `yaml:"win_count" json:"win_count"`
	// WinRate is WinCount / BuyCount * 100, 0 when nothing was bought.
	WinRate float64 `yaml:"win_rate" json:"win_rate"`
	// HoldTimes are the holding periods of closed trades in days.
	HoldTimes []float64 `yaml:"hold_times" json:"hold_times"`
	// AverageHoldTime is the mean of HoldTimes, 0 when no trade closed.
	AverageHoldTime float64 `yaml:"average_hold_time" json:"average_hold_time"`
	// CurrentPrice is the close of the last bar.
	CurrentPrice float64 `yaml:"current_price" json:"current_price"`
	// LastDecision is the decision computed on the last bar.
	LastDecision Decision `yaml:"last_decision" json:"last_decision"`
	// FinalPosition is the position left after the last bar.
	FinalPosition Position `yaml:"final_position" json:"final_position"`
	// Trades is the full trade log.
	Trades []TradeEvent `yaml:"trades" json:"trades"`
}

// BatchSummary holds averages across the symbols of a batch run.
type BatchSummary struct {
	// Symbols counts every symbol of the batch.
	Symbols int `yaml:"symbols"`
	// Failed counts symbols that had no data or failed.
	Failed int `yaml:"failed"`
	// AverageWinSignalPct is the mean win rate over symbols that bought at least once.
	AverageWinSignalPct float64 `yaml:"average_win_signal_pct"`
	// AverageReturnPct is the mean return over simulated symbols.
	AverageReturnPct float64 `yaml:"average_return_pct"`
	// AverageBuySignals is the mean buy count over symbols that bought at least once.
	AverageBuySignals float64 `yaml:"average_buy_signals"`
	// AverageHoldTime is the mean of the per-symbol average hold times.
	AverageHoldTime float64 `yaml:"average_hold_time"`
	// TotalWins is the sum of win counts.
	TotalWins int `yaml:"total_wins"`
	// TotalProfitOrLoss is the sum of per-symbol P&L.
	TotalProfitOrLoss float64 `yaml:"total_profit_or_loss"`
}

// EvaluationPhase tells whether a weight vector came from the initial design or the surrogate.
type EvaluationPhase string

const (
	EvaluationPhaseInit   EvaluationPhase = "init"
	EvaluationPhaseSearch EvaluationPhase = "search"
)

// Evaluation is one objective call of a weight search.
type Evaluation struct {
	Iteration int             `yaml:"iteration"`
	Phase     EvaluationPhase `yaml:"phase"`
	Weights   WeightVector    `yaml:"weights"`
	Score     float64         `yaml:"score"`
	// Failed is set when the objective could not produce a score and the worst score was used.
	Failed bool `yaml:"failed"`
	// BestScore is the best score seen up to and including this evaluation.
	BestScore float64 `yaml:"best_score"`
}

// WeightSearchResult is the outcome of one optimizer run.
type WeightSearchResult struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	// EngineVersion is the advisor version that scored the weights.
	EngineVersion string       `yaml:"engine_version,omitempty"`
	Timestamp     time.Time    `yaml:"timestamp"`
	BestWeights   WeightVector `yaml:"best_weights"`
	BestScore     float64      `yaml:"best_score"`
	History       []Evaluation `yaml:"history"`
}

func WriteBacktestResults(path string, results []BacktestResult) error {
	data, err := yaml.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest results to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest results to file: %w", err)
	}

	return nil
}

func WriteBatchSummary(path string, summary BatchSummary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal batch summary to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write batch summary to file: %w", err)
	}

	return nil
}

func WriteWeightSearchResult(path string, result WeightSearchResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal weight search result to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write weight search result to file: %w", err)
	}

	return nil
}

// ReadWeightVector reads a weight vector from a YAML file, either a bare mapping or the
// best_weights of a saved weight search result. A saved result tuned by an incompatible
// engine version is rejected.
func ReadWeightVector(path string) (WeightVector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read weights file: %w", err)
	}

	var saved WeightSearchResult
	if err := yaml.Unmarshal(data, &saved); err == nil && len(saved.BestWeights) > 0 {
		if saved.EngineVersion != "" {
			if err := version.CheckVersionCompatibility(version.GetVersion(), saved.EngineVersion); err != nil {
				return nil, fmt.Errorf("weights file %s is not compatible: %w", path, err)
			}
		}

		return saved.BestWeights, nil
	}

	var weights WeightVector
	if err := yaml.Unmarshal(data, &weights); err != nil {
		return nil, fmt.Errorf("failed to parse weights file: %w", err)
	}

	return weights, nil
}
