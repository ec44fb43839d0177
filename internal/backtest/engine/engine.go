package engine

import (
	"context"

	"github.com/mkhv12/stk-advisor/internal/backtest/engine/engine_v1/datasource"
	"github.com/mkhv12/stk-advisor/internal/indicator"
	"github.com/mkhv12/stk-advisor/internal/types"
)

// Lifecycle callback types for backtest phases
// All callbacks with error return can abort execution if they return an error

// OnRunStartCallback is called once the weights are validated and the symbols are known.
// runID is a unique identifier for this run, generated before processing starts.
type OnRunStartCallback func(runID string, totalSymbols int) error

// OnRunEndCallback is called when the run completes (always called via defer).
type OnRunEndCallback func(err error)

// OnSymbolEndCallback is called after each symbol finished, in completion order.
// Calls are serialized even when symbols run concurrently.
type OnSymbolEndCallback func(completed int, total int, result SymbolResult)

// LifecycleCallbacks holds all lifecycle callback functions for the backtest engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnRunStart  *OnRunStartCallback
	OnRunEnd    *OnRunEndCallback
	OnSymbolEnd *OnSymbolEndCallback
}

// SymbolResult is the outcome of simulating one symbol. Err is set when the symbol
// failed for a reason other than missing data; the rest of the batch is unaffected.
type SymbolResult struct {
	Symbol string
	Result types.BacktestResult
	Err    error
}

type Engine interface {
	// Initialize the engine with the given configuration content in YAML.
	Initialize(config string) error
	// SetDataSource sets the data source for the engine.
	SetDataSource(dataSource datasource.DataSource) error
	// SetProviderFactory replaces the default indicator set used for every symbol.
	SetProviderFactory(factory indicator.ProviderFactory) error
	// SetResultsFolder sets the output directory for saving backtest results.
	// Every run writes into <folder>/<run id>. Nothing is written when unset.
	SetResultsFolder(folder string) error
	// Run simulates every symbol with the given weights. Empty symbols means every symbol
	// of the data source, empty weights means the configured ones.
	// The context can be used to cancel the backtest operation.
	Run(ctx context.Context, symbols []string, weights types.WeightVector, callbacks LifecycleCallbacks) ([]SymbolResult, error)
	// Analyze returns the latest decision of every symbol without trading.
	// Symbols without data are skipped, a symbol that fails is returned with Err set
	// and the remaining symbols are still analyzed.
	Analyze(ctx context.Context, symbols []string, weights types.WeightVector) ([]types.Analysis, error)
	// IndicatorNames returns the indicators every symbol is evaluated with. Weights
	// and weight bounds must name exactly these.
	IndicatorNames() ([]types.IndicatorType, error)
	// GetConfigSchema returns the schema of the engine configuration
	GetConfigSchema() (string, error)
}
