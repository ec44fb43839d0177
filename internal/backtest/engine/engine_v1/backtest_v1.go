package engine

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"

	"github.com/mkhv12/stk-advisor/internal/backtest/engine"
	"github.com/mkhv12/stk-advisor/internal/backtest/engine/engine_v1/datasource"
	"github.com/mkhv12/stk-advisor/internal/backtest/stats"
	"github.com/mkhv12/stk-advisor/internal/decision"
	"github.com/mkhv12/stk-advisor/internal/indicator"
	"github.com/mkhv12/stk-advisor/internal/logger"
	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

type BacktestEngineV1 struct {
	config        BacktestEngineV1Config
	resultsFolder string
	log           *logger.Logger
	datasource    datasource.DataSource
	providers     indicator.ProviderFactory
}

func NewBacktestEngineV1() engine.Engine {
	return &BacktestEngineV1{
		config:        EmptyConfig(),
		resultsFolder: "",
		log:           nil,
		datasource:    nil,
		providers:     indicator.DefaultProviderFactory(),
	}
}

// NewBacktestEngineV1WithLogger creates an engine that logs to the given logger
// instead of creating its own in Initialize.
func NewBacktestEngineV1WithLogger(log *logger.Logger) engine.Engine {
	return &BacktestEngineV1{
		config:        EmptyConfig(),
		resultsFolder: "",
		log:           log,
		datasource:    nil,
		providers:     indicator.DefaultProviderFactory(),
	}
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	b.config = DefaultConfig()

	// parse the config
	if err := yaml.Unmarshal([]byte(config), &b.config); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse backtest config", err)
	}

	if err := b.config.Validate(); err != nil {
		return err
	}

	// build one set up front so bad indicator parameters fail here, not per symbol
	providers := indicator.NewProviderFactory(b.config.Indicators)
	if _, err := providers(); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid indicator parameters", err)
	}

	b.providers = providers

	// initialize the logger
	if b.log == nil {
		var loggerError error

		b.log, loggerError = logger.NewLogger()
		if loggerError != nil {
			return loggerError
		}
	}

	b.log.Debug("Backtest engine initialized",
		zap.Float64("initial_capital", b.config.InitialCapital),
		zap.Float64("profit_threshold", b.config.ProfitThreshold),
		zap.Float64("stop_loss_threshold", b.config.StopLossThreshold),
		zap.Int("parallelism", b.config.Parallelism),
		zap.Int("configured_indicators", len(b.config.Indicators)),
	)

	return nil
}

// SetResultsFolder implements engine.Engine.
func (b *BacktestEngineV1) SetResultsFolder(folder string) error {
	b.resultsFolder = folder

	if b.log != nil {
		b.log.Debug("Results folder set", zap.String("folder", folder))
	}

	return nil
}

// SetDataSource implements engine.Engine.
func (b *BacktestEngineV1) SetDataSource(datasource datasource.DataSource) error {
	b.datasource = datasource

	return nil
}

// SetProviderFactory implements engine.Engine.
func (b *BacktestEngineV1) SetProviderFactory(factory indicator.ProviderFactory) error {
	if factory == nil {
		return errors.New(errors.ErrCodeMissingParameter, "provider factory must not be nil")
	}

	b.providers = factory

	return nil
}

// IndicatorNames implements engine.Engine.
func (b *BacktestEngineV1) IndicatorNames() ([]types.IndicatorType, error) {
	provider, err := b.providers()
	if err != nil {
		return nil, err
	}

	return provider.Names(), nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := b.config

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to generate schema", err)
	}

	return schema, nil
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(ctx context.Context, symbols []string, weights types.WeightVector, callbacks engine.LifecycleCallbacks) (results []engine.SymbolResult, err error) {
	if callbacks.OnRunEnd != nil {
		defer func() { (*callbacks.OnRunEnd)(err) }()
	}

	weights, symbols, err = b.prepareRun(symbols, weights)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()

	if callbacks.OnRunStart != nil {
		if err := (*callbacks.OnRunStart)(runID, len(symbols)); err != nil {
			return nil, err
		}
	}

	b.log.Info("Starting backtest",
		zap.String("run_id", runID),
		zap.Int("symbols", len(symbols)),
		zap.Int("parallelism", b.config.Parallelism),
		zap.Int("configured_indicators", len(b.config.Indicators)),
	)

	tradeLog, err := NewTradeLogStore(b.log)
	if err != nil {
		return nil, err
	}
	defer tradeLog.Close()

	if err := tradeLog.Initialize(); err != nil {
		return nil, err
	}

	simulator := NewSimulator(b.config, b.providers, b.log)
	results = make([]engine.SymbolResult, len(symbols))

	var (
		mu        sync.Mutex
		completed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.config.Parallelism)

	for i, symbol := range symbols {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			result := b.runSymbol(simulator, symbol, weights)
			if result.Err == nil && !result.Result.NoData {
				if err := tradeLog.Append(runID, symbol, result.Result.Trades); err != nil {
					result.Err = err
				}
			}

			mu.Lock()
			defer mu.Unlock()

			results[i] = result
			completed++

			if callbacks.OnSymbolEnd != nil {
				(*callbacks.OnSymbolEnd)(completed, len(symbols), result)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	if b.resultsFolder != "" {
		if err := b.writeResults(getResultFolder(b, runID), results, tradeLog); err != nil {
			return results, err
		}
	}

	return results, nil
}

func (b *BacktestEngineV1) runSymbol(simulator *Simulator, symbol string, weights types.WeightVector) engine.SymbolResult {
	bars, err := datasource.LoadBars(b.datasource, symbol, b.config.StartTime, b.config.EndTime)
	if err != nil && !errors.IsDataUnavailable(err) {
		b.log.Warn("Failed to load bars", zap.String("symbol", symbol), zap.Error(err))

		return engine.SymbolResult{Symbol: symbol, Err: err}
	}

	// missing data yields an empty series, which the simulator reports as NoData
	result, err := simulator.Run(symbol, bars, weights)
	if err != nil {
		b.log.Warn("Symbol simulation failed", zap.String("symbol", symbol), zap.Error(err))

		return engine.SymbolResult{Symbol: symbol, Err: err}
	}

	return engine.SymbolResult{Symbol: symbol, Result: result}
}

// Analyze implements engine.Engine.
func (b *BacktestEngineV1) Analyze(ctx context.Context, symbols []string, weights types.WeightVector) ([]types.Analysis, error) {
	weights, symbols, err := b.prepareRun(symbols, weights)
	if err != nil {
		return nil, err
	}

	simulator := NewSimulator(b.config, b.providers, b.log)
	analyses := make([]types.Analysis, 0, len(symbols))

	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return analyses, err
		}

		bars, err := datasource.LoadBars(b.datasource, symbol, b.config.StartTime, b.config.EndTime)
		if err != nil && !errors.IsDataUnavailable(err) {
			b.log.Warn("Failed to load bars", zap.String("symbol", symbol), zap.Error(err))
			analyses = append(analyses, types.Analysis{Symbol: symbol, Err: err})

			continue
		}

		analysis, err := simulator.Analyze(symbol, bars, weights)
		if errors.IsDataUnavailable(err) {
			b.log.Warn("No data found for symbol", zap.String("symbol", symbol))

			continue
		}

		if err != nil {
			b.log.Warn("Symbol analysis failed", zap.String("symbol", symbol), zap.Error(err))
			analyses = append(analyses, types.Analysis{Symbol: symbol, Err: err})

			continue
		}

		analyses = append(analyses, analysis)
	}

	return analyses, nil
}

// prepareRun resolves the weights and symbols of a run and validates the weights once
// against the indicator set so a mismatch fails before any symbol is simulated.
func (b *BacktestEngineV1) prepareRun(symbols []string, weights types.WeightVector) (types.WeightVector, []string, error) {
	if err := b.preRunCheck(); err != nil {
		return nil, nil, err
	}

	if len(weights) == 0 {
		weights = b.config.EffectiveWeights()
	}

	provider, err := b.providers()
	if err != nil {
		return nil, nil, err
	}

	if err := decision.ValidateWeights(provider.Names(), weights); err != nil {
		return nil, nil, err
	}

	if len(symbols) == 0 {
		symbols, err = b.datasource.GetAllSymbols()
		if err != nil {
			return nil, nil, err
		}
	}

	if len(symbols) == 0 {
		return nil, nil, errors.New(errors.ErrCodeBacktestNoSymbols, "no symbols to backtest")
	}

	return weights, symbols, nil
}

func (b *BacktestEngineV1) writeResults(folder string, results []engine.SymbolResult, tradeLog *TradeLogStore) error {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to create results folder", err)
	}

	backtestResults := CompletedResults(results)

	if err := types.WriteBacktestResults(filepath.Join(folder, "results.yaml"), backtestResults); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to write results", err)
	}

	summary := SummarizeRun(results)

	if err := types.WriteBatchSummary(filepath.Join(folder, "summary.yaml"), summary); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to write summary", err)
	}

	if err := tradeLog.Write(folder); err != nil {
		return err
	}

	b.log.Info("Backtest results written", zap.String("folder", folder))

	return nil
}

func (b *BacktestEngineV1) preRunCheck() error {
	if b.log == nil {
		return errors.New(errors.ErrCodeBacktestStateNil, "engine is not initialized")
	}

	if b.datasource == nil {
		b.log.Error("No datasource set")

		return errors.New(errors.ErrCodeBacktestNoDatasource, "no datasource set")
	}

	return nil
}

// CompletedResults returns the results of symbols that did not fail, NoData ones included.
func CompletedResults(results []engine.SymbolResult) []types.BacktestResult {
	completed := make([]types.BacktestResult, 0, len(results))

	for _, r := range results {
		if r.Err != nil {
			continue
		}

		completed = append(completed, r.Result)
	}

	return completed
}

// SummarizeRun averages a batch run. Symbols that failed count as failed next to those without data.
func SummarizeRun(results []engine.SymbolResult) types.BatchSummary {
	completed := CompletedResults(results)

	summary := stats.SummarizeBatch(completed)
	summary.Failed += len(results) - len(completed)
	summary.Symbols = len(results)

	return summary
}
