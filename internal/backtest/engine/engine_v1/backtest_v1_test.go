package engine

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/mkhv12/stk-advisor/internal/backtest/engine"
	"github.com/mkhv12/stk-advisor/internal/backtest/engine/engine_v1/datasource"
	"github.com/mkhv12/stk-advisor/internal/indicator"
	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/mocks"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

type BacktestEngineV1TestSuite struct {
	suite.Suite
	engine engine.Engine
	bars   []types.Bar
}

func TestBacktestEngineV1Suite(t *testing.T) {
	suite.Run(t, new(BacktestEngineV1TestSuite))
}

func (suite *BacktestEngineV1TestSuite) SetupTest() {
	gen := mocks.NewDataGenerator(11)
	config := mocks.DefaultConfig()
	config.Count = 250
	suite.bars = gen.GenerateMultiSymbol([]string{"AAPL", "MSFT", "TSLA"}, config)

	suite.engine = NewBacktestEngineV1WithLogger(newTestLogger())
	suite.Require().NoError(suite.engine.Initialize("parallelism: 2\n"))
	suite.Require().NoError(suite.engine.SetDataSource(datasource.NewMemoryDataSource(suite.bars)))
}

func (suite *BacktestEngineV1TestSuite) TestRunAllSymbols() {
	var (
		mu        sync.Mutex
		started   string
		total     int
		completed []string
		endErr    error
		ended     bool
	)

	onStart := engine.OnRunStartCallback(func(runID string, totalSymbols int) error {
		started = runID
		total = totalSymbols

		return nil
	})
	onSymbolEnd := engine.OnSymbolEndCallback(func(done int, all int, result engine.SymbolResult) {
		mu.Lock()
		defer mu.Unlock()

		completed = append(completed, result.Symbol)
		suite.Equal(len(completed), done)
		suite.Equal(3, all)
	})
	onEnd := engine.OnRunEndCallback(func(err error) {
		ended = true
		endErr = err
	})

	results, err := suite.engine.Run(context.Background(), nil, nil, engine.LifecycleCallbacks{
		OnRunStart:  &onStart,
		OnSymbolEnd: &onSymbolEnd,
		OnRunEnd:    &onEnd,
	})
	suite.Require().NoError(err)

	suite.NotEmpty(started)
	suite.Equal(3, total)
	suite.ElementsMatch([]string{"AAPL", "MSFT", "TSLA"}, completed)
	suite.True(ended)
	suite.NoError(endErr)

	suite.Require().Len(results, 3)

	for i, symbol := range []string{"AAPL", "MSFT", "TSLA"} {
		suite.Equal(symbol, results[i].Symbol)
		suite.NoError(results[i].Err)
		suite.False(results[i].Result.NoData)
		suite.Equal(500.0, results[i].Result.InitialCapital)
	}
}

func (suite *BacktestEngineV1TestSuite) TestRunMatchesSingleSimulation() {
	results, err := suite.engine.Run(context.Background(), []string{"MSFT"}, nil, engine.LifecycleCallbacks{})
	suite.Require().NoError(err)
	suite.Require().Len(results, 1)

	bars, err := datasource.LoadBars(datasource.NewMemoryDataSource(suite.bars), "MSFT", EmptyConfig().StartTime, EmptyConfig().EndTime)
	suite.Require().NoError(err)

	config := DefaultConfig()
	expected, err := NewSimulator(config, indicator.DefaultProviderFactory(), newTestLogger()).Run("MSFT", bars, config.Weights)
	suite.Require().NoError(err)

	actual := results[0].Result
	actual.ID = expected.ID
	suite.Equal(expected, actual)
}

func (suite *BacktestEngineV1TestSuite) TestUnknownSymbolIsNoData() {
	results, err := suite.engine.Run(context.Background(), []string{"AAPL", "NOPE"}, nil, engine.LifecycleCallbacks{})
	suite.Require().NoError(err)
	suite.Require().Len(results, 2)

	suite.False(results[0].Result.NoData)
	suite.NoError(results[1].Err)
	suite.True(results[1].Result.NoData)

	summary := SummarizeRun(results)
	suite.Equal(2, summary.Symbols)
	suite.Equal(1, summary.Failed)
}

func (suite *BacktestEngineV1TestSuite) TestWeightMismatchFailsFast() {
	called := false
	onSymbolEnd := engine.OnSymbolEndCallback(func(int, int, engine.SymbolResult) { called = true })

	_, err := suite.engine.Run(context.Background(), nil, types.WeightVector{types.IndicatorTypeRSI: 1}, engine.LifecycleCallbacks{
		OnSymbolEnd: &onSymbolEnd,
	})
	suite.Require().Error(err)
	suite.True(errors.IsConfigurationMismatch(err))
	suite.False(called)
}

func (suite *BacktestEngineV1TestSuite) TestInvalidBarsFailOnlyThatSymbol() {
	bars := append([]types.Bar{}, suite.bars...)
	bars = append(bars, dailyBars("BAD", 10, 0, 12)...)
	suite.Require().NoError(suite.engine.SetDataSource(datasource.NewMemoryDataSource(bars)))

	results, err := suite.engine.Run(context.Background(), []string{"AAPL", "BAD"}, nil, engine.LifecycleCallbacks{})
	suite.Require().NoError(err)

	suite.NoError(results[0].Err)
	suite.Require().Error(results[1].Err)
	suite.Equal(errors.ErrCodeInvalidBar, errors.GetCode(results[1].Err))
	suite.Len(CompletedResults(results), 1)
}

func (suite *BacktestEngineV1TestSuite) TestRunCancelled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := suite.engine.Run(ctx, nil, nil, engine.LifecycleCallbacks{})
	suite.ErrorIs(err, context.Canceled)
}

func (suite *BacktestEngineV1TestSuite) TestOnRunStartAborts() {
	onStart := engine.OnRunStartCallback(func(string, int) error {
		return errors.New(errors.ErrCodeUnknown, "stop")
	})

	_, err := suite.engine.Run(context.Background(), nil, nil, engine.LifecycleCallbacks{OnRunStart: &onStart})
	suite.Require().Error(err)
}

func (suite *BacktestEngineV1TestSuite) TestWritesResults() {
	folder := suite.T().TempDir()
	suite.Require().NoError(suite.engine.SetResultsFolder(folder))

	var runID string
	onStart := engine.OnRunStartCallback(func(id string, _ int) error {
		runID = id

		return nil
	})

	_, err := suite.engine.Run(context.Background(), nil, nil, engine.LifecycleCallbacks{OnRunStart: &onStart})
	suite.Require().NoError(err)

	for _, name := range []string{"results.yaml", "summary.yaml", "trades.parquet"} {
		_, err := os.Stat(filepath.Join(folder, runID, name))
		suite.NoError(err, name)
	}
}

func (suite *BacktestEngineV1TestSuite) TestNoDataSource() {
	e := NewBacktestEngineV1WithLogger(newTestLogger())
	suite.Require().NoError(e.Initialize(""))

	_, err := e.Run(context.Background(), nil, nil, engine.LifecycleCallbacks{})
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeBacktestNoDatasource, errors.GetCode(err))
}

func (suite *BacktestEngineV1TestSuite) TestNotInitialized() {
	e := NewBacktestEngineV1()
	suite.Require().NoError(e.SetDataSource(datasource.NewMemoryDataSource(suite.bars)))

	_, err := e.Run(context.Background(), nil, nil, engine.LifecycleCallbacks{})
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeBacktestStateNil, errors.GetCode(err))
}

func (suite *BacktestEngineV1TestSuite) TestInvalidConfig() {
	e := NewBacktestEngineV1WithLogger(newTestLogger())

	err := e.Initialize("initial_capital: -5\n")
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeInvalidConfiguration, errors.GetCode(err))

	err = e.Initialize("initial_capital: [1, 2]\n")
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeBacktestConfigError, errors.GetCode(err))
}

func (suite *BacktestEngineV1TestSuite) TestEmptyDataSource() {
	suite.Require().NoError(suite.engine.SetDataSource(datasource.NewMemoryDataSource(nil)))

	_, err := suite.engine.Run(context.Background(), nil, nil, engine.LifecycleCallbacks{})
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeBacktestNoSymbols, errors.GetCode(err))
}

func (suite *BacktestEngineV1TestSuite) TestScriptedProvider() {
	ctrl := gomock.NewController(suite.T())
	suite.Require().NoError(suite.engine.SetDataSource(datasource.NewMemoryDataSource(dailyBars("ONE", 100, 102, 96))))
	suite.Require().NoError(suite.engine.SetProviderFactory(factoryOf(scriptedProvider(ctrl,
		types.DirectionBuy, types.DirectionSell, types.DirectionSell))))
	suite.Require().Error(suite.engine.SetProviderFactory(nil))

	results, err := suite.engine.Run(context.Background(), nil, rsiOnly(), engine.LifecycleCallbacks{})
	suite.Require().NoError(err)
	suite.Require().Len(results, 1)

	// 500 buys 5 shares at 100; 96 is a 4% loss, past the 2% stop loss
	suite.InDelta(480.0, results[0].Result.FinalValue, 1e-9)
	suite.Equal(1, results[0].Result.SellCount)
}

func (suite *BacktestEngineV1TestSuite) TestAnalyze() {
	analyses, err := suite.engine.Analyze(context.Background(), []string{"TSLA", "NOPE", "AAPL"}, nil)
	suite.Require().NoError(err)
	suite.Require().Len(analyses, 2)
	suite.Equal("TSLA", analyses[0].Symbol)
	suite.Equal("AAPL", analyses[1].Symbol)
	suite.Len(analyses[0].Statuses, len(types.AllIndicatorTypes))
}

func (suite *BacktestEngineV1TestSuite) TestAnalyzeReportsFailedSymbolInline() {
	broken := dailyBars("DUP", 10, 11, 12)
	broken[2].Time = broken[1].Time

	bars := append([]types.Bar{}, suite.bars...)
	bars = append(bars, broken...)
	suite.Require().NoError(suite.engine.SetDataSource(datasource.NewMemoryDataSource(bars)))

	analyses, err := suite.engine.Analyze(context.Background(), []string{"DUP", "AAPL", "MSFT"}, nil)
	suite.Require().NoError(err)
	suite.Require().Len(analyses, 3)

	suite.Equal("DUP", analyses[0].Symbol)
	suite.Require().Error(analyses[0].Err)
	suite.Equal(errors.ErrCodeInvalidBar, errors.GetCode(analyses[0].Err))
	suite.Empty(analyses[0].Statuses)

	for _, analysis := range analyses[1:] {
		suite.NoError(analysis.Err)
		suite.Len(analysis.Statuses, len(types.AllIndicatorTypes))
	}
}

func (suite *BacktestEngineV1TestSuite) TestAnalyzeLoadFailureDoesNotStopBatch() {
	ctrl := gomock.NewController(suite.T())
	memory := datasource.NewMemoryDataSource(suite.bars)

	ds := mocks.NewMockDataSource(ctrl)
	ds.EXPECT().Count("AAPL", gomock.Any(), gomock.Any()).DoAndReturn(memory.Count)
	ds.EXPECT().ReadAll("AAPL", gomock.Any(), gomock.Any()).DoAndReturn(memory.ReadAll)
	ds.EXPECT().Count("LOST", gomock.Any(), gomock.Any()).Return(0, errors.New(errors.ErrCodeQueryFailed, "connection lost"))
	ds.EXPECT().Count("TSLA", gomock.Any(), gomock.Any()).DoAndReturn(memory.Count)
	ds.EXPECT().ReadAll("TSLA", gomock.Any(), gomock.Any()).DoAndReturn(memory.ReadAll)
	suite.Require().NoError(suite.engine.SetDataSource(ds))

	analyses, err := suite.engine.Analyze(context.Background(), []string{"AAPL", "LOST", "TSLA"}, nil)
	suite.Require().NoError(err)
	suite.Require().Len(analyses, 3)

	suite.NoError(analyses[0].Err)
	suite.Equal(errors.ErrCodeQueryFailed, errors.GetCode(analyses[1].Err))
	suite.Equal("LOST", analyses[1].Symbol)
	suite.NoError(analyses[2].Err)
	suite.Equal("TSLA", analyses[2].Symbol)
}

func (suite *BacktestEngineV1TestSuite) TestIndicatorParamsFromConfig() {
	e := NewBacktestEngineV1WithLogger(newTestLogger())
	suite.Require().NoError(e.Initialize("indicators:\n  rsi: [14, 10, 100]\n  volume_trend: [2]\n"))
	suite.Require().NoError(e.SetDataSource(datasource.NewMemoryDataSource(dailyBars("UP", 10, 11, 12, 13, 14))))

	names, err := e.IndicatorNames()
	suite.Require().NoError(err)
	suite.ElementsMatch(types.AllIndicatorTypes, names)

	analyses, err := e.Analyze(context.Background(), nil, nil)
	suite.Require().NoError(err)
	suite.Require().Len(analyses, 1)

	// RSI of rising closes is 100, which the configured upper threshold does not exceed
	suite.Equal(types.DirectionNeutral, analyses[0].Statuses[types.IndicatorTypeRSI].Direction)
	suite.NotEqual(indicator.LabelInsufficientData, analyses[0].Statuses[types.IndicatorTypeVolumeTrend].Label)

	err = e.Initialize("indicators:\n  rsi: [fast]\n")
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeBacktestConfigError, errors.GetCode(err))

	err = e.Initialize("indicators:\n  ichimoku: [9, 26]\n")
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeBacktestConfigError, errors.GetCode(err))
}

func (suite *BacktestEngineV1TestSuite) TestGetConfigSchema() {
	schema, err := suite.engine.GetConfigSchema()
	suite.Require().NoError(err)
	suite.Contains(schema, "backtest-engine-v1-config")
}
