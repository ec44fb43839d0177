package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mkhv12/stk-advisor/internal/backtest/engine"
	enginev1 "github.com/mkhv12/stk-advisor/internal/backtest/engine/engine_v1"
	"github.com/mkhv12/stk-advisor/internal/backtest/engine/engine_v1/datasource"
	"github.com/mkhv12/stk-advisor/internal/logger"
	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/mocks"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

type AppTestSuite struct {
	suite.Suite
	tempDir  string
	dataPath string
	log      *logger.Logger
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}

func (suite *AppTestSuite) SetupTest() {
	tempDir, err := os.MkdirTemp("", "app-test")
	suite.Require().NoError(err)
	suite.tempDir = tempDir
	suite.log = logger.NewNopLogger()

	generator := mocks.NewDataGenerator(7)
	bars := generator.GenerateMultiSymbol([]string{"AAPL", "SCHD"}, mocks.DefaultConfig())

	suite.dataPath = filepath.Join(tempDir, "bars.parquet")
	suite.Require().NoError(datasource.WriteParquet(suite.dataPath, bars))
}

func (suite *AppTestSuite) TearDownTest() {
	os.RemoveAll(suite.tempDir)
}

func (suite *AppTestSuite) TestNewSessionRunsBacktest() {
	configPath := filepath.Join(suite.tempDir, "engine.yaml")
	suite.Require().NoError(os.WriteFile(configPath, []byte("initial_capital: 1000\nparallelism: 2\n"), 0644))

	session, err := NewSession(EngineOptions{
		ConfigPath:    configPath,
		DataPath:      suite.dataPath,
		ResultsFolder: filepath.Join(suite.tempDir, "results"),
	}, suite.log)
	suite.Require().NoError(err)
	defer session.Close()

	results, err := session.Engine.Run(context.Background(), nil, nil, engine.LifecycleCallbacks{})
	suite.Require().NoError(err)
	suite.Len(results, 2)

	for _, r := range results {
		suite.NoError(r.Err)
		suite.Equal(1000.0, r.Result.InitialCapital)
	}
}

func (suite *AppTestSuite) TestNewSessionMissingConfig() {
	_, err := NewSession(EngineOptions{
		ConfigPath: filepath.Join(suite.tempDir, "missing.yaml"),
		DataPath:   suite.dataPath,
	}, suite.log)
	suite.Error(err)
	suite.Equal(errors.ErrCodeBacktestConfigError, errors.GetCode(err))
}

func (suite *AppTestSuite) TestNewSessionMissingData() {
	_, err := NewSession(EngineOptions{
		DataPath: filepath.Join(suite.tempDir, "missing.parquet"),
	}, suite.log)
	suite.Error(err)
	suite.Equal(errors.ErrCodeDataSourceUnavailable, errors.GetCode(err))
}

func (suite *AppTestSuite) TestResolveWeights() {
	weights, err := ResolveWeights("", "")
	suite.NoError(err)
	suite.Nil(weights)

	weights, err = ResolveWeights("", enginev1.ProfileHour)
	suite.NoError(err)
	suite.Equal(enginev1.DefaultProfiles()[enginev1.ProfileHour], weights)

	_, err = ResolveWeights("", "weekly")
	suite.Error(err)
	suite.Equal(errors.ErrCodeInvalidParameter, errors.GetCode(err))

	weightsPath := filepath.Join(suite.tempDir, "weights.yaml")
	suite.Require().NoError(os.WriteFile(weightsPath, []byte("rsi: 1.5\nmacd: 0.5\n"), 0644))

	weights, err = ResolveWeights(weightsPath, enginev1.ProfileHour)
	suite.NoError(err)
	suite.Equal(types.WeightVector{types.IndicatorTypeRSI: 1.5, types.IndicatorTypeMACD: 0.5}, weights)

	_, err = ResolveWeights(filepath.Join(suite.tempDir, "nope.yaml"), "")
	suite.Error(err)
	suite.Equal(errors.ErrCodeInvalidWeight, errors.GetCode(err))
}

func (suite *AppTestSuite) TestProfileNames() {
	suite.Equal([]string{enginev1.ProfileDay, enginev1.ProfileHour, enginev1.ProfileMinute}, ProfileNames())
}

func (suite *AppTestSuite) TestNormalizeSymbols() {
	suite.Equal([]string{"AAPL", "SCHD", "MSFT"}, NormalizeSymbols([]string{" aapl,schd ", "", "AAPL", "msft"}))
	suite.Empty(NormalizeSymbols(nil))
}
