package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mkhv12/stk-advisor/internal/backtest/engine/engine_v1/datasource"
	"github.com/mkhv12/stk-advisor/mocks"
)

type BacktestCmdTestSuite struct {
	suite.Suite
	tempDir  string
	dataPath string
}

func TestBacktestCmdSuite(t *testing.T) {
	suite.Run(t, new(BacktestCmdTestSuite))
}

func (suite *BacktestCmdTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
	suite.dataPath = filepath.Join(suite.tempDir, "bars.parquet")

	bars := mocks.NewDataGenerator(11).GenerateMultiSymbol([]string{"AAPL", "SCHD"}, mocks.DefaultConfig())
	suite.Require().NoError(datasource.WriteParquet(suite.dataPath, bars))
}

func (suite *BacktestCmdTestSuite) run(args ...string) (string, error) {
	var out bytes.Buffer

	cmd := newCommand()
	cmd.Writer = &out

	err := cmd.Run(context.Background(), append([]string{"backtest", "--quiet"}, args...))

	return out.String(), err
}

func (suite *BacktestCmdTestSuite) TestPrintsResultsAndSummary() {
	out, err := suite.run("--data", suite.dataPath)
	suite.Require().NoError(err)

	suite.Contains(out, "AAPL")
	suite.Contains(out, "SCHD")
	suite.Contains(out, "Symbols:")
	suite.Contains(out, "Total wins:")
}

func (suite *BacktestCmdTestSuite) TestSymbolFilterAndTrades() {
	out, err := suite.run("--data", suite.dataPath, "--symbols", "schd", "--trades")
	suite.Require().NoError(err)

	suite.Contains(out, "Backtesting results for SCHD")
	suite.NotContains(out, "AAPL")
}

func (suite *BacktestCmdTestSuite) TestUnknownSymbolIsReportedAsNoData() {
	out, err := suite.run("--data", suite.dataPath, "--symbols", "MSFT")
	suite.Require().NoError(err)

	suite.Contains(out, "MSFT")
	suite.Contains(out, "no data")
}

func (suite *BacktestCmdTestSuite) TestWritesResultsFolder() {
	resultsDir := filepath.Join(suite.tempDir, "results")

	_, err := suite.run("--data", suite.dataPath, "--results", resultsDir)
	suite.Require().NoError(err)

	entries, err := os.ReadDir(resultsDir)
	suite.Require().NoError(err)
	suite.Len(entries, 1)
}

func (suite *BacktestCmdTestSuite) TestInvalidInterval() {
	_, err := suite.run("--data", suite.dataPath, "--interval", "7d")
	suite.Error(err)
}

func (suite *BacktestCmdTestSuite) TestUnknownProfile() {
	_, err := suite.run("--data", suite.dataPath, "--profile", "decade")
	suite.Error(err)
}
