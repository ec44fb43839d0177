package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mkhv12/stk-advisor/internal/backtest/engine/engine_v1/datasource"
	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/mocks"
)

type AnalyzeCmdTestSuite struct {
	suite.Suite
	dataPath string
}

func TestAnalyzeCmdSuite(t *testing.T) {
	suite.Run(t, new(AnalyzeCmdTestSuite))
}

func (suite *AnalyzeCmdTestSuite) SetupTest() {
	suite.dataPath = filepath.Join(suite.T().TempDir(), "bars.parquet")

	bars := mocks.NewDataGenerator(3).GenerateMultiSymbol([]string{"AAPL", "SCHD"}, mocks.DefaultConfig())
	suite.Require().NoError(datasource.WriteParquet(suite.dataPath, bars))
}

func (suite *AnalyzeCmdTestSuite) run(args ...string) (string, error) {
	var out bytes.Buffer

	cmd := newCommand()
	cmd.Writer = &out

	err := cmd.Run(context.Background(), append([]string{"analyze"}, args...))

	return out.String(), err
}

func (suite *AnalyzeCmdTestSuite) TestPrintsEverySymbol() {
	out, err := suite.run("--data", suite.dataPath)
	suite.Require().NoError(err)

	suite.Contains(out, "AAPL")
	suite.Contains(out, "SCHD")
	suite.Contains(out, "Decision:")
}

func (suite *AnalyzeCmdTestSuite) TestIntervalSelectsProfile() {
	out, err := suite.run("--data", suite.dataPath, "--symbols", "AAPL", "--interval", "1h")
	suite.Require().NoError(err)

	suite.Contains(out, "AAPL")
	suite.NotContains(out, "SCHD")
}

func (suite *AnalyzeCmdTestSuite) TestOnlyRejectsUnknownAction() {
	_, err := suite.run("--data", suite.dataPath, "--only", "short")
	suite.Require().Error(err)
	suite.Contains(err.Error(), "unknown action")
}

func (suite *AnalyzeCmdTestSuite) TestFailedSymbolShownInline() {
	path := filepath.Join(suite.T().TempDir(), "mixed.parquet")

	bars := mocks.NewDataGenerator(3).GenerateMultiSymbol([]string{"AAPL"}, mocks.DefaultConfig())
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range []float64{10, 11, 12} {
		// the last two bars share a timestamp
		at := day.AddDate(0, 0, min(i, 1))
		bars = append(bars, types.Bar{Symbol: "DUP", Time: at, Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 100})
	}

	suite.Require().NoError(datasource.WriteParquet(path, bars))

	out, err := suite.run("--data", path, "--only", "sell")
	suite.Require().NoError(err)

	suite.Contains(out, "DUP")
	suite.Contains(out, "error: ")
	suite.Contains(out, "is not after")
}

func (suite *AnalyzeCmdTestSuite) TestMissingData() {
	_, err := suite.run("--data", filepath.Join(suite.T().TempDir(), "none.parquet"))
	suite.Error(err)
}
