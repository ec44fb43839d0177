package types

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"

	"github.com/mkhv12/stk-advisor/internal/version"
)

type StatisticsTestSuite struct {
	suite.Suite
	tempDir string
}

func TestStatisticsSuite(t *testing.T) {
	suite.Run(t, new(StatisticsTestSuite))
}

func (suite *StatisticsTestSuite) SetupTest() {
	tempDir, err := os.MkdirTemp("", "statistics_test")
	suite.NoError(err)
	suite.tempDir = tempDir
}

func (suite *StatisticsTestSuite) TearDownTest() {
	os.RemoveAll(suite.tempDir)
}

func (suite *StatisticsTestSuite) TestWriteBacktestResults() {
	results := []BacktestResult{
		{
			Symbol:          "SCHD",
			InitialCapital:  500,
			FinalValue:      540,
			ProfitOrLoss:    40,
			ReturnPct:       8,
			BuyCount:        4,
			SellCount:       3,
			WinCount:        3,
			WinRate:         75,
			HoldTimes:       []float64{10, 20, 30},
			AverageHoldTime: 20,
			CurrentPrice:    27.5,
			LastDecision:    Decision{Action: ActionHold, BuyScore: 1, SellScore: 1, HoldScore: 2},
		},
		{Symbol: "MISSING", NoData: true},
	}

	filePath := filepath.Join(suite.tempDir, "results.yaml")
	suite.Require().NoError(WriteBacktestResults(filePath, results))

	data, err := os.ReadFile(filePath)
	suite.Require().NoError(err)

	var readResults []BacktestResult
	suite.Require().NoError(yaml.Unmarshal(data, &readResults))

	suite.Len(readResults, 2)
	suite.Equal("SCHD", readResults[0].Symbol)
	suite.Equal(40.0, readResults[0].ProfitOrLoss)
	suite.Equal(3, readResults[0].WinCount)
	suite.Equal([]float64{10, 20, 30}, readResults[0].HoldTimes)
	suite.Equal(ActionHold, readResults[0].LastDecision.Action)
	suite.True(readResults[1].NoData)
}

func (suite *StatisticsTestSuite) TestWriteBacktestResultsInvalidPath() {
	err := WriteBacktestResults(filepath.Join(suite.tempDir, "missing", "results.yaml"), nil)
	suite.Error(err)
}

func (suite *StatisticsTestSuite) TestWeightSearchResultRoundTripThroughReadWeightVector() {
	result := WeightSearchResult{
		ID:        "run-1",
		Name:      "1d",
		Timestamp: time.Date(2024, 11, 18, 0, 0, 0, 0, time.UTC),
		BestWeights: WeightVector{
			IndicatorTypeRSI:  0.5,
			IndicatorTypeMACD: 1.25,
		},
		BestScore: 7,
		History: []Evaluation{
			{Iteration: 0, Phase: EvaluationPhaseInit, Score: 7, BestScore: 7},
		},
	}

	filePath := filepath.Join(suite.tempDir, "weights.yaml")
	suite.Require().NoError(WriteWeightSearchResult(filePath, result))

	weights, err := ReadWeightVector(filePath)
	suite.Require().NoError(err)
	suite.Equal(result.BestWeights, weights)
}

func (suite *StatisticsTestSuite) TestReadWeightVectorRejectsIncompatibleEngineVersion() {
	result := WeightSearchResult{
		ID:            "run-2",
		Name:          "1h",
		EngineVersion: "v99.0.0",
		BestWeights:   WeightVector{IndicatorTypeRSI: 1},
	}

	filePath := filepath.Join(suite.tempDir, "weights.yaml")
	suite.Require().NoError(WriteWeightSearchResult(filePath, result))

	_, err := ReadWeightVector(filePath)
	suite.Require().Error(err)
	suite.Contains(err.Error(), "major version mismatch")
}

func (suite *StatisticsTestSuite) TestReadWeightVectorAcceptsCurrentEngineVersion() {
	result := WeightSearchResult{
		ID:            "run-3",
		EngineVersion: version.GetVersion(),
		BestWeights:   WeightVector{IndicatorTypeADX: 0.3},
	}

	filePath := filepath.Join(suite.tempDir, "weights.yaml")
	suite.Require().NoError(WriteWeightSearchResult(filePath, result))

	weights, err := ReadWeightVector(filePath)
	suite.Require().NoError(err)
	suite.Equal(result.BestWeights, weights)
}

func (suite *StatisticsTestSuite) TestReadWeightVectorBareMapping() {
	filePath := filepath.Join(suite.tempDir, "weights.yaml")
	suite.Require().NoError(os.WriteFile(filePath, []byte("rsi: 0.5\nvwap: 0.75\n"), 0644))

	weights, err := ReadWeightVector(filePath)
	suite.Require().NoError(err)
	suite.Equal(WeightVector{IndicatorTypeRSI: 0.5, IndicatorTypeVWAP: 0.75}, weights)
}

func (suite *StatisticsTestSuite) TestReadWeightVectorMissingFile() {
	_, err := ReadWeightVector(filepath.Join(suite.tempDir, "nope.yaml"))
	suite.Error(err)
}
