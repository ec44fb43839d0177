package datasource

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

type MemoryDataSourceTestSuite struct {
	suite.Suite
	baseTime time.Time
	ds       *MemoryDataSource
}

func TestMemoryDataSourceSuite(t *testing.T) {
	suite.Run(t, new(MemoryDataSourceTestSuite))
}

func (suite *MemoryDataSourceTestSuite) SetupTest() {
	suite.baseTime = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	suite.ds = NewMemoryDataSource(createTestBars(suite.baseTime))
}

func (suite *MemoryDataSourceTestSuite) TestReadAllSorted() {
	bars, err := LoadBars(suite.ds, "AAPL", optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Require().Len(bars, 10)

	for i := 1; i < len(bars); i++ {
		suite.True(bars[i-1].Time.Before(bars[i].Time))
	}
}

func (suite *MemoryDataSourceTestSuite) TestRange() {
	count, err := suite.ds.Count("AAPL", optional.Some(suite.baseTime.AddDate(0, 0, 8)), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Equal(2, count)
}

func (suite *MemoryDataSourceTestSuite) TestSymbols() {
	symbols, err := suite.ds.GetAllSymbols()
	suite.Require().NoError(err)
	suite.Equal([]string{"AAPL", "MSFT"}, symbols)

	count, err := suite.ds.Count("NOPE", optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Zero(count)
}
