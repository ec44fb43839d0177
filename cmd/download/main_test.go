package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DownloadCmdTestSuite struct {
	suite.Suite
}

func TestDownloadCmdSuite(t *testing.T) {
	suite.Run(t, new(DownloadCmdTestSuite))
}

func (suite *DownloadCmdTestSuite) run(args ...string) error {
	return newCommand().Run(context.Background(), append([]string{"download"}, args...))
}

func (suite *DownloadCmdTestSuite) TestInvalidInterval() {
	err := suite.run("--ticker", "AAPL", "--start", "2024-01-01", "--interval", "2d")
	suite.Require().Error(err)
	suite.Contains(err.Error(), "unsupported interval")
}

func (suite *DownloadCmdTestSuite) TestMissingAPIKey() {
	suite.T().Setenv("POLYGON_API_KEY", "")

	err := suite.run("--ticker", "AAPL", "--start", "2024-01-01", "--data", suite.T().TempDir())
	suite.Require().Error(err)
	suite.Contains(err.Error(), "failed to create market data client")
}

func (suite *DownloadCmdTestSuite) TestUnsupportedProvider() {
	err := suite.run("--ticker", "AAPL", "--start", "2024-01-01", "--provider", "binance", "--api-key", "key")
	suite.Require().Error(err)
	suite.Contains(err.Error(), "failed to create market data client")
}
