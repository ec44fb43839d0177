package indicator

import (
	"testing"

	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type MACDTestSuite struct {
	suite.Suite
}

func TestMACDSuite(t *testing.T) {
	suite.Run(t, new(MACDTestSuite))
}

func (suite *MACDTestSuite) TestWarmUp() {
	statuses := feed(NewMACD(), barsFromCloses(linearCloses(10, 1, 26)...))

	for _, st := range statuses[:25] {
		suite.Equal(LabelInsufficientData, st.Label)
	}

	suite.NotEqual(LabelInsufficientData, statuses[25].Label)
}

func (suite *MACDTestSuite) TestRisingIsBullish() {
	statuses := feed(NewMACD(), barsFromCloses(linearCloses(10, 1, 40)...))

	for _, st := range statuses[25:] {
		suite.Equal(types.DirectionBuy, st.Direction)
		suite.Equal("Bullish", st.Label)
	}
}

func (suite *MACDTestSuite) TestFallingIsBearish() {
	macd := NewMACD()
	statuses := feed(macd, barsFromCloses(linearCloses(100, -1, 40)...))

	for _, st := range statuses[25:] {
		suite.Equal(types.DirectionSell, st.Direction)
	}

	suite.Less(statuses[len(statuses)-1].RawValue.Unwrap(), 0.0)
}

func (suite *MACDTestSuite) TestHistogramReversal() {
	closes := append(linearCloses(100, -1, 40), linearCloses(62, 2, 40)...)
	statuses := feed(NewMACDHistogram(), barsFromCloses(closes...))

	var directional []types.IndicatorStatus

	for _, st := range statuses {
		if st.Direction != types.DirectionNeutral {
			directional = append(directional, st)
		}
	}

	suite.NotEmpty(directional)
	suite.Equal(types.DirectionBuy, directional[0].Direction)
	suite.Contains(directional[0].Label, "Reversal to bullish")
}

func (suite *MACDTestSuite) TestHistogramNoReversalInSteadyTrend() {
	statuses := feed(NewMACDHistogram(), barsFromCloses(linearCloses(100, -1, 60)...))

	for _, st := range statuses {
		suite.Equal(types.DirectionNeutral, st.Direction)
	}
}

func (suite *MACDTestSuite) TestConfig() {
	macd := NewMACD()

	suite.NoError(macd.Config(3, 6, 2))
	statuses := feed(macd, barsFromCloses(linearCloses(10, 1, 6)...))
	suite.Equal(LabelInsufficientData, statuses[4].Label)
	suite.Equal(types.DirectionBuy, statuses[5].Direction)

	suite.True(errors.HasCode(macd.Config(12, 26), errors.ErrCodeMissingParameter))
	suite.True(errors.HasCode(macd.Config(12, "26", 9), errors.ErrCodeInvalidType))
	suite.True(errors.HasCode(macd.Config(12, 0, 9), errors.ErrCodeInvalidPeriod))
	suite.True(errors.HasCode(macd.Config(26, 12, 9), errors.ErrCodeInvalidParameter))
	suite.NoError(NewMACDHistogram().Config(5, 10, 3))
}
