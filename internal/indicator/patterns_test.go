package indicator

import (
	"testing"

	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
	"github.com/stretchr/testify/suite"
)

// shoulders at 14 and 14.25 around a head at 16, troughs at 11 and 11.5, then a breakdown
var headAndShouldersCloses = []float64{10, 12, 14, 12, 11, 13, 16, 13, 11.5, 12.5, 14.25, 12.5, 11, 9.5}

// peaks at 15 and 15.25 with a trough at 12 between them, then a breakdown
var doubleTopCloses = []float64{10, 12, 15, 13, 12, 13, 15.25, 13, 11.5, 10}

func mirror(closes []float64) []float64 {
	out := make([]float64, len(closes))
	for i, c := range closes {
		out[i] = 30 - c
	}

	return out
}

type PatternsTestSuite struct {
	suite.Suite
}

func TestPatternsSuite(t *testing.T) {
	suite.Run(t, new(PatternsTestSuite))
}

func (suite *PatternsTestSuite) newHeadAndShoulders() Indicator {
	h := NewHeadAndShoulders()
	suite.Require().NoError(h.Config(1, 30))

	return h
}

func (suite *PatternsTestSuite) newDoubleTopBottom(params ...any) Indicator {
	d := NewDoubleTopBottom()
	suite.Require().NoError(d.Config(append([]any{1, 30}, params...)...))

	return d
}

func (suite *PatternsTestSuite) TestSwingTracker() {
	tracker := newSwingTracker(1, 30)
	for _, bar := range barsFromCloses(headAndShouldersCloses...) {
		tracker.add(bar)
	}

	suite.Equal([]swing{
		{kind: swingHigh, index: 2, price: 15},
		{kind: swingHigh, index: 6, price: 17},
		{kind: swingHigh, index: 10, price: 15.25},
	}, tracker.latest(swingHigh, 3))
	suite.Nil(tracker.latest(swingLow, 3))

	low, ok := tracker.extremeBetween(swingLow, 2, 10)
	suite.True(ok)
	suite.Equal(10.0, low)

	_, ok = tracker.extremeBetween(swingLow, 8, 10)
	suite.False(ok)
}

func (suite *PatternsTestSuite) TestSwingsExpire() {
	tracker := newSwingTracker(1, 5)
	for _, bar := range barsFromCloses(doubleTopCloses...) {
		tracker.add(bar)
	}

	suite.Nil(tracker.latest(swingHigh, 2))
	suite.Len(tracker.latest(swingHigh, 1), 1)
}

func (suite *PatternsTestSuite) TestHeadAndShouldersBreakdown() {
	statuses := feed(suite.newHeadAndShoulders(), barsFromCloses(headAndShouldersCloses...))

	suite.Equal(LabelInsufficientData, statuses[0].Label)
	suite.Equal(LabelInsufficientData, statuses[1].Label)
	suite.Equal("No pattern", statuses[2].Label)
	suite.Equal("No pattern", statuses[10].Label)

	suite.Equal(types.DirectionNeutral, statuses[11].Direction)
	suite.Equal("Head and shoulders forming", statuses[11].Label)
	suite.Equal(10.0, statuses[11].RawValue.Unwrap())

	last := statuses[len(statuses)-1]
	suite.Equal(types.DirectionSell, last.Direction)
	suite.Equal("Head and shoulders, broke 10.00", last.Label)
}

func (suite *PatternsTestSuite) TestInverseHeadAndShoulders() {
	statuses := feed(suite.newHeadAndShoulders(), barsFromCloses(mirror(headAndShouldersCloses)...))

	suite.Equal("Inverse head and shoulders forming", statuses[11].Label)

	last := statuses[len(statuses)-1]
	suite.Equal(types.DirectionBuy, last.Direction)
	suite.Equal("Inverse head and shoulders, broke 20.00", last.Label)
}

func (suite *PatternsTestSuite) TestUnevenShouldersAreNoPattern() {
	closes := append([]float64(nil), headAndShouldersCloses...)
	closes[10] = 12.9

	statuses := feed(suite.newHeadAndShoulders(), barsFromCloses(closes...))
	suite.Equal(types.DirectionNeutral, statuses[len(statuses)-1].Direction)
	suite.Equal("No pattern", statuses[len(statuses)-1].Label)
}

func (suite *PatternsTestSuite) TestHeadAndShouldersReset() {
	h := suite.newHeadAndShoulders()
	feed(h, barsFromCloses(headAndShouldersCloses...))

	h.Reset()

	statuses := feed(h, barsFromCloses(10))
	suite.Equal(LabelInsufficientData, statuses[0].Label)
}

func (suite *PatternsTestSuite) TestDoubleTop() {
	statuses := feed(suite.newDoubleTopBottom(), barsFromCloses(doubleTopCloses...))

	suite.Equal("No pattern", statuses[6].Label)
	suite.Equal("Double top forming", statuses[7].Label)
	suite.Equal(types.DirectionNeutral, statuses[8].Direction)

	last := statuses[len(statuses)-1]
	suite.Equal(types.DirectionSell, last.Direction)
	suite.Equal("Double top, broke 11.00", last.Label)
	suite.Equal(11.0, last.RawValue.Unwrap())
}

func (suite *PatternsTestSuite) TestDoubleBottom() {
	statuses := feed(suite.newDoubleTopBottom(), barsFromCloses(mirror(doubleTopCloses)...))

	suite.Equal("Double bottom forming", statuses[7].Label)

	last := statuses[len(statuses)-1]
	suite.Equal(types.DirectionBuy, last.Direction)
	suite.Equal("Double bottom, broke 19.00", last.Label)
}

func (suite *PatternsTestSuite) TestShallowTroughIsNoPattern() {
	statuses := feed(suite.newDoubleTopBottom(0.02, 0.5), barsFromCloses(doubleTopCloses...))
	suite.Equal("No pattern", statuses[len(statuses)-1].Label)
}

func (suite *PatternsTestSuite) TestDoubleTopOutsideLookback() {
	d := NewDoubleTopBottom()
	suite.Require().NoError(d.Config(1, 5))

	statuses := feed(d, barsFromCloses(doubleTopCloses...))
	suite.Equal(types.DirectionNeutral, statuses[len(statuses)-1].Direction)
	suite.Equal("No pattern", statuses[len(statuses)-1].Label)
}

func (suite *PatternsTestSuite) TestConfig() {
	for _, ind := range []Indicator{NewHeadAndShoulders(), NewDoubleTopBottom()} {
		suite.NoError(ind.Config(3.0, 60.0), ind.Name())
		suite.NoError(ind.Config(2, 40, 0.05), ind.Name())

		suite.Equal(errors.ErrCodeMissingParameter, errors.GetCode(ind.Config(3)), ind.Name())
		suite.Equal(errors.ErrCodeInvalidPeriod, errors.GetCode(ind.Config(3, 6)), ind.Name())
		suite.Equal(errors.ErrCodeInvalidPeriod, errors.GetCode(ind.Config(0, 60)), ind.Name())
		suite.Equal(errors.ErrCodeInvalidParameter, errors.GetCode(ind.Config(3, 60, 1.5)), ind.Name())
		suite.Equal(errors.ErrCodeInvalidType, errors.GetCode(ind.Config("3", 60)), ind.Name())
	}

	d := NewDoubleTopBottom()
	suite.Equal(errors.ErrCodeInvalidParameter, errors.GetCode(d.Config(3, 60, 0.02, 0)))
}
