package types

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type WeightsTestSuite struct {
	suite.Suite
}

func TestWeightsSuite(t *testing.T) {
	suite.Run(t, new(WeightsTestSuite))
}

func (suite *WeightsTestSuite) TestNamesAreSorted() {
	weights := WeightVector{
		IndicatorTypeVWAP: 0.75,
		IndicatorTypeADX:  0.5,
		IndicatorTypeRSI:  0.5,
	}

	suite.Equal([]IndicatorType{IndicatorTypeADX, IndicatorTypeRSI, IndicatorTypeVWAP}, weights.Names())
}

func (suite *WeightsTestSuite) TestCloneIsIndependent() {
	weights := WeightVector{IndicatorTypeRSI: 1}
	clone := weights.Clone()
	clone[IndicatorTypeRSI] = 2

	suite.Equal(1.0, weights[IndicatorTypeRSI])
	suite.Equal(2.0, clone[IndicatorTypeRSI])
}

func (suite *WeightsTestSuite) TestBoundClamp() {
	bound := Bound{Low: 0.25, High: 1.5}

	suite.Equal(0.25, bound.Clamp(-1))
	suite.Equal(1.5, bound.Clamp(3))
	suite.Equal(1.0, bound.Clamp(1))
	suite.Equal(1.25, bound.Width())
}

func (suite *WeightsTestSuite) TestBoundsNames() {
	bounds := Bounds{
		IndicatorTypeMACD:      {Low: 0, High: 1},
		IndicatorTypeFibonacci: {Low: 0, High: 2},
	}

	suite.Equal([]IndicatorType{IndicatorTypeFibonacci, IndicatorTypeMACD}, bounds.Names())
}

func (suite *WeightsTestSuite) TestAllIndicatorTypesAreUnique() {
	seen := make(map[IndicatorType]bool)
	for _, name := range AllIndicatorTypes {
		suite.False(seen[name], "duplicate indicator %s", name)
		seen[name] = true
	}

	suite.Len(seen, 15)
}
