package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type WindowTestSuite struct {
	suite.Suite
}

func TestWindowSuite(t *testing.T) {
	suite.Run(t, new(WindowTestSuite))
}

func (suite *WindowTestSuite) TestRollingWindowEvictsOldest() {
	w := NewRollingWindow(3)

	for _, v := range []float64{1, 2, 3} {
		_, evicted := w.Push(v)
		suite.False(evicted)
	}

	suite.True(w.Full())

	old, evicted := w.Push(4)
	suite.True(evicted)
	suite.Equal(1.0, old)
	suite.Equal(2.0, w.Get(0))
	suite.Equal(4.0, w.Get(-1))
	suite.Equal(3, w.Len())
	suite.True(math.IsNaN(w.Get(3)))

	w.Reset()
	suite.Equal(0, w.Len())
}

func (suite *WindowTestSuite) TestRollingStats() {
	s := NewRollingStats(8)
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Push(v)
	}

	suite.True(s.Ready())
	suite.InDelta(5.0, s.Mean(), 1e-12)
	suite.InDelta(math.Sqrt(32.0/7.0), s.SampleStdDev(), 1e-12)

	s = NewRollingStats(3)
	for _, v := range []float64{1, 2, 3, 4} {
		s.Push(v)
	}

	suite.InDelta(3.0, s.Mean(), 1e-12)
	suite.Equal(3, s.Len())
}

func (suite *WindowTestSuite) TestRollingStatsEmpty() {
	s := NewRollingStats(3)
	suite.True(math.IsNaN(s.Mean()))

	s.Push(1)
	suite.True(math.IsNaN(s.SampleStdDev()))
}

func (suite *WindowTestSuite) TestRollingExtremum() {
	highest := NewRollingMax(3)
	lowest := NewRollingMin(3)

	values := []float64{1, 3, 2, 5, 1, 1, 1}
	wantMax := []float64{1, 3, 3, 5, 5, 5, 1}
	wantMin := []float64{1, 1, 1, 2, 1, 1, 1}

	for i, v := range values {
		highest.Push(v)
		lowest.Push(v)
		suite.Equal(wantMax[i], highest.Value(), "max at %d", i)
		suite.Equal(wantMin[i], lowest.Value(), "min at %d", i)
		suite.Equal(i >= 2, highest.Ready())
	}

	highest.Reset()
	suite.True(math.IsNaN(highest.Value()))
	suite.False(highest.Ready())
}

func (suite *WindowTestSuite) TestEMA() {
	ema := NewEMA(3)
	suite.True(math.IsNaN(ema.Value()))

	suite.Equal(1.0, ema.Add(1))
	suite.Equal(2.0, ema.Add(3))
	suite.Equal(3.5, ema.Add(5))
	suite.Equal(3, ema.Count())

	ema.Reset()
	suite.Equal(0, ema.Count())
}

func (suite *WindowTestSuite) TestSMA() {
	sma := NewSMA(2)

	suite.True(math.IsNaN(sma.Add(1)))
	suite.False(sma.Ready())
	suite.Equal(2.0, sma.Add(3))
	suite.Equal(4.0, sma.Add(5))

	sma.Reset()
	suite.False(sma.Ready())
}
