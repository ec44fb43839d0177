package indicator

import (
	"math"

	"github.com/moznion/go-optional"

	"github.com/mkhv12/stk-advisor/internal/types"
)

// wilderAverage is Wilder's smoothing: the first value is the simple mean of the
// first period inputs, after that avg = (avg*(period-1) + x) / period.
type wilderAverage struct {
	period int
	count  int
	sum    float64
	value  float64
}

func newWilderAverage(period int) *wilderAverage {
	return &wilderAverage{period: period}
}

func (w *wilderAverage) add(x float64) (float64, bool) {
	if w.count < w.period {
		w.sum += x
		w.count++

		if w.count < w.period {
			return math.NaN(), false
		}

		w.value = w.sum / float64(w.period)

		return w.value, true
	}

	w.value = (w.value*float64(w.period-1) + x) / float64(w.period)

	return w.value, true
}

func (w *wilderAverage) reset() {
	w.count = 0
	w.sum = 0
	w.value = 0
}

// trueRange returns the true range of bar given the previous bar's close.
func trueRange(bar types.Bar, prevClose float64) float64 {
	return math.Max(bar.High-bar.Low, math.Max(math.Abs(bar.High-prevClose), math.Abs(bar.Low-prevClose)))
}

// directionalMovement holds the state needed to stream +DI, -DI and ADX.
type directionalMovement struct {
	atr      *wilderAverage
	plusDM   *wilderAverage
	minusDM  *wilderAverage
	adx      *wilderAverage
	previous optional.Option[types.Bar]
}

func newDirectionalMovement(period int) *directionalMovement {
	return &directionalMovement{
		atr:      newWilderAverage(period),
		plusDM:   newWilderAverage(period),
		minusDM:  newWilderAverage(period),
		adx:      newWilderAverage(period),
		previous: optional.None[types.Bar](),
	}
}

// add feeds a bar and returns the ADX once both smoothing stages are filled.
func (d *directionalMovement) add(bar types.Bar) (float64, bool) {
	prev, err := d.previous.Take()
	d.previous = optional.Some(bar)

	if err != nil {
		return math.NaN(), false
	}

	upMove := bar.High - prev.High
	downMove := prev.Low - bar.Low

	plus, minus := 0.0, 0.0
	if upMove > downMove && upMove > 0 {
		plus = upMove
	}

	if downMove > upMove && downMove > 0 {
		minus = downMove
	}

	atr, ready := d.atr.add(trueRange(bar, prev.Close))
	smoothedPlus, _ := d.plusDM.add(plus)
	smoothedMinus, _ := d.minusDM.add(minus)

	if !ready || atr == 0 {
		return math.NaN(), false
	}

	plusDI := 100 * smoothedPlus / atr
	minusDI := 100 * smoothedMinus / atr

	dx := 0.0
	if sum := plusDI + minusDI; sum > 0 {
		dx = 100 * math.Abs(plusDI-minusDI) / sum
	}

	return d.adx.add(dx)
}

func (d *directionalMovement) reset() {
	d.atr.reset()
	d.plusDM.reset()
	d.minusDM.reset()
	d.adx.reset()
	d.previous = optional.None[types.Bar]()
}
