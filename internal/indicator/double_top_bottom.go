package indicator

import (
	"fmt"
	"math"

	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// DoubleTopBottom looks for two swing highs level within tolerance with a trough at
// least minDepth below them. A close under that trough is a Sell. Double bottoms
// mirror it on swing lows and a close over the peak between them is a Buy.
type DoubleTopBottom struct {
	order     int
	lookback  int
	tolerance float64
	minDepth  float64
	swings    *swingTracker
}

// NewDoubleTopBottom confirms swings 3 bars either side over the last 60 bars, with
// tops within 2% of each other and a trough at least 3% deep.
func NewDoubleTopBottom() Indicator {
	d := &DoubleTopBottom{order: 3, lookback: 60, tolerance: 0.02, minDepth: 0.03}
	d.Reset()

	return d
}

// Name returns the name of the indicator.
func (d *DoubleTopBottom) Name() types.IndicatorType {
	return types.IndicatorTypeDoubleTopBottom
}

// Config expects swing order (int), lookback (int) and optionally tolerance (float64)
// and minimum depth (float64).
func (d *DoubleTopBottom) Config(params ...any) error {
	order, lookback, err := swingParams(params)
	if err != nil {
		return err
	}

	tolerance, minDepth := d.tolerance, d.minDepth

	if len(params) >= 3 {
		if tolerance, err = floatParam(params[2], "tolerance"); err != nil {
			return err
		}
	}

	if len(params) >= 4 {
		if minDepth, err = floatParam(params[3], "minimum depth"); err != nil {
			return err
		}
	}

	if tolerance <= 0 || tolerance >= 1 || minDepth <= 0 || minDepth >= 1 {
		return errors.Newf(errors.ErrCodeInvalidParameter, "tolerance and minimum depth must be between 0 and 1, got %f and %f", tolerance, minDepth)
	}

	d.order = order
	d.lookback = lookback
	d.tolerance = tolerance
	d.minDepth = minDepth
	d.Reset()

	return nil
}

// Update feeds the next bar.
func (d *DoubleTopBottom) Update(bar types.Bar, _ IndicatorContext) types.IndicatorStatus {
	d.swings.add(bar)

	if !d.swings.ready() {
		return insufficient(d.Name())
	}

	top, topFound := d.find(swingHigh)
	bottom, bottomFound := d.find(swingLow)

	switch {
	case topFound && (!bottomFound || top.end >= bottom.end):
		if bar.Close < top.neckline {
			return status(d.Name(), types.DirectionSell, fmt.Sprintf("Double top, broke %.2f", top.neckline), top.neckline)
		}

		return status(d.Name(), types.DirectionNeutral, "Double top forming", top.neckline)
	case bottomFound:
		if bar.Close > bottom.neckline {
			return status(d.Name(), types.DirectionBuy, fmt.Sprintf("Double bottom, broke %.2f", bottom.neckline), bottom.neckline)
		}

		return status(d.Name(), types.DirectionNeutral, "Double bottom forming", bottom.neckline)
	default:
		return types.NeutralStatus(d.Name(), "No pattern")
	}
}

func (d *DoubleTopBottom) find(kind swingKind) (formation, bool) {
	peaks := d.swings.latest(kind, 2)
	if peaks == nil {
		return formation{}, false
	}

	first, second := peaks[0], peaks[1]
	level := math.Max(math.Abs(first.price), math.Abs(second.price))

	if math.Abs(first.price-second.price) > d.tolerance*level {
		return formation{}, false
	}

	trough, ok := d.swings.extremeBetween(kind.opposite(), first.index, second.index)
	if !ok {
		return formation{}, false
	}

	if math.Abs((first.price+second.price)/2-trough) < d.minDepth*level {
		return formation{}, false
	}

	return formation{neckline: trough, end: second.index}, true
}

// Reset drops all state.
func (d *DoubleTopBottom) Reset() {
	d.swings = newSwingTracker(d.order, d.lookback)
}
