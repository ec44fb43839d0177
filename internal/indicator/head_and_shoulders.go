package indicator

import (
	"fmt"
	"math"

	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// HeadAndShoulders looks for three swing highs where the middle one is the highest and
// the outer two are level within tolerance. A close under the neckline, the lower of
// the two troughs between them, is a Sell. The inverse pattern on swing lows with a
// close over its neckline is a Buy.
type HeadAndShoulders struct {
	order     int
	lookback  int
	tolerance float64
	swings    *swingTracker
}

// NewHeadAndShoulders confirms swings 3 bars either side, searches the last 60 bars and
// accepts shoulders within 3% of each other.
func NewHeadAndShoulders() Indicator {
	h := &HeadAndShoulders{order: 3, lookback: 60, tolerance: 0.03}
	h.Reset()

	return h
}

// Name returns the name of the indicator.
func (h *HeadAndShoulders) Name() types.IndicatorType {
	return types.IndicatorTypeHeadAndShoulders
}

// Config expects swing order (int), lookback (int) and optionally the shoulder tolerance (float64).
func (h *HeadAndShoulders) Config(params ...any) error {
	order, lookback, err := swingParams(params)
	if err != nil {
		return err
	}

	tolerance := h.tolerance
	if len(params) >= 3 {
		if tolerance, err = floatParam(params[2], "tolerance"); err != nil {
			return err
		}
	}

	if tolerance <= 0 || tolerance >= 1 {
		return errors.Newf(errors.ErrCodeInvalidParameter, "tolerance must be between 0 and 1, got %f", tolerance)
	}

	h.order = order
	h.lookback = lookback
	h.tolerance = tolerance
	h.Reset()

	return nil
}

// formation is a completed chart pattern: the level that confirms it and the bar of its
// last swing.
type formation struct {
	neckline float64
	end      int
}

// Update feeds the next bar.
func (h *HeadAndShoulders) Update(bar types.Bar, _ IndicatorContext) types.IndicatorStatus {
	h.swings.add(bar)

	if !h.swings.ready() {
		return insufficient(h.Name())
	}

	top, topFound := h.find(swingHigh)
	bottom, bottomFound := h.find(swingLow)

	// the formation completed last wins
	switch {
	case topFound && (!bottomFound || top.end >= bottom.end):
		if bar.Close < top.neckline {
			return status(h.Name(), types.DirectionSell, fmt.Sprintf("Head and shoulders, broke %.2f", top.neckline), top.neckline)
		}

		return status(h.Name(), types.DirectionNeutral, "Head and shoulders forming", top.neckline)
	case bottomFound:
		if bar.Close > bottom.neckline {
			return status(h.Name(), types.DirectionBuy, fmt.Sprintf("Inverse head and shoulders, broke %.2f", bottom.neckline), bottom.neckline)
		}

		return status(h.Name(), types.DirectionNeutral, "Inverse head and shoulders forming", bottom.neckline)
	default:
		return types.NeutralStatus(h.Name(), "No pattern")
	}
}

func (h *HeadAndShoulders) find(kind swingKind) (formation, bool) {
	peaks := h.swings.latest(kind, 3)
	if peaks == nil {
		return formation{}, false
	}

	left, head, right := peaks[0], peaks[1], peaks[2]

	if !kind.beyond(head.price, left.price) || !kind.beyond(head.price, right.price) {
		return formation{}, false
	}

	if math.Abs(left.price-right.price) > h.tolerance*math.Max(math.Abs(left.price), math.Abs(right.price)) {
		return formation{}, false
	}

	trough := kind.opposite()

	first, ok := h.swings.extremeBetween(trough, left.index, head.index)
	if !ok {
		return formation{}, false
	}

	second, ok := h.swings.extremeBetween(trough, head.index, right.index)
	if !ok {
		return formation{}, false
	}

	neckline := first
	if trough.beyond(second, first) {
		neckline = second
	}

	return formation{neckline: neckline, end: right.index}, true
}

// Reset drops all state.
func (h *HeadAndShoulders) Reset() {
	h.swings = newSwingTracker(h.order, h.lookback)
}

func swingParams(params []any) (int, int, error) {
	if len(params) < 2 {
		return 0, 0, errors.New(errors.ErrCodeMissingParameter, "Config expects at least 2 parameters: swing order (int), lookback (int)")
	}

	order, err := intParam(params[0], "swing order")
	if err != nil {
		return 0, 0, err
	}

	lookback, err := intParam(params[1], "lookback")
	if err != nil {
		return 0, 0, err
	}

	if order <= 0 || lookback <= 2*order {
		return 0, 0, errors.Newf(errors.ErrCodeInvalidPeriod, "periods must satisfy 0 < 2*order < lookback, got %d and %d", order, lookback)
	}

	return order, lookback, nil
}
