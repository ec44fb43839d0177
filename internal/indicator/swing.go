package indicator

import (
	"slices"

	"github.com/mkhv12/stk-advisor/internal/types"
)

type swingKind int

const (
	swingHigh swingKind = iota
	swingLow
)

// beyond reports whether a is further in the swing's direction than b.
func (k swingKind) beyond(a, b float64) bool {
	if k == swingHigh {
		return a > b
	}

	return a < b
}

func (k swingKind) opposite() swingKind {
	if k == swingHigh {
		return swingLow
	}

	return swingHigh
}

type swing struct {
	kind  swingKind
	index int
	price float64
}

// swingTracker confirms swing highs and lows order bars after they happen. A swing high
// is a high above every high of the order bars before it and not exceeded by any of the
// order bars after it; swing lows mirror that. Swings older than lookback bars are dropped.
type swingTracker struct {
	order    int
	lookback int
	highs    *RollingWindow
	lows     *RollingWindow
	count    int
	swings   []swing
}

func newSwingTracker(order, lookback int) *swingTracker {
	return &swingTracker{
		order:    order,
		lookback: lookback,
		highs:    NewRollingWindow(2*order + 1),
		lows:     NewRollingWindow(2*order + 1),
	}
}

func (t *swingTracker) add(bar types.Bar) {
	t.highs.Push(bar.High)
	t.lows.Push(bar.Low)
	t.count++

	if t.highs.Full() {
		index := t.count - 1 - t.order

		if isSwing(t.highs, t.order, swingHigh) {
			t.swings = append(t.swings, swing{kind: swingHigh, index: index, price: t.highs.Get(t.order)})
		}

		if isSwing(t.lows, t.order, swingLow) {
			t.swings = append(t.swings, swing{kind: swingLow, index: index, price: t.lows.Get(t.order)})
		}
	}

	oldest := t.count - t.lookback
	expired := 0

	for expired < len(t.swings) && t.swings[expired].index < oldest {
		expired++
	}

	t.swings = t.swings[expired:]
}

func isSwing(w *RollingWindow, order int, kind swingKind) bool {
	middle := w.Get(order)

	for i := range order {
		if !kind.beyond(middle, w.Get(i)) {
			return false
		}
	}

	for i := order + 1; i < w.Len(); i++ {
		if kind.beyond(w.Get(i), middle) {
			return false
		}
	}

	return true
}

func (t *swingTracker) ready() bool {
	return t.count >= 2*t.order+1
}

// latest returns the last n swings of kind in time order, nil when there are fewer.
func (t *swingTracker) latest(kind swingKind, n int) []swing {
	found := make([]swing, 0, n)

	for i := len(t.swings) - 1; i >= 0 && len(found) < n; i-- {
		if t.swings[i].kind == kind {
			found = append(found, t.swings[i])
		}
	}

	if len(found) < n {
		return nil
	}

	slices.Reverse(found)

	return found
}

// extremeBetween returns the furthest swing of kind strictly between two bar indexes.
func (t *swingTracker) extremeBetween(kind swingKind, from, to int) (float64, bool) {
	var (
		best  float64
		found bool
	)

	for _, s := range t.swings {
		if s.kind != kind || s.index <= from || s.index >= to {
			continue
		}

		if !found || kind.beyond(s.price, best) {
			best, found = s.price, true
		}
	}

	return best, found
}
