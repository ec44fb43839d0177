package indicator

import "math"

// RollingWindow is a fixed size circular buffer of float64 values.
type RollingWindow struct {
	data    []float64
	maxSize int
	front   int
	rear    int
	length  int
}

// NewRollingWindow creates a new RollingWindow holding at most maxSize values.
func NewRollingWindow(maxSize int) *RollingWindow {
	return &RollingWindow{
		data:    make([]float64, maxSize),
		maxSize: maxSize,
	}
}

// Push adds a value. When the window is full the oldest value is evicted and returned.
func (w *RollingWindow) Push(value float64) (float64, bool) {
	evicted, ok := 0.0, false

	if w.length == w.maxSize {
		evicted, ok = w.data[w.front], true
		w.front = (w.front + 1) % w.maxSize
		w.length--
	}

	w.data[w.rear] = value
	w.rear = (w.rear + 1) % w.maxSize
	w.length++

	return evicted, ok
}

// Get returns the value at index, oldest first. Negative indexes count from the newest.
func (w *RollingWindow) Get(index int) float64 {
	if index < 0 {
		index = w.length + index
	}

	if index < 0 || index >= w.length {
		return math.NaN()
	}

	return w.data[(w.front+index)%w.maxSize]
}

// Len returns the number of values held.
func (w *RollingWindow) Len() int {
	return w.length
}

// Full reports whether the window holds maxSize values.
func (w *RollingWindow) Full() bool {
	return w.length == w.maxSize
}

// Reset empties the window.
func (w *RollingWindow) Reset() {
	w.front = 0
	w.rear = 0
	w.length = 0
}

// RollingStats keeps a running sum and sum of squares over a RollingWindow.
type RollingStats struct {
	window *RollingWindow
	sum    float64
	sumSq  float64
}

// NewRollingStats creates RollingStats over the last period values.
func NewRollingStats(period int) *RollingStats {
	return &RollingStats{window: NewRollingWindow(period)}
}

// Push adds a value and evicts the oldest one once the window is full.
func (s *RollingStats) Push(value float64) {
	if evicted, ok := s.window.Push(value); ok {
		s.sum -= evicted
		s.sumSq -= evicted * evicted
	}

	s.sum += value
	s.sumSq += value * value
}

// Ready reports whether a full period of values has been pushed.
func (s *RollingStats) Ready() bool {
	return s.window.Full()
}

// Len returns the number of values in the window.
func (s *RollingStats) Len() int {
	return s.window.Len()
}

// Mean returns the mean of the values in the window, NaN when empty.
func (s *RollingStats) Mean() float64 {
	if s.window.Len() == 0 {
		return math.NaN()
	}

	return s.sum / float64(s.window.Len())
}

// SampleStdDev returns the sample standard deviation (n-1), NaN with fewer than two values.
func (s *RollingStats) SampleStdDev() float64 {
	n := float64(s.window.Len())
	if n < 2 {
		return math.NaN()
	}

	variance := (s.sumSq - s.sum*s.sum/n) / (n - 1)
	if variance < 0 {
		// rounding
		variance = 0
	}

	return math.Sqrt(variance)
}

// Reset empties the window and the running sums.
func (s *RollingStats) Reset() {
	s.window.Reset()
	s.sum = 0
	s.sumSq = 0
}

type indexedValue struct {
	index int
	value float64
}

// RollingExtremum tracks the maximum or minimum of the last period values with a
// monotonic deque, amortized O(1) per push.
type RollingExtremum struct {
	period  int
	isMax   bool
	deque   []indexedValue
	counter int
}

// NewRollingMax creates a RollingExtremum tracking the maximum.
func NewRollingMax(period int) *RollingExtremum {
	return &RollingExtremum{period: period, isMax: true}
}

// NewRollingMin creates a RollingExtremum tracking the minimum.
func NewRollingMin(period int) *RollingExtremum {
	return &RollingExtremum{period: period}
}

// Push adds a value.
func (e *RollingExtremum) Push(value float64) {
	for len(e.deque) > 0 && e.dominates(value, e.deque[len(e.deque)-1].value) {
		e.deque = e.deque[:len(e.deque)-1]
	}

	e.deque = append(e.deque, indexedValue{index: e.counter, value: value})
	e.counter++

	for e.deque[0].index <= e.counter-1-e.period {
		e.deque = e.deque[1:]
	}
}

func (e *RollingExtremum) dominates(a, b float64) bool {
	if e.isMax {
		return a >= b
	}

	return a <= b
}

// Value returns the current extremum, NaN when empty.
func (e *RollingExtremum) Value() float64 {
	if len(e.deque) == 0 {
		return math.NaN()
	}

	return e.deque[0].value
}

// Ready reports whether a full period of values has been pushed.
func (e *RollingExtremum) Ready() bool {
	return e.counter >= e.period
}

// Reset empties the deque.
func (e *RollingExtremum) Reset() {
	e.deque = e.deque[:0]
	e.counter = 0
}
