package datasource

import (
	"slices"
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/samber/lo"

	"github.com/mkhv12/stk-advisor/internal/types"
)

// MemoryDataSource holds bars in memory, keyed by symbol. It is used for tests and
// for bars fetched directly from a provider.
type MemoryDataSource struct {
	mu   sync.RWMutex
	bars map[string][]types.Bar
}

// NewMemoryDataSource creates a data source holding the given bars. Bars are grouped
// by symbol and sorted by time.
func NewMemoryDataSource(bars []types.Bar) *MemoryDataSource {
	grouped := lo.GroupBy(bars, func(b types.Bar) string { return b.Symbol })
	for _, series := range grouped {
		slices.SortStableFunc(series, func(a, b types.Bar) int { return a.Time.Compare(b.Time) })
	}

	return &MemoryDataSource{bars: grouped}
}

// Initialize is a no-op, bars are provided at construction.
func (m *MemoryDataSource) Initialize(_ string) error {
	return nil
}

func (m *MemoryDataSource) inRange(symbol string, start optional.Option[time.Time], end optional.Option[time.Time]) []types.Bar {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return lo.Filter(m.bars[symbol], func(b types.Bar, _ int) bool {
		if start.IsSome() && b.Time.Before(start.Unwrap()) {
			return false
		}

		if end.IsSome() && b.Time.After(end.Unwrap()) {
			return false
		}

		return true
	})
}

// ReadAll implements DataSource.
func (m *MemoryDataSource) ReadAll(symbol string, start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.Bar, error) bool) {
	return func(yield func(types.Bar, error) bool) {
		for _, bar := range m.inRange(symbol, start, end) {
			if !yield(bar, nil) {
				return
			}
		}
	}
}

// Count implements DataSource.
func (m *MemoryDataSource) Count(symbol string, start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	return len(m.inRange(symbol, start, end)), nil
}

// GetAllSymbols implements DataSource.
func (m *MemoryDataSource) GetAllSymbols() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	symbols := lo.Keys(m.bars)
	slices.Sort(symbols)

	return symbols, nil
}

// Close implements DataSource.
func (m *MemoryDataSource) Close() error {
	return nil
}
