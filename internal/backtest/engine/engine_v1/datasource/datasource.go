package datasource

import (
	"time"

	"github.com/moznion/go-optional"

	"github.com/mkhv12/stk-advisor/internal/types"
)

// DataSource provides the historical bars a simulation runs on.
type DataSource interface {
	// Initialize initializes the data source with the given data path in parquet format
	Initialize(path string) error
	// ReadAll yields the bars of a symbol in ascending time order
	ReadAll(symbol string, start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.Bar, error) bool)
	// Count returns the number of bars of a symbol in the time range
	Count(symbol string, start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// GetAllSymbols returns the distinct symbols in sorted order
	GetAllSymbols() ([]string, error)
	// Close closes the data source and releases any resources
	Close() error
}

// LoadBars collects the bars of a symbol into a slice sized by Count.
func LoadBars(ds DataSource, symbol string, start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.Bar, error) {
	n, err := ds.Count(symbol, start, end)
	if err != nil {
		return nil, err
	}

	bars := make([]types.Bar, 0, n)

	for bar, err := range ds.ReadAll(symbol, start, end) {
		if err != nil {
			return nil, err
		}

		bars = append(bars, bar)
	}

	return bars, nil
}
