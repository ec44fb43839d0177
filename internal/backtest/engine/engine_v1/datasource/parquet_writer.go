package datasource

import (
	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
	"github.com/mkhv12/stk-advisor/pkg/marketdata/writer"
)

// WriteParquet writes bars to a parquet file readable by DuckDBDataSource.Initialize.
func WriteParquet(path string, bars []types.Bar) error {
	w := writer.NewDuckDBWriter(path)
	if err := w.Initialize(); err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to initialize parquet writer", err)
	}
	defer w.Close()

	for _, bar := range bars {
		if err := w.Write(bar); err != nil {
			return errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to write bar %s@%s", bar.Symbol, bar.Time)
		}
	}

	if _, err := w.Finalize(); err != nil {
		return errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to write parquet file %s", path)
	}

	return nil
}
