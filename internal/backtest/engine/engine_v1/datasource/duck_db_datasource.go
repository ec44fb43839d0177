package datasource

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/mkhv12/stk-advisor/internal/logger"
	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

var barColumns = []string{"time", "symbol", "open", "high", "low", "close", "volume"}

// DuckDBDataSource serves bars from parquet files through an in-process DuckDB view.
type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDataSource creates a new DuckDB data source instance with the specified database path.
// The path parameter specifies the DuckDB database file location, ":memory:" keeps it in memory.
// This is distinct from Initialize() which loads market data into the database.
func NewDataSource(path string, logger *logger.Logger) (DataSource, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	if _, err = db.Exec(`SET threads=4;`); err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to configure duckdb", err)
	}

	return &DuckDBDataSource{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize implements DataSource. path may be a glob matching several parquet files.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", path))

	if _, err := d.db.Exec(`DROP VIEW IF EXISTS market_data;`); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
	}

	// squirrel has no CREATE VIEW support
	query := fmt.Sprintf(`
		CREATE VIEW market_data AS
		SELECT * FROM read_parquet('%s');
	`, path)

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to read parquet data from %s", path)
	}

	return nil
}

func (d *DuckDBDataSource) rangeFilter(symbol string, start optional.Option[time.Time], end optional.Option[time.Time]) squirrel.And {
	filter := squirrel.And{squirrel.Eq{"symbol": symbol}}

	if start.IsSome() {
		filter = append(filter, squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		filter = append(filter, squirrel.LtOrEq{"time": end.Unwrap()})
	}

	return filter
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(symbol string, start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	query, args, err := d.sq.
		Select("COUNT(*)").
		From("market_data").
		Where(d.rangeFilter(symbol, start, end)).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	var count int
	if err := d.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count bars", err)
	}

	return count, nil
}

// ReadAll implements DataSource.
func (d *DuckDBDataSource) ReadAll(symbol string, start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.Bar, error) bool) {
	return func(yield func(types.Bar, error) bool) {
		d.logger.Debug("Reading bars from DuckDB", zap.String("symbol", symbol))

		query, args, err := d.sq.
			Select(barColumns...).
			From("market_data").
			Where(d.rangeFilter(symbol, start, end)).
			OrderBy("time ASC").
			ToSql()
		if err != nil {
			yield(types.Bar{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err))

			return
		}

		rows, err := d.db.Query(query, args...)
		if err != nil {
			yield(types.Bar{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query market data", err))

			return
		}
		defer rows.Close()

		for rows.Next() {
			bar, err := scanBar(rows)
			if err != nil {
				yield(types.Bar{}, err)

				return
			}

			if !yield(bar, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(types.Bar{}, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err))
		}
	}
}

// GetAllSymbols implements DataSource.
func (d *DuckDBDataSource) GetAllSymbols() ([]string, error) {
	query, args, err := d.sq.
		Select("DISTINCT symbol").
		From("market_data").
		OrderBy("symbol").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to get symbols", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating symbols", err)
	}

	return symbols, nil
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	if d.db != nil {
		return d.db.Close()
	}

	return nil
}

func scanBar(rows *sql.Rows) (types.Bar, error) {
	var bar types.Bar

	if err := rows.Scan(&bar.Time, &bar.Symbol, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
	}

	return bar, nil
}
