package engine

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/mkhv12/stk-advisor/internal/logger"
	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// TradeRecord is a persisted trade event of one symbol run.
type TradeRecord struct {
	TradeID string
	RunID   string
	Symbol  string
	types.TradeEvent
}

// TradeLogStore collects the trade events of a batch in an in-memory DuckDB table
// and exports them to parquet.
type TradeLogStore struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewTradeLogStore opens an in-memory store.
func NewTradeLogStore(logger *logger.Logger) (*TradeLogStore, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open trade log database", err)
	}

	return &TradeLogStore{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Initialize creates the trades table.
func (t *TradeLogStore) Initialize() error {
	_, err := t.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			trade_id TEXT PRIMARY KEY,
			run_id TEXT,
			symbol TEXT,
			action TEXT,
			price DOUBLE,
			share_count BIGINT,
			timestamp TIMESTAMP
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to create trades table", err)
	}

	return nil
}

// Append stores the trades of one symbol run in a single transaction.
func (t *TradeLogStore) Append(runID string, symbol string, events []types.TradeEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := t.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to begin transaction", err)
	}

	for _, event := range events {
		_, err = t.sq.
			Insert("trades").
			Columns("trade_id", "run_id", "symbol", "action", "price", "share_count", "timestamp").
			Values(uuid.New().String(), runID, symbol, string(event.Action), event.Price, event.ShareCount, event.Time).
			RunWith(tx).
			Exec()
		if err != nil {
			tx.Rollback()

			return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to insert trade", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to commit trades", err)
	}

	return nil
}

// GetTrades returns the stored trades of a symbol, or of every symbol when symbol is empty.
func (t *TradeLogStore) GetTrades(symbol string) ([]TradeRecord, error) {
	query := t.sq.
		Select("trade_id", "run_id", "symbol", "action", "price", "share_count", "timestamp").
		From("trades").
		OrderBy("symbol ASC", "timestamp ASC", "action ASC")

	if symbol != "" {
		query = query.Where(squirrel.Eq{"symbol": symbol})
	}

	rows, err := query.RunWith(t.db).Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query trades", err)
	}
	defer rows.Close()

	var records []TradeRecord

	for rows.Next() {
		var (
			record TradeRecord
			action string
		)

		err := rows.Scan(&record.TradeID, &record.RunID, &record.Symbol, &action, &record.Price, &record.ShareCount, &record.Time)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan trade", err)
		}

		record.Action = types.TradeAction(action)
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating trades", err)
	}

	return records, nil
}

// Write exports the trades table to <path>/trades.parquet.
func (t *TradeLogStore) Write(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to create directory", err)
	}

	// squirrel doesn't support COPY
	tradesPath := filepath.Join(path, "trades.parquet")

	_, err := t.db.Exec(fmt.Sprintf(`COPY trades TO '%s' (FORMAT PARQUET)`, tradesPath))
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to export trades to parquet", err)
	}

	t.logger.Info("Exported trades to parquet", zap.String("trades", tradesPath))

	return nil
}

// Close releases the database.
func (t *TradeLogStore) Close() error {
	return t.db.Close()
}
