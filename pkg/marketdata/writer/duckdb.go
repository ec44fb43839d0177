package writer

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"

	"github.com/mkhv12/stk-advisor/internal/types"
)

// DuckDBWriter buffers bars in an in-memory DuckDB table inside one transaction and exports
// them to a parquet file on Finalize. The file layout matches what the DuckDB datasource reads.
type DuckDBWriter struct {
	db         *sql.DB
	tx         *sql.Tx
	stmt       *sql.Stmt
	outputPath string
	written    int
}

// NewDuckDBWriter creates a writer exporting to outputPath.
func NewDuckDBWriter(outputPath string) MarketDataWriter {
	return &DuckDBWriter{
		outputPath: outputPath,
	}
}

// Initialize opens the database, creates the bar table, begins the transaction and prepares
// the insert statement. Calling it on an initialized writer is a no-op.
func (w *DuckDBWriter) Initialize() (err error) {
	if w.db != nil {
		return nil
	}

	w.db, err = sql.Open("duckdb", ":memory:")
	if err != nil {
		return fmt.Errorf("failed to open DuckDB connection: %w", err)
	}

	_, err = w.db.Exec(`
		CREATE TABLE IF NOT EXISTS market_data (
			id TEXT,
			time TIMESTAMP,
			symbol TEXT,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE
		)
	`)
	if err != nil {
		w.closeDB()

		return fmt.Errorf("failed to create table: %w", err)
	}

	w.tx, err = w.db.Begin()
	if err != nil {
		w.closeDB()

		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	w.stmt, err = w.tx.Prepare(`
		INSERT INTO market_data (id, time, symbol, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		w.tx.Rollback()
		w.tx = nil
		w.closeDB()

		return fmt.Errorf("failed to prepare statement: %w", err)
	}

	return nil
}

// Write inserts one bar within the open transaction.
func (w *DuckDBWriter) Write(bar types.Bar) error {
	if w.stmt == nil {
		return fmt.Errorf("writer not initialized or already finalized")
	}

	_, err := w.stmt.Exec(
		uuid.New().String(),
		bar.Time,
		bar.Symbol,
		bar.Open,
		bar.High,
		bar.Low,
		bar.Close,
		bar.Volume,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bar: %w", err)
	}

	w.written++

	return nil
}

// Finalize commits the transaction and exports the bars ordered by symbol and time.
func (w *DuckDBWriter) Finalize() (outputPath string, err error) {
	if w.tx == nil {
		return "", fmt.Errorf("writer not initialized or already finalized")
	}

	if w.stmt != nil {
		w.stmt.Close()
		w.stmt = nil
	}

	if err = w.tx.Commit(); err != nil {
		w.tx.Rollback()
		w.tx = nil

		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.tx = nil

	query := fmt.Sprintf(`COPY (SELECT * FROM market_data ORDER BY symbol, time) TO '%s' (FORMAT PARQUET)`,
		strings.ReplaceAll(w.outputPath, "'", "''"))
	if _, err = w.db.Exec(query); err != nil {
		return "", fmt.Errorf("failed to export to Parquet: %w", err)
	}

	return w.outputPath, nil
}

// Written returns the number of bars inserted so far.
func (w *DuckDBWriter) Written() int {
	return w.written
}

// GetOutputPath returns the parquet file path.
func (w *DuckDBWriter) GetOutputPath() string {
	return w.outputPath
}

// Close releases the statement, rolls back an unfinished transaction and closes the database.
// It is safe to call more than once.
func (w *DuckDBWriter) Close() error {
	var closeErrors []string

	if w.stmt != nil {
		if err := w.stmt.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to close statement: %v", err))
		}

		w.stmt = nil
	}

	if w.tx != nil {
		if err := w.tx.Rollback(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to rollback transaction: %v", err))
		}

		w.tx = nil
	}

	if err := w.closeDB(); err != nil {
		closeErrors = append(closeErrors, fmt.Sprintf("failed to close db connection: %v", err))
	}

	if len(closeErrors) > 0 {
		return fmt.Errorf("errors occurred during close:\n- %s", strings.Join(closeErrors, "\n- "))
	}

	return nil
}

func (w *DuckDBWriter) closeDB() error {
	if w.db == nil {
		return nil
	}

	err := w.db.Close()
	w.db = nil

	return err
}
