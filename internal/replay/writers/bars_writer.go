package writers

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"

	"github.com/rxtech-lab/horizon-replay/internal/types"
)

// BarsWriter writes the bar sequence of a replay to a parquet file.
type BarsWriter struct {
	db         *sql.DB
	outputPath string
	sq         squirrel.StatementBuilderType
	mu         sync.Mutex
}

// NewBarsWriter creates a new BarsWriter.
// outputPath is the full path to the parquet file.
func NewBarsWriter(outputPath string) *BarsWriter {
	return &BarsWriter{
		db:         nil,
		outputPath: outputPath,
		sq:         squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		mu:         sync.Mutex{},
	}
}

// Initialize sets up the bars writer with DuckDB.
//
//nolint:dupl // Writers have similar initialization but different table schemas
func (w *BarsWriter) Initialize() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Dir(w.outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return fmt.Errorf("failed to open DuckDB connection: %w", err)
	}

	w.db = db

	_, err = w.db.Exec(`
		CREATE TABLE IF NOT EXISTS bars (
			run_id TEXT,
			instrument_id UINTEGER,
			minute_start TIMESTAMP,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume UBIGINT,
			trade_count UBIGINT
		)
	`)
	if err != nil {
		w.db.Close()
		w.db = nil

		return fmt.Errorf("failed to create bars table: %w", err)
	}

	return nil
}

// Write inserts the bars of one replay in a single transaction and exports to parquet.
func (w *BarsWriter) Write(runID string, instrumentID uint32, bars []types.Bar) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return fmt.Errorf("writer not initialized")
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, bar := range bars {
		_, err := w.sq.
			Insert("bars").
			Columns("run_id", "instrument_id", "minute_start", "open", "high", "low", "close", "volume", "trade_count").
			Values(runID, instrumentID, bar.MinuteStart, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume, bar.TradeCount).
			RunWith(tx).
			Exec()
		if err != nil {
			tx.Rollback()

			return fmt.Errorf("failed to insert bar: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bars: %w", err)
	}

	return exportToParquet(w.db, "bars", "minute_start", w.outputPath)
}

// GetOutputPath returns the output path.
func (w *BarsWriter) GetOutputPath() string {
	return w.outputPath
}

// Close closes the DuckDB connection.
func (w *BarsWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db != nil {
		err := w.db.Close()
		w.db = nil

		return err
	}

	return nil
}
