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

// metricsColumns is the column order of the metrics table after the request columns.
var metricsColumns = []string{
	"entry_triggered", "entry_time", "exit_reason", "exit_price", "exit_time", "pnl_points",
	"actual_mfe", "mfe_price", "actual_mae", "mae_price", "time_to_mae_secs",
	"time_in_trade_secs", "time_in_profit_secs",
	"time_to_t1_secs", "time_to_t2_secs", "time_to_t3_secs", "t1_hit", "t2_hit", "t3_hit",
	"bars_analyzed",
}

// MetricsRow is one exported replay: the request context and its metrics record.
type MetricsRow struct {
	RunID             string
	Symbol            string
	FrontInstrumentID uint32
	Intent            types.TradeIntent
	Metrics           types.MetricsRecord
}

// MetricsWriter writes replay metrics to a parquet file.
type MetricsWriter struct {
	db         *sql.DB
	outputPath string
	sq         squirrel.StatementBuilderType
	mu         sync.Mutex
}

// NewMetricsWriter creates a new MetricsWriter.
// outputPath is the full path to the parquet file.
func NewMetricsWriter(outputPath string) *MetricsWriter {
	return &MetricsWriter{
		db:         nil,
		outputPath: outputPath,
		sq:         squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		mu:         sync.Mutex{},
	}
}

// Initialize sets up the metrics writer with DuckDB.
//
//nolint:dupl // Writers have similar initialization but different table schemas
func (w *MetricsWriter) Initialize() error {
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
		CREATE TABLE IF NOT EXISTS metrics (
			run_id TEXT,
			symbol TEXT,
			front_instrument_id UINTEGER,
			direction TEXT,
			entry_price DOUBLE,
			stop_price DOUBLE,
			t1 DOUBLE,
			t2 DOUBLE,
			t3 DOUBLE,
			entry_triggered BOOLEAN,
			entry_time TIMESTAMP,
			exit_reason TEXT,
			exit_price DOUBLE,
			exit_time TIMESTAMP,
			pnl_points DOUBLE,
			actual_mfe DOUBLE,
			mfe_price DOUBLE,
			actual_mae DOUBLE,
			mae_price DOUBLE,
			time_to_mae_secs BIGINT,
			time_in_trade_secs BIGINT,
			time_in_profit_secs BIGINT,
			time_to_t1_secs BIGINT,
			time_to_t2_secs BIGINT,
			time_to_t3_secs BIGINT,
			t1_hit BOOLEAN,
			t2_hit BOOLEAN,
			t3_hit BOOLEAN,
			bars_analyzed INTEGER
		)
	`)
	if err != nil {
		w.db.Close()
		w.db = nil

		return fmt.Errorf("failed to create metrics table: %w", err)
	}

	return nil
}

// Write persists one metrics row and exports to parquet.
func (w *MetricsWriter) Write(row MetricsRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return fmt.Errorf("writer not initialized")
	}

	columns := append([]string{
		"run_id", "symbol", "front_instrument_id", "direction", "entry_price", "stop_price", "t1", "t2", "t3",
	}, metricsColumns...)

	values := []any{
		row.RunID, row.Symbol, row.FrontInstrumentID, string(row.Intent.Direction),
		row.Intent.EntryPrice, row.Intent.StopPrice,
		targetValue(row.Intent, 0), targetValue(row.Intent, 1), targetValue(row.Intent, 2),
	}

	fields := row.Metrics.AsMap()
	for _, column := range metricsColumns {
		value := fields[column]
		if reason, ok := value.(types.ExitReason); ok {
			value = string(reason)
		}

		values = append(values, value)
	}

	_, err := w.sq.
		Insert("metrics").
		Columns(columns...).
		Values(values...).
		RunWith(w.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to insert metrics: %w", err)
	}

	return exportToParquet(w.db, "metrics", "run_id", w.outputPath)
}

// GetOutputPath returns the output path.
func (w *MetricsWriter) GetOutputPath() string {
	return w.outputPath
}

// Close closes the DuckDB connection.
func (w *MetricsWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db != nil {
		err := w.db.Close()
		w.db = nil

		return err
	}

	return nil
}

func targetValue(intent types.TradeIntent, k int) any {
	target, ok := intent.Target(k)
	if !ok {
		return nil
	}

	return target
}

// exportToParquet copies a table to a parquet file, ordered by orderBy.
func exportToParquet(db *sql.DB, table string, orderBy string, outputPath string) error {
	query := fmt.Sprintf(`COPY (SELECT * FROM %s ORDER BY %s) TO '%s' (FORMAT PARQUET)`,
		table, orderBy, escapeLiteral(outputPath))

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to export %s to parquet: %w", table, err)
	}

	return nil
}
