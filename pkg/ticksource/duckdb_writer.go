package ticksource

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/rxtech-lab/horizon-replay/internal/logger"
	"github.com/rxtech-lab/horizon-replay/internal/types"
	"github.com/rxtech-lab/horizon-replay/pkg/errors"
)

// tickBatchSize is how many ticks are buffered before one multi-row insert.
const tickBatchSize = 1000

// TickWriter persists ticks for later offline replay.
type TickWriter interface {
	// Initialize sets up the writer, potentially creating tables or files.
	Initialize() error
	// Write persists a single tick recorded under symbol.
	Write(symbol string, tick types.Tick) error
	// Finalize completes the writing process and returns the output path.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}

type pendingTick struct {
	symbol string
	tick   types.Tick
}

// DuckDBTickWriter stages ticks in an in-memory DuckDB table and exports them to Parquet
// in the layout read by DuckDBTickSource.
type DuckDBTickWriter struct {
	db         *sql.DB
	sq         squirrel.StatementBuilderType
	pending    []pendingTick
	outputPath string
	logger     *logger.Logger
}

// NewDuckDBTickWriter creates a writer that exports to the Parquet file at outputPath.
func NewDuckDBTickWriter(outputPath string, log *logger.Logger) *DuckDBTickWriter {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &DuckDBTickWriter{
		sq:         squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		outputPath: outputPath,
		logger:     log,
	}
}

// Initialize opens the staging database and creates the ticks table.
func (w *DuckDBTickWriter) Initialize() error {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return fmt.Errorf("failed to open DuckDB connection: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE ticks (
			symbol TEXT,
			instrument_id UINTEGER,
			ts_event BIGINT,
			price BIGINT,
			size UINTEGER
		)
	`)
	if err != nil {
		db.Close()

		return fmt.Errorf("failed to create ticks table: %w", err)
	}

	w.db = db
	w.pending = make([]pendingTick, 0, tickBatchSize)

	return nil
}

// Write stages one tick. Ticks reach the table in batches.
func (w *DuckDBTickWriter) Write(symbol string, tick types.Tick) error {
	if w.db == nil {
		return errors.New(errors.ErrCodeWriteFailed, "writer not initialized")
	}

	w.pending = append(w.pending, pendingTick{symbol: symbol, tick: tick})
	if len(w.pending) < tickBatchSize {
		return nil
	}

	return w.flush()
}

func (w *DuckDBTickWriter) flush() error {
	if len(w.pending) == 0 {
		return nil
	}

	insert := w.sq.Insert("ticks").Columns("symbol", "instrument_id", "ts_event", "price", "size")
	for _, p := range w.pending {
		insert = insert.Values(p.symbol, p.tick.InstrumentID, p.tick.TsEvent, p.tick.Price, p.tick.Size)
	}

	if _, err := insert.RunWith(w.db).Exec(); err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to insert %d ticks", len(w.pending))
	}

	w.pending = w.pending[:0]

	return nil
}

// Finalize flushes the staged ticks and exports the table to Parquet ordered by
// symbol, instrument and event time.
func (w *DuckDBTickWriter) Finalize() (string, error) {
	if w.db == nil {
		return "", errors.New(errors.ErrCodeWriteFailed, "writer not initialized")
	}

	if err := w.flush(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(w.outputPath), 0755); err != nil {
		return "", errors.Wrap(errors.ErrCodeWriteFailed, "failed to create output directory", err)
	}

	copyQuery := fmt.Sprintf(`COPY (SELECT * FROM ticks ORDER BY symbol, instrument_id, ts_event) TO '%s' (FORMAT PARQUET)`,
		escapeLiteral(w.outputPath))
	if _, err := w.db.Exec(copyQuery); err != nil {
		return "", errors.Wrap(errors.ErrCodeWriteFailed, "failed to export ticks to Parquet", err)
	}

	w.logger.Info("Exported ticks", zap.String("path", w.outputPath))

	return w.outputPath, nil
}

// Close drops any staged ticks and closes the staging database.
func (w *DuckDBTickWriter) Close() error {
	w.pending = nil

	if w.db == nil {
		return nil
	}

	err := w.db.Close()
	w.db = nil

	if err != nil {
		return fmt.Errorf("failed to close db connection: %w", err)
	}

	return nil
}

// GetOutputPath returns the configured Parquet path.
func (w *DuckDBTickWriter) GetOutputPath() string {
	return w.outputPath
}
