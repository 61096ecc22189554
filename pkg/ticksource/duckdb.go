package ticksource

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/rxtech-lab/horizon-replay/internal/logger"
	"github.com/rxtech-lab/horizon-replay/internal/types"
	"github.com/rxtech-lab/horizon-replay/pkg/errors"
)

// DuckDBTickSource replays ticks recorded to a Parquet file by DuckDBTickWriter.
type DuckDBTickSource struct {
	db     *sql.DB
	path   string
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBTickSource opens an in-memory DuckDB database with a ticks view over
// the Parquet file at path.
func NewDuckDBTickSource(path string, log *logger.Logger) (*DuckDBTickSource, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "tick data path is required")
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB connection: %w", err)
	}

	log.Debug("Initializing DuckDB tick source", zap.String("path", path))

	// Squirrel doesn't support CREATE VIEW
	query := fmt.Sprintf(`CREATE VIEW ticks AS SELECT * FROM read_parquet('%s');`, escapeLiteral(path))

	if _, err := db.Exec(query); err != nil {
		db.Close()

		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to open tick data %s", path)
	}

	return &DuckDBTickSource{
		db:     db,
		path:   path,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Fetch implements TickSource.
func (d *DuckDBTickSource) Fetch(ctx context.Context, symbol string, start time.Time, end time.Time) iter.Seq2[types.Tick, error] {
	return func(yield func(types.Tick, error) bool) {
		if err := validateFetch(symbol, start, end); err != nil {
			yield(types.Tick{}, err)

			return
		}

		query, args, err := d.sq.
			Select("instrument_id", "ts_event", "price", "size").
			From("ticks").
			Where(squirrel.Eq{"symbol": symbol}).
			Where(squirrel.GtOrEq{"ts_event": start.UnixNano()}).
			Where(squirrel.Lt{"ts_event": end.UnixNano()}).
			OrderBy("instrument_id ASC", "ts_event ASC").
			ToSql()
		if err != nil {
			yield(types.Tick{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build tick query", err))

			return
		}

		rows, err := d.db.QueryContext(ctx, query, args...)
		if err != nil {
			yield(types.Tick{}, upstreamError(ctx, err, "failed to query ticks from %s", d.path))

			return
		}
		defer rows.Close()

		count := 0

		for rows.Next() {
			var instrumentID, tsEvent, price, size int64

			if err := rows.Scan(&instrumentID, &tsEvent, &price, &size); err != nil {
				yield(types.Tick{}, upstreamError(ctx, err, "failed to scan tick row"))

				return
			}

			count++

			tick := types.Tick{
				InstrumentID: uint32(instrumentID),
				TsEvent:      tsEvent,
				Price:        price,
				Size:         uint32(size),
			}
			if !yield(tick, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(types.Tick{}, upstreamError(ctx, err, "failed to read ticks from %s", d.path))

			return
		}

		d.logger.Debug("Read recorded ticks",
			zap.String("symbol", symbol),
			zap.String("path", d.path),
			zap.Int("ticks", count))

		if count == 0 {
			yield(types.Tick{}, emptyWindow(symbol, start, end))
		}
	}
}

// Close releases the DuckDB connection.
func (d *DuckDBTickSource) Close() error {
	return d.db.Close()
}

func escapeLiteral(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}
