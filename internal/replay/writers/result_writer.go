package writers

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/rxtech-lab/horizon-replay/internal/logger"
	"github.com/rxtech-lab/horizon-replay/internal/replay/engine"
	"github.com/rxtech-lab/horizon-replay/pkg/errors"
)

// ResultWriter persists a finished replay.
type ResultWriter interface {
	// Write exports the bars and metrics of result and returns the two file paths.
	Write(request engine.ReplayRequest, result engine.Result) (barsPath string, metricsPath string, err error)
}

// DuckDBResultWriter writes each replay to <dir>/<run_id>_bars.parquet and
// <dir>/<run_id>_metrics.parquet.
type DuckDBResultWriter struct {
	dir string
	log *logger.Logger
}

// NewDuckDBResultWriter creates a result writer exporting into dir.
func NewDuckDBResultWriter(dir string, log *logger.Logger) *DuckDBResultWriter {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &DuckDBResultWriter{dir: dir, log: log}
}

// Write implements ResultWriter.
func (w *DuckDBResultWriter) Write(request engine.ReplayRequest, result engine.Result) (string, string, error) {
	if result.RunID == "" {
		return "", "", errors.New(errors.ErrCodeWriteFailed, "replay result has no run id")
	}

	barsPath := filepath.Join(w.dir, result.RunID+"_bars.parquet")
	metricsPath := filepath.Join(w.dir, result.RunID+"_metrics.parquet")

	bars := NewBarsWriter(barsPath)
	if err := bars.Initialize(); err != nil {
		return "", "", errors.Wrap(errors.ErrCodeWriteFailed, "failed to initialize bars writer", err)
	}
	defer bars.Close()

	if err := bars.Write(result.RunID, result.FrontInstrumentID, result.Bars); err != nil {
		return "", "", errors.Wrap(errors.ErrCodeWriteFailed, "failed to write bars", err)
	}

	metrics := NewMetricsWriter(metricsPath)
	if err := metrics.Initialize(); err != nil {
		return "", "", errors.Wrap(errors.ErrCodeWriteFailed, "failed to initialize metrics writer", err)
	}
	defer metrics.Close()

	err := metrics.Write(MetricsRow{
		RunID:             result.RunID,
		Symbol:            request.Symbol,
		FrontInstrumentID: result.FrontInstrumentID,
		Intent:            request.TradeIntent,
		Metrics:           result.Metrics,
	})
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeWriteFailed, "failed to write metrics", err)
	}

	w.log.Info("Exported replay results",
		zap.String("run_id", result.RunID),
		zap.String("bars_path", barsPath),
		zap.String("metrics_path", metricsPath),
		zap.Int("bars", len(result.Bars)))

	return barsPath, metricsPath, nil
}

func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

var _ ResultWriter = (*DuckDBResultWriter)(nil)

