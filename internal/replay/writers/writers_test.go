package writers

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/horizon-replay/internal/replay/engine"
	"github.com/rxtech-lab/horizon-replay/internal/types"
	"github.com/rxtech-lab/horizon-replay/pkg/errors"
)

type WritersTestSuite struct {
	suite.Suite
	tempDir string
}

func (s *WritersTestSuite) SetupTest() {
	tempDir, err := os.MkdirTemp("", "writers_test_*")
	s.Require().NoError(err)
	s.tempDir = tempDir
}

func (s *WritersTestSuite) TearDownTest() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

func TestWritersTestSuite(t *testing.T) {
	suite.Run(t, new(WritersTestSuite))
}

func (s *WritersTestSuite) sampleBars() []types.Bar {
	start := time.Date(2024, 1, 16, 14, 30, 0, 0, time.UTC)

	return []types.Bar{
		{MinuteStart: start, Open: 2050, High: 2052, Low: 2049, Close: 2051, Volume: 12, TradeCount: 5},
		{MinuteStart: start.Add(time.Minute), Open: 2051, High: 2055, Low: 2050.5, Close: 2054, Volume: 7, TradeCount: 3},
	}
}

func (s *WritersTestSuite) queryParquet(path string, query string, dest ...any) {
	db, err := sql.Open("duckdb", ":memory:")
	s.Require().NoError(err)
	defer db.Close()

	err = db.QueryRow(fmt.Sprintf(query, fmt.Sprintf("read_parquet('%s')", escapeLiteral(path)))).Scan(dest...)
	s.Require().NoError(err)
}

func (s *WritersTestSuite) TestBarsWriter_Write_NotInitialized() {
	w := NewBarsWriter(filepath.Join(s.tempDir, "bars.parquet"))

	err := w.Write("run", 1, s.sampleBars())
	s.Error(err)
	s.Contains(err.Error(), "writer not initialized")
}

func (s *WritersTestSuite) TestBarsWriter_Close_NotInitialized() {
	w := NewBarsWriter(filepath.Join(s.tempDir, "bars.parquet"))
	s.NoError(w.Close())
}

func (s *WritersTestSuite) TestBarsWriter_WriteExportsParquet() {
	outputPath := filepath.Join(s.tempDir, "nested", "bars.parquet")
	w := NewBarsWriter(outputPath)
	s.Require().NoError(w.Initialize())
	defer w.Close()

	s.Require().NoError(w.Write("run-1", 2, s.sampleBars()))
	s.FileExists(outputPath)
	s.Equal(outputPath, w.GetOutputPath())

	var count int
	var high float64
	var volume uint64
	s.queryParquet(outputPath, "SELECT COUNT(*), MAX(high), SUM(volume)::UBIGINT FROM %s", &count, &high, &volume)
	s.Equal(2, count)
	s.Equal(2055.0, high)
	s.Equal(uint64(19), volume)
}

func (s *WritersTestSuite) TestMetricsWriter_Write_NotInitialized() {
	w := NewMetricsWriter(filepath.Join(s.tempDir, "metrics.parquet"))

	err := w.Write(MetricsRow{RunID: "run"})
	s.Error(err)
	s.Contains(err.Error(), "writer not initialized")
}

func (s *WritersTestSuite) TestMetricsWriter_NullableFields() {
	outputPath := filepath.Join(s.tempDir, "metrics.parquet")
	w := NewMetricsWriter(outputPath)
	s.Require().NoError(w.Initialize())
	defer w.Close()

	row := MetricsRow{
		RunID:             "run-2",
		Symbol:            "GC.FUT",
		FrontInstrumentID: 1,
		Intent: types.TradeIntent{
			Direction:  types.DirectionLong,
			EntryPrice: 2050,
			StopPrice:  2045,
			Targets:    []float64{2055},
		},
		Metrics: types.MetricsRecord{BarsAnalyzed: 30},
	}
	s.Require().NoError(w.Write(row))

	var triggered bool
	var exitReason sql.NullString
	var t2 sql.NullFloat64
	var bars int
	s.queryParquet(outputPath, "SELECT entry_triggered, exit_reason, t2, bars_analyzed FROM %s",
		&triggered, &exitReason, &t2, &bars)
	s.False(triggered)
	s.False(exitReason.Valid)
	s.False(t2.Valid)
	s.Equal(30, bars)
}

func (s *WritersTestSuite) TestResultWriter_WritesBothFiles() {
	w := NewDuckDBResultWriter(s.tempDir, nil)

	entry := time.Date(2024, 1, 16, 14, 31, 0, 0, time.UTC)
	result := engine.Result{
		RunID:             "3f1c",
		FrontInstrumentID: 2,
		TickCount:         8,
		Bars:              s.sampleBars(),
		Metrics: types.MetricsRecord{
			EntryTriggered:   true,
			EntryTime:        optional.Some(entry),
			ExitReason:       optional.Some(types.ExitReasonClose),
			ExitPrice:        optional.Some(2054.0),
			ExitTime:         optional.Some(entry),
			PnLPoints:        4,
			TimeInTradeSecs:  optional.Some(int64(0)),
			TimeInProfitSecs: optional.Some(int64(0)),
			BarsAnalyzed:     2,
		},
	}
	request := engine.ReplayRequest{
		Symbol:    "GC.FUT",
		EntryDate: "2024-01-16",
		EntryTime: "09:30",
		TradeIntent: types.TradeIntent{
			Direction:  types.DirectionLong,
			EntryPrice: 2050,
			StopPrice:  2045,
			Targets:    []float64{2055, 2060, 2065},
		},
	}

	barsPath, metricsPath, err := w.Write(request, result)
	s.Require().NoError(err)
	s.Equal(filepath.Join(s.tempDir, "3f1c_bars.parquet"), barsPath)
	s.Equal(filepath.Join(s.tempDir, "3f1c_metrics.parquet"), metricsPath)
	s.FileExists(barsPath)
	s.FileExists(metricsPath)

	var exitReason string
	var pnl, t3 float64
	s.queryParquet(metricsPath, "SELECT exit_reason, pnl_points, t3 FROM %s", &exitReason, &pnl, &t3)
	s.Equal("close", exitReason)
	s.Equal(4.0, pnl)
	s.Equal(2065.0, t3)
}

func (s *WritersTestSuite) TestResultWriter_MissingRunID() {
	w := NewDuckDBResultWriter(s.tempDir, nil)

	_, _, err := w.Write(engine.ReplayRequest{}, engine.Result{})
	s.True(errors.HasCode(err, errors.ErrCodeWriteFailed))
}

func (s *WritersTestSuite) TestResultWriter_UnwritableDirectory() {
	blocker := filepath.Join(s.tempDir, "file")
	s.Require().NoError(os.WriteFile(blocker, []byte("x"), 0644))

	w := NewDuckDBResultWriter(filepath.Join(blocker, "out"), nil)

	_, _, err := w.Write(engine.ReplayRequest{}, engine.Result{RunID: "r"})
	s.True(errors.HasCode(err, errors.ErrCodeWriteFailed))
}
