package ticksource

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/horizon-replay/internal/types"
	replayErrors "github.com/rxtech-lab/horizon-replay/pkg/errors"
)

// staticSource serves a fixed tick list, or a fixed error.
type staticSource struct {
	ticks []types.Tick
	err   error
}

func (s *staticSource) Fetch(_ context.Context, _ string, start time.Time, end time.Time) iter.Seq2[types.Tick, error] {
	return func(yield func(types.Tick, error) bool) {
		if s.err != nil {
			yield(types.Tick{}, s.err)

			return
		}

		for _, tick := range s.ticks {
			if tick.TsEvent < start.UnixNano() || tick.TsEvent >= end.UnixNano() {
				continue
			}

			if !yield(tick, nil) {
				return
			}
		}
	}
}

// failingWriter fails at a configurable stage.
type failingWriter struct {
	initializeErr error
	writeErr      error
	closed        bool
}

func (w *failingWriter) Initialize() error { return w.initializeErr }

func (w *failingWriter) Write(_ string, _ types.Tick) error { return w.writeErr }

func (w *failingWriter) Finalize() (string, error) { return "mock.parquet", nil }

func (w *failingWriter) Close() error {
	w.closed = true
	return nil
}

func (w *failingWriter) GetOutputPath() string { return "mock.parquet" }

type DuckDBTickSourceTestSuite struct {
	suite.Suite
	tempDir string
	start   time.Time
	ticks   []types.Tick
}

func TestDuckDBTickSourceSuite(t *testing.T) {
	suite.Run(t, new(DuckDBTickSourceTestSuite))
}

func (suite *DuckDBTickSourceTestSuite) SetupTest() {
	tempDir, err := os.MkdirTemp("", "ticksource_test_*")
	suite.Require().NoError(err)
	suite.tempDir = tempDir

	suite.start = time.Date(2024, 1, 16, 14, 30, 0, 0, time.UTC)
	suite.ticks = []types.Tick{
		{InstrumentID: 2, TsEvent: suite.start.Add(3 * time.Second).UnixNano(), Price: types.EncodePrice(2070.5), Size: 1},
		{InstrumentID: 1, TsEvent: suite.start.UnixNano(), Price: types.EncodePrice(2050.1), Size: 2},
		{InstrumentID: 1, TsEvent: suite.start.Add(time.Minute).UnixNano(), Price: types.EncodePrice(2050.3), Size: 5},
		{InstrumentID: 1, TsEvent: suite.start.Add(2 * time.Hour).UnixNano(), Price: types.EncodePrice(2051), Size: 1},
	}
}

func (suite *DuckDBTickSourceTestSuite) TearDownTest() {
	if suite.tempDir != "" {
		os.RemoveAll(suite.tempDir)
	}
}

func (suite *DuckDBTickSourceTestSuite) record(symbol string) string {
	outputPath := filepath.Join(suite.tempDir, "ticks.parquet")

	var progress []int
	path, written, err := Record(context.Background(), &staticSource{ticks: suite.ticks},
		NewDuckDBTickWriter(outputPath, nil), symbol, suite.start, suite.start.Add(24*time.Hour),
		func(ticks int, _ string) { progress = append(progress, ticks) })
	suite.Require().NoError(err)
	suite.Equal(outputPath, path)
	suite.Equal(len(suite.ticks), written)
	suite.Equal([]int{len(suite.ticks)}, progress)
	suite.FileExists(path)

	return path
}

func (suite *DuckDBTickSourceTestSuite) TestRecordedTicksReplay() {
	path := suite.record("GC.FUT")

	source, err := NewDuckDBTickSource(path, nil)
	suite.Require().NoError(err)
	defer source.Close()

	ticks, err := Collect(source.Fetch(context.Background(), "GC.FUT", suite.start, suite.start.Add(time.Hour)))
	suite.Require().NoError(err)
	suite.Require().Len(ticks, 3)

	suite.Equal(suite.ticks[1], ticks[0])
	suite.Equal(suite.ticks[2], ticks[1])
	suite.Equal(suite.ticks[0], ticks[2])
}

func (suite *DuckDBTickSourceTestSuite) TestWindowEndIsExclusive() {
	path := suite.record("GC.FUT")

	source, err := NewDuckDBTickSource(path, nil)
	suite.Require().NoError(err)
	defer source.Close()

	ticks, err := Collect(source.Fetch(context.Background(), "GC.FUT", suite.start, suite.start.Add(time.Minute)))
	suite.Require().NoError(err)
	suite.Len(ticks, 2)
}

func (suite *DuckDBTickSourceTestSuite) TestOtherSymbolIsEmptyWindow() {
	path := suite.record("GC.FUT")

	source, err := NewDuckDBTickSource(path, nil)
	suite.Require().NoError(err)
	defer source.Close()

	_, err = Collect(source.Fetch(context.Background(), "SI.FUT", suite.start, suite.start.Add(time.Hour)))
	suite.True(replayErrors.HasCode(err, replayErrors.ErrCodeEmptyWindow))
}

func (suite *DuckDBTickSourceTestSuite) TestMissingFile() {
	_, err := NewDuckDBTickSource(filepath.Join(suite.tempDir, "missing.parquet"), nil)
	suite.True(replayErrors.HasCode(err, replayErrors.ErrCodeInvalidConfiguration))

	_, err = NewDuckDBTickSource("", nil)
	suite.True(replayErrors.HasCode(err, replayErrors.ErrCodeInvalidConfiguration))
}

func (suite *DuckDBTickSourceTestSuite) TestWriterNotInitialized() {
	writer := NewDuckDBTickWriter(filepath.Join(suite.tempDir, "ticks.parquet"), nil)

	err := writer.Write("GC.FUT", suite.ticks[0])
	suite.True(replayErrors.HasCode(err, replayErrors.ErrCodeWriteFailed))

	_, err = writer.Finalize()
	suite.True(replayErrors.HasCode(err, replayErrors.ErrCodeWriteFailed))

	suite.NoError(writer.Close())
}

func (suite *DuckDBTickSourceTestSuite) TestRecordPropagatesFetchError() {
	writer := &failingWriter{}
	fetchErr := replayErrors.New(replayErrors.ErrCodeAuthMissing, "no key")

	_, _, err := Record(context.Background(), &staticSource{err: fetchErr}, writer, "GC.FUT",
		suite.start, suite.start.Add(time.Hour), nil)
	suite.True(replayErrors.HasCode(err, replayErrors.ErrCodeAuthMissing))
	suite.True(writer.closed)
}

func (suite *DuckDBTickSourceTestSuite) TestRecordWriterFailures() {
	_, _, err := Record(context.Background(), &staticSource{ticks: suite.ticks},
		&failingWriter{initializeErr: errors.New("disk full")}, "GC.FUT", suite.start, suite.start.Add(time.Hour), nil)
	suite.True(replayErrors.HasCode(err, replayErrors.ErrCodeWriteFailed))

	writeErr := replayErrors.New(replayErrors.ErrCodeWriteFailed, "insert failed")
	_, written, err := Record(context.Background(), &staticSource{ticks: suite.ticks},
		&failingWriter{writeErr: writeErr}, "GC.FUT", suite.start, suite.start.Add(time.Hour), nil)
	suite.ErrorIs(err, writeErr)
	suite.Equal(0, written)
}

func (suite *DuckDBTickSourceTestSuite) TestRecordSpansSeveralBatches() {
	ticks := make([]types.Tick, 0, 2*tickBatchSize+500)
	for i := range 2*tickBatchSize + 500 {
		ticks = append(ticks, types.Tick{
			InstrumentID: 1,
			TsEvent:      suite.start.Add(time.Duration(i) * time.Second).UnixNano(),
			Price:        types.EncodePrice(2050 + float64(i%10)/10),
			Size:         1,
		})
	}

	outputPath := filepath.Join(suite.tempDir, "nested", "session.parquet")
	_, written, err := Record(context.Background(), &staticSource{ticks: ticks},
		NewDuckDBTickWriter(outputPath, nil), "GC.FUT", suite.start, suite.start.Add(2*time.Hour), nil)
	suite.Require().NoError(err)
	suite.Equal(len(ticks), written)

	source, err := NewDuckDBTickSource(outputPath, nil)
	suite.Require().NoError(err)
	defer source.Close()

	replayed, err := Collect(source.Fetch(context.Background(), "GC.FUT", suite.start, suite.start.Add(2*time.Hour)))
	suite.Require().NoError(err)
	suite.Equal(ticks, replayed)
}
