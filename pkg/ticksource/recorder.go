package ticksource

import (
	"context"
	"time"

	"github.com/rxtech-lab/horizon-replay/pkg/errors"
)

// progressEvery is how many ticks pass between progress callbacks.
const progressEvery = 10000

// Record fetches the ticks of symbol within [start, end) and persists them with writer.
// The writer is initialized, finalized and closed here. It returns the output path and
// the number of ticks written.
func Record(ctx context.Context, source TickSource, writer TickWriter, symbol string, start time.Time, end time.Time, onProgress OnProgress) (path string, written int, err error) {
	if err := writer.Initialize(); err != nil {
		return "", 0, errors.Wrap(errors.ErrCodeWriteFailed, "failed to initialize writer", err)
	}

	defer func() {
		if cerr := writer.Close(); cerr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeWriteFailed, "error closing writer", cerr)
		}
	}()

	for tick, fetchErr := range source.Fetch(ctx, symbol, start, end) {
		if fetchErr != nil {
			return "", written, fetchErr
		}

		if err := writer.Write(symbol, tick); err != nil {
			return "", written, err
		}

		written++

		if onProgress != nil && written%progressEvery == 0 {
			onProgress(written, "Recording "+symbol)
		}
	}

	if onProgress != nil {
		onProgress(written, "Recorded "+symbol)
	}

	path, err = writer.Finalize()
	if err != nil {
		return "", written, err
	}

	return path, written, nil
}
