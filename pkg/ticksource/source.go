package ticksource

import (
	"context"
	"iter"
	"time"

	"github.com/rxtech-lab/horizon-replay/internal/timeutil"
	"github.com/rxtech-lab/horizon-replay/internal/types"
	"github.com/rxtech-lab/horizon-replay/pkg/errors"
)

// TickSource yields the trade ticks of a symbol within a UTC window.
type TickSource interface {
	// Fetch streams every tick of symbol with start <= ts_event < end.
	// The symbol may be a parent symbol (e.g. GC.FUT) covering several contracts;
	// each contract is reported under its own InstrumentID.
	//
	// Failures are yielded as the error half of the pair and end the sequence:
	//   - AuthMissing when the vendor credential is absent
	//   - UpstreamUnavailable on transport errors or context cancellation
	//   - EmptyWindow when the upstream returned zero ticks for the window
	// Sources never retry.
	Fetch(ctx context.Context, symbol string, start time.Time, end time.Time) iter.Seq2[types.Tick, error]
}

// OnProgress reports how many ticks a long-running fetch has produced so far.
type OnProgress = func(ticks int, message string)

// Collect drains a tick sequence into a slice. The first error aborts collection
// and no partial result is returned.
func Collect(seq iter.Seq2[types.Tick, error]) ([]types.Tick, error) {
	ticks := make([]types.Tick, 0, 1024)

	for tick, err := range seq {
		if err != nil {
			return nil, err
		}

		ticks = append(ticks, tick)
	}

	return ticks, nil
}

// validateFetch checks the arguments every source shares.
func validateFetch(symbol string, start time.Time, end time.Time) error {
	if symbol == "" {
		return errors.New(errors.ErrCodeInvalidParameter, "symbol is required")
	}

	return timeutil.Window{Start: start, End: end}.Validate()
}

// upstreamError classifies a failure of the vendor call. A cancelled or expired
// context is reported as UpstreamUnavailable as well, so callers see a single kind.
func upstreamError(ctx context.Context, err error, format string, args ...any) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Wrapf(errors.ErrCodeUpstreamUnavailable, ctxErr, format, args...)
	}

	return errors.Wrapf(errors.ErrCodeUpstreamUnavailable, err, format, args...)
}

func emptyWindow(symbol string, start time.Time, end time.Time) error {
	return errors.Newf(errors.ErrCodeEmptyWindow, "no ticks for %s between %s and %s",
		symbol, start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
}

// contractsFor expands a parent symbol into the contract tickers configured for it.
// Unknown symbols are fetched as-is, as a single contract.
func contractsFor(contracts map[string][]string, symbol string) []string {
	if tickers, ok := contracts[symbol]; ok && len(tickers) > 0 {
		return tickers
	}

	return []string{symbol}
}
