package engine

import (
	"iter"

	"github.com/rxtech-lab/horizon-replay/internal/types"
	"github.com/rxtech-lab/horizon-replay/pkg/errors"
)

// CountTrades returns the number of ticks seen per instrument.
func CountTrades(ticks iter.Seq[types.Tick]) map[uint32]int {
	counts := make(map[uint32]int)
	for tick := range ticks {
		counts[tick.InstrumentID]++
	}

	return counts
}

// ResolveFrontMonth picks the instrument with the most trades in the window.
// Ties go to the numerically smallest instrument id so the choice is reproducible.
func ResolveFrontMonth(ticks iter.Seq[types.Tick]) (uint32, error) {
	return frontMonthFromCounts(CountTrades(ticks))
}

func frontMonthFromCounts(counts map[uint32]int) (uint32, error) {
	if len(counts) == 0 {
		return 0, errors.New(errors.ErrCodeNoInstruments, "no instruments in tick window")
	}

	var (
		front     uint32
		bestCount = -1
	)

	for instrumentID, count := range counts {
		if count > bestCount || (count == bestCount && instrumentID < front) {
			front = instrumentID
			bestCount = count
		}
	}

	return front, nil
}
