package engine

import (
	"cmp"
	"iter"
	"maps"
	"slices"
	"time"

	"github.com/rxtech-lab/horizon-replay/internal/types"
	"github.com/rxtech-lab/horizon-replay/pkg/errors"
)

// nanosPerMinute is the bar width in integer nanoseconds.
const nanosPerMinute = int64(time.Minute)

// minuteBucket accumulates the ticks of one minute. Prices stay fixed-point
// until the bar is emitted.
type minuteBucket struct {
	open, high, low, close int64
	volume                 uint64
	trades                 uint64
}

// AggregateBars folds the ticks of frontInstrumentID into one-minute OHLCV bars
// sorted by minute. Ticks of other instruments are ignored. Minutes without
// trades produce no bar.
func AggregateBars(ticks iter.Seq[types.Tick], frontInstrumentID uint32) ([]types.Bar, error) {
	buckets := make(map[int64]*minuteBucket)

	for tick := range ticks {
		if tick.InstrumentID != frontInstrumentID {
			continue
		}

		minuteStart := floorMinute(tick.TsEvent)

		bucket, ok := buckets[minuteStart]
		if !ok {
			if len(buckets) >= types.MaxBarsPerReplay {
				return nil, errors.Newf(errors.ErrCodeBarLimitExceeded,
					"tick window spans more than %d minutes", types.MaxBarsPerReplay)
			}

			bucket = &minuteBucket{open: tick.Price, high: tick.Price, low: tick.Price}
			buckets[minuteStart] = bucket
		}

		bucket.high = max(bucket.high, tick.Price)
		bucket.low = min(bucket.low, tick.Price)
		bucket.close = tick.Price
		bucket.volume += uint64(tick.Size)
		bucket.trades++
	}

	minutes := slices.SortedFunc(maps.Keys(buckets), cmp.Compare[int64])
	bars := make([]types.Bar, 0, len(minutes))

	for _, minuteStart := range minutes {
		bucket := buckets[minuteStart]
		bars = append(bars, types.Bar{
			MinuteStart: time.Unix(0, minuteStart).UTC(),
			Open:        decodePrice(bucket.open),
			High:        decodePrice(bucket.high),
			Low:         decodePrice(bucket.low),
			Close:       decodePrice(bucket.close),
			Volume:      bucket.volume,
			TradeCount:  bucket.trades,
		})
	}

	return bars, nil
}

// floorMinute truncates a nanosecond timestamp to its minute boundary, rounding
// toward negative infinity for pre-epoch values.
func floorMinute(tsEvent int64) int64 {
	minuteStart := tsEvent - tsEvent%nanosPerMinute
	if tsEvent%nanosPerMinute < 0 {
		minuteStart -= nanosPerMinute
	}

	return minuteStart
}

func decodePrice(price int64) float64 {
	return types.Tick{Price: price}.PricePoints()
}
