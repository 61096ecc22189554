package ticksource

import (
	"context"
	"iter"
	"math"
	"time"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rxtech-lab/horizon-replay/internal/logger"
	"github.com/rxtech-lab/horizon-replay/internal/types"
	"github.com/rxtech-lab/horizon-replay/pkg/errors"
)

const (
	// binancePageLimit is the largest page the aggTrades endpoint serves.
	binancePageLimit = 1000
	// binanceMaxSpan is the widest startTime/endTime range aggTrades accepts.
	binanceMaxSpan = time.Hour
)

// BinanceAggTradesAPI abstracts the aggregate trades endpoint of the USD-M futures API.
// startMillis and endMillis are both inclusive, as on the wire.
type BinanceAggTradesAPI interface {
	AggTrades(ctx context.Context, symbol string, startMillis int64, endMillis int64, limit int) ([]*futures.AggTrade, error)
}

// binanceFuturesAdapter adapts *futures.Client to BinanceAggTradesAPI.
type binanceFuturesAdapter struct {
	client *futures.Client
}

func (a *binanceFuturesAdapter) AggTrades(ctx context.Context, symbol string, startMillis int64, endMillis int64, limit int) ([]*futures.AggTrade, error) {
	return a.client.NewAggTradesService().
		Symbol(symbol).
		StartTime(startMillis).
		EndTime(endMillis).
		Limit(limit).
		Do(ctx)
}

// BinanceTickSource reads aggregate trades of gold perpetual futures from Binance.
// Quantities are converted to whole contracts of lotSize, rounded up.
type BinanceTickSource struct {
	api       BinanceAggTradesAPI
	lotSize   decimal.Decimal
	contracts map[string][]string
	logger    *logger.Logger
}

// NewBinanceTickSource creates a Binance tick source. Market data is public, so the
// key pair may be empty.
func NewBinanceTickSource(apiKey string, secretKey string, lotSize decimal.Decimal, contracts map[string][]string, log *logger.Logger) (*BinanceTickSource, error) {
	return NewBinanceTickSourceWithAPI(&binanceFuturesAdapter{client: futures.NewClient(apiKey, secretKey)}, lotSize, contracts, log)
}

// NewBinanceTickSourceWithAPI creates a Binance tick source backed by a custom API client.
func NewBinanceTickSourceWithAPI(api BinanceAggTradesAPI, lotSize decimal.Decimal, contracts map[string][]string, log *logger.Logger) (*BinanceTickSource, error) {
	if !lotSize.IsPositive() {
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "binance lot size must be positive, got %s", lotSize)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &BinanceTickSource{
		api:       api,
		lotSize:   lotSize,
		contracts: contracts,
		logger:    log,
	}, nil
}

// Fetch implements TickSource. The window is walked in one-hour slices; a slice
// that fills a whole page is resumed from the last trade's millisecond, skipping
// trade ids already emitted.
func (b *BinanceTickSource) Fetch(ctx context.Context, symbol string, start time.Time, end time.Time) iter.Seq2[types.Tick, error] {
	return func(yield func(types.Tick, error) bool) {
		if err := validateFetch(symbol, start, end); err != nil {
			yield(types.Tick{}, err)

			return
		}

		produced := 0
		endMillis := end.UnixMilli()

		for index, contract := range contractsFor(b.contracts, symbol) {
			instrumentID := uint32(index + 1)
			lastTradeID := int64(-1)
			count := 0

			for sliceStart := start.UnixMilli(); sliceStart < endMillis; {
				sliceEnd := min(sliceStart+binanceMaxSpan.Milliseconds(), endMillis)
				cursor := sliceStart

				for {
					trades, err := b.api.AggTrades(ctx, contract, cursor, sliceEnd-1, binancePageLimit)
					if err != nil {
						yield(types.Tick{}, upstreamError(ctx, err, "failed to fetch binance aggregate trades for %s", contract))

						return
					}

					for _, trade := range trades {
						if trade.AggTradeID <= lastTradeID {
							continue
						}

						lastTradeID = trade.AggTradeID

						tick, err := b.toTick(instrumentID, trade)
						if err != nil {
							yield(types.Tick{}, err)

							return
						}

						count++

						if !yield(tick, nil) {
							return
						}
					}

					if len(trades) < binancePageLimit {
						break
					}

					next := trades[len(trades)-1].Timestamp
					if next <= cursor {
						next = cursor + 1
					}

					cursor = next
				}

				sliceStart = sliceEnd
			}

			b.logger.Debug("Fetched binance aggregate trades",
				zap.String("symbol", symbol),
				zap.String("contract", contract),
				zap.Uint32("instrument_id", instrumentID),
				zap.Int("ticks", count))

			produced += count
		}

		if produced == 0 {
			yield(types.Tick{}, emptyWindow(symbol, start, end))
		}
	}
}

func (b *BinanceTickSource) toTick(instrumentID uint32, trade *futures.AggTrade) (types.Tick, error) {
	price, err := types.EncodePriceString(trade.Price)
	if err != nil {
		return types.Tick{}, errors.Wrapf(errors.ErrCodeUpstreamUnavailable, err, "malformed binance price %q", trade.Price)
	}

	quantity, err := decimal.NewFromString(trade.Quantity)
	if err != nil {
		return types.Tick{}, errors.Wrapf(errors.ErrCodeUpstreamUnavailable, err, "malformed binance quantity %q", trade.Quantity)
	}

	lots := quantity.Div(b.lotSize).Ceil().IntPart()
	lots = max(lots, 1)
	lots = min(lots, math.MaxUint32)

	return types.Tick{
		InstrumentID: instrumentID,
		TsEvent:      time.UnixMilli(trade.Timestamp).UnixNano(),
		Price:        price,
		Size:         uint32(lots),
	}, nil
}
