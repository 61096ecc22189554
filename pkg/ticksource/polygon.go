package ticksource

import (
	"context"
	"iter"
	"math"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"go.uber.org/zap"

	"github.com/rxtech-lab/horizon-replay/internal/logger"
	"github.com/rxtech-lab/horizon-replay/internal/types"
	"github.com/rxtech-lab/horizon-replay/pkg/errors"
)

// polygonPageLimit is the largest page the trades endpoint serves.
const polygonPageLimit = 50000

// PolygonTradesIterator abstracts the paginated trades iterator of the Polygon client.
type PolygonTradesIterator interface {
	Next() bool
	Item() models.Trade
	Err() error
}

// PolygonAPIClient abstracts the subset of the Polygon REST client used here.
type PolygonAPIClient interface {
	ListTrades(ctx context.Context, params *models.ListTradesParams, options ...models.RequestOption) PolygonTradesIterator
}

// polygonAPIAdapter adapts *polygon.Client to PolygonAPIClient.
type polygonAPIAdapter struct {
	client *polygon.Client
}

func (a *polygonAPIAdapter) ListTrades(ctx context.Context, params *models.ListTradesParams, options ...models.RequestOption) PolygonTradesIterator {
	return a.client.ListTrades(ctx, params, options...)
}

// PolygonTickSource reads historical trades from Polygon.io. A parent symbol is
// expanded into its configured contract tickers; the n-th contract is reported
// as InstrumentID n (1-based).
type PolygonTickSource struct {
	apiClient PolygonAPIClient
	contracts map[string][]string
	logger    *logger.Logger
}

// NewPolygonTickSource creates a Polygon tick source. An empty apiKey is accepted;
// every fetch then fails with AuthMissing.
func NewPolygonTickSource(apiKey string, contracts map[string][]string, log *logger.Logger) *PolygonTickSource {
	var apiClient PolygonAPIClient
	if apiKey != "" {
		apiClient = &polygonAPIAdapter{client: polygon.New(apiKey)}
	}

	return NewPolygonTickSourceWithAPI(apiClient, contracts, log)
}

// NewPolygonTickSourceWithAPI creates a Polygon tick source backed by a custom API client.
func NewPolygonTickSourceWithAPI(apiClient PolygonAPIClient, contracts map[string][]string, log *logger.Logger) *PolygonTickSource {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &PolygonTickSource{
		apiClient: apiClient,
		contracts: contracts,
		logger:    log,
	}
}

// Fetch implements TickSource.
func (p *PolygonTickSource) Fetch(ctx context.Context, symbol string, start time.Time, end time.Time) iter.Seq2[types.Tick, error] {
	return func(yield func(types.Tick, error) bool) {
		if err := validateFetch(symbol, start, end); err != nil {
			yield(types.Tick{}, err)

			return
		}

		if p.apiClient == nil {
			yield(types.Tick{}, errors.New(errors.ErrCodeAuthMissing, "polygon api key is not configured"))

			return
		}

		produced := 0

		for index, ticker := range contractsFor(p.contracts, symbol) {
			instrumentID := uint32(index + 1)

			//nolint:exhaustruct // third-party struct with many optional fields
			params := models.ListTradesParams{Ticker: ticker}.
				WithTimestamp(models.GTE, models.Nanos(start)).
				WithTimestamp(models.LT, models.Nanos(end)).
				WithOrder(models.Asc).
				WithLimit(polygonPageLimit)

			trades := p.apiClient.ListTrades(ctx, params)
			count := 0

			for trades.Next() {
				tick, ok := polygonTradeToTick(instrumentID, trades.Item())
				if !ok {
					continue
				}

				count++

				if !yield(tick, nil) {
					return
				}
			}

			if err := trades.Err(); err != nil {
				yield(types.Tick{}, upstreamError(ctx, err, "failed to list polygon trades for %s", ticker))

				return
			}

			if err := ctx.Err(); err != nil {
				yield(types.Tick{}, upstreamError(ctx, err, "polygon fetch for %s interrupted", ticker))

				return
			}

			p.logger.Debug("Fetched polygon trades",
				zap.String("symbol", symbol),
				zap.String("contract", ticker),
				zap.Uint32("instrument_id", instrumentID),
				zap.Int("ticks", count))

			produced += count
		}

		if produced == 0 {
			yield(types.Tick{}, emptyWindow(symbol, start, end))
		}
	}
}

// polygonTradeToTick converts a Polygon trade. Trades without a positive size are dropped.
func polygonTradeToTick(instrumentID uint32, trade models.Trade) (types.Tick, bool) {
	size := math.Round(trade.Size)
	if size < 1 || size > math.MaxUint32 {
		return types.Tick{}, false
	}

	timestamp := time.Time(trade.SipTimestamp)
	if timestamp.IsZero() {
		timestamp = time.Time(trade.ParticipantTimestamp)
	}

	return types.Tick{
		InstrumentID: instrumentID,
		TsEvent:      timestamp.UnixNano(),
		Price:        types.EncodePrice(trade.Price),
		Size:         uint32(size),
	}, true
}
