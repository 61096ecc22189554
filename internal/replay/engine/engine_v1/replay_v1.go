package engine

import (
	"context"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rxtech-lab/horizon-replay/internal/logger"
	"github.com/rxtech-lab/horizon-replay/internal/replay/engine"
	"github.com/rxtech-lab/horizon-replay/internal/timeutil"
	"github.com/rxtech-lab/horizon-replay/internal/types"
	"github.com/rxtech-lab/horizon-replay/pkg/errors"
	"github.com/rxtech-lab/horizon-replay/pkg/ticksource"
)

// ReplayEngineV1 buffers the tick window of a request, resolves the front month,
// builds one-minute bars and simulates the trade on them. It keeps no state
// between calls, so one engine may serve concurrent replays.
type ReplayEngineV1 struct {
	source   ticksource.TickSource
	log      *logger.Logger
	validate *validator.Validate
}

// NewReplayEngineV1 creates a replay engine reading ticks from source.
func NewReplayEngineV1(source ticksource.TickSource, log *logger.Logger) engine.ReplayEngine {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &ReplayEngineV1{
		source:   source,
		log:      log,
		validate: validator.New(),
	}
}

// Replay implements engine.ReplayEngine.
func (r *ReplayEngineV1) Replay(ctx context.Context, request engine.ReplayRequest) (types.MetricsRecord, error) {
	result, err := r.Run(ctx, request, engine.LifecycleCallbacks{})
	if err != nil {
		return types.MetricsRecord{}, err
	}

	return result.Metrics, nil
}

// Run implements engine.ReplayEngine.
func (r *ReplayEngineV1) Run(ctx context.Context, request engine.ReplayRequest, callbacks engine.LifecycleCallbacks) (engine.Result, error) {
	if err := r.validate.StructExcept(request, "TradeIntent"); err != nil {
		return engine.Result{}, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid replay request", err)
	}

	if err := request.TradeIntent.Validate(); err != nil {
		return engine.Result{}, err
	}

	window, err := timeutil.EntryWindow(request.EntryDate, request.EntryTime)
	if err != nil {
		return engine.Result{}, err
	}

	if err := window.Validate(); err != nil {
		return engine.Result{}, err
	}

	if r.source == nil {
		return engine.Result{}, errors.New(errors.ErrCodeAuthMissing, "no tick source configured")
	}

	runID := uuid.New().String()
	log := r.log.ForRun(runID, request.Symbol).With(
		zap.Time("window_start", window.Start),
		zap.Time("window_end", window.End),
	)

	started := time.Now()

	ticks, err := ticksource.Collect(r.source.Fetch(ctx, request.Symbol, window.Start, window.End))
	if err != nil {
		log.Warn("Tick fetch failed", zap.Error(err))

		return engine.Result{}, classifyFetchError(err)
	}

	if len(ticks) == 0 {
		return engine.Result{}, errors.Newf(errors.ErrCodeEmptyWindow, "no ticks for %s in replay window", request.Symbol)
	}

	if callbacks.OnTicksFetched != nil {
		(*callbacks.OnTicksFetched)(runID, len(ticks))
	}

	tradeCounts := CountTrades(slices.Values(ticks))

	frontID, err := frontMonthFromCounts(tradeCounts)
	if err != nil {
		return engine.Result{}, err
	}

	log.Debug("Resolved front month",
		zap.Int("ticks", len(ticks)),
		zap.Int("instruments", len(tradeCounts)),
		zap.Uint32("front_instrument_id", frontID),
		zap.Int("front_trades", tradeCounts[frontID]))

	if callbacks.OnFrontMonthResolved != nil {
		(*callbacks.OnFrontMonthResolved)(runID, frontID, tradeCounts)
	}

	bars, err := AggregateBars(slices.Values(ticks), frontID)
	if err != nil {
		return engine.Result{}, err
	}

	if callbacks.OnBarsAggregated != nil {
		(*callbacks.OnBarsAggregated)(runID, bars)
	}

	metrics, err := Simulate(request.TradeIntent, bars)
	if err != nil {
		return engine.Result{}, err
	}

	log.Info("Replay completed",
		zap.Int("ticks", len(ticks)),
		zap.Int("bars", len(bars)),
		zap.Bool("entry_triggered", metrics.EntryTriggered),
		zap.String("exit_reason", string(metrics.ExitReason.TakeOr(""))),
		zap.Float64("pnl_points", metrics.PnLPoints),
		zap.Duration("elapsed", time.Since(started)))

	return engine.Result{
		RunID:             runID,
		Window:            window,
		FrontInstrumentID: frontID,
		TickCount:         len(ticks),
		Bars:              bars,
		Metrics:           metrics,
	}, nil
}

// classifyFetchError keeps coded source errors and reports anything else as
// UpstreamUnavailable, since the failure happened on the far side of the source.
func classifyFetchError(err error) error {
	if errors.GetCode(err) != errors.ErrCodeUnknown {
		return err
	}

	return errors.Wrap(errors.ErrCodeUpstreamUnavailable, "tick source failed", err)
}
