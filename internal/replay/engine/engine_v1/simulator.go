package engine

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/horizon-replay/internal/types"
)

// pnlPrecision is the number of decimals kept for P&L and excursions.
const pnlPrecision int32 = 2

type simulationState int

const (
	stateArmed simulationState = iota
	stateActive
	stateClosed
)

// tradeSide folds the long and short code paths into one. Every comparison is
// expressed as sign * (a - b) >= 0, which reads "a is at or beyond b in the
// profit direction".
type tradeSide struct {
	sign float64
}

func newTradeSide(direction types.Direction) tradeSide {
	return tradeSide{sign: direction.Sign()}
}

// favorableExtreme is the bar price furthest in the profit direction.
func (s tradeSide) favorableExtreme(bar types.Bar) float64 {
	if s.sign > 0 {
		return bar.High
	}

	return bar.Low
}

// adverseExtreme is the bar price furthest against the trade.
func (s tradeSide) adverseExtreme(bar types.Bar) float64 {
	if s.sign > 0 {
		return bar.Low
	}

	return bar.High
}

// atOrBeyond reports whether price has reached level in the profit direction.
func (s tradeSide) atOrBeyond(price float64, level float64) bool {
	return s.sign*(price-level) >= 0
}

// profit is the signed distance from entry to price in points.
func (s tradeSide) profit(entry float64, price float64) float64 {
	return s.sign * (price - entry)
}

// simulation holds the per-replay state of the trade state machine.
type simulation struct {
	intent types.TradeIntent
	side   tradeSide
	state  simulationState

	entryTime time.Time

	maxFavorable float64
	mfePrice     optional.Option[float64]
	maxAdverse   float64
	maePrice     optional.Option[float64]
	maeTime      optional.Option[time.Time]

	targetTimes [types.MaxTargets]optional.Option[time.Time]

	exitReason optional.Option[types.ExitReason]
	exitPrice  optional.Option[float64]
	exitTime   optional.Option[time.Time]

	profitSeconds int64
}

// Simulate walks the bars in order and produces the metrics of the trade intent.
//
// The entry activates on the first bar whose range contains the entry price. The
// bar that activates the entry is consumed by the activation; excursions and
// exits are evaluated from the next bar on. Within a bar the stop is checked before
// the targets, so a bar touching both closes the trade at the stop. A trade still
// open after the last bar is closed at that bar's close.
func Simulate(intent types.TradeIntent, bars []types.Bar) (types.MetricsRecord, error) {
	if err := intent.Validate(); err != nil {
		return types.MetricsRecord{}, err
	}

	sim := &simulation{
		intent: intent,
		side:   newTradeSide(intent.Direction),
		state:  stateArmed,
	}

	for _, bar := range bars {
		switch sim.state {
		case stateArmed:
			sim.arm(bar)
		case stateActive:
			sim.step(bar)
		case stateClosed:
		}

		if sim.state == stateClosed {
			break
		}
	}

	if sim.state == stateActive {
		last := bars[len(bars)-1]
		sim.close(types.ExitReasonClose, last.Close, last.MinuteStart)
	}

	return sim.record(len(bars)), nil
}

// arm activates the trade when the bar traded at the entry price. A bar that
// stays entirely on one side of the entry does not fill it, whatever the direction.
func (s *simulation) arm(bar types.Bar) {
	if bar.Low <= s.intent.EntryPrice && s.intent.EntryPrice <= bar.High {
		s.state = stateActive
		s.entryTime = bar.MinuteStart
	}
}

// step processes one bar of an active trade.
func (s *simulation) step(bar types.Bar) {
	entry := s.intent.EntryPrice

	favorable := s.side.favorableExtreme(bar)
	if excursion := s.side.profit(entry, favorable); excursion > s.maxFavorable {
		s.maxFavorable = excursion
		s.mfePrice = optional.Some(favorable)
	}

	adverse := s.side.adverseExtreme(bar)
	if excursion := -s.side.profit(entry, adverse); excursion > s.maxAdverse {
		s.maxAdverse = excursion
		s.maePrice = optional.Some(adverse)
		s.maeTime = optional.Some(bar.MinuteStart)
	}

	stopped := s.side.atOrBeyond(s.intent.StopPrice, adverse)
	if stopped {
		s.close(types.ExitReasonStop, s.intent.StopPrice, bar.MinuteStart)
	}

	for k := range s.targetTimes {
		target, ok := s.intent.Target(k)
		if !ok || s.targetTimes[k].IsSome() || !s.side.atOrBeyond(favorable, target) {
			continue
		}

		s.targetTimes[k] = optional.Some(bar.MinuteStart)

		if k == types.MaxTargets-1 && !stopped {
			s.close(types.ExitReasonT3, target, bar.MinuteStart)
		}
	}

	if s.side.profit(entry, bar.Close) > 0 {
		s.profitSeconds += int64(bar.Span() / time.Second)
	}
}

func (s *simulation) close(reason types.ExitReason, price float64, at time.Time) {
	s.state = stateClosed
	s.exitReason = optional.Some(reason)
	s.exitPrice = optional.Some(price)
	s.exitTime = optional.Some(at)
}

func (s *simulation) record(barsAnalyzed int) types.MetricsRecord {
	record := types.MetricsRecord{
		BarsAnalyzed: barsAnalyzed,
	}

	if s.state == stateArmed {
		return record
	}

	exitPrice := s.exitPrice.Unwrap()

	record.EntryTriggered = true
	record.EntryTime = optional.Some(s.entryTime)
	record.ExitReason = s.exitReason
	record.ExitPrice = s.exitPrice
	record.ExitTime = s.exitTime
	record.PnLPoints = roundPoints(s.side.profit(s.intent.EntryPrice, exitPrice))

	record.ActualMFE = roundPoints(s.maxFavorable)
	record.MFEPrice = s.mfePrice
	record.ActualMAE = roundPoints(s.maxAdverse)
	record.MAEPrice = s.maePrice
	record.TimeToMAESecs = s.secondsSinceEntry(s.maeTime)

	record.TimeInTradeSecs = s.secondsSinceEntry(s.exitTime)
	record.TimeInProfitSecs = optional.Some(s.profitSeconds)

	record.T1Hit = s.targetTimes[0].IsSome()
	record.T2Hit = s.targetTimes[1].IsSome()
	record.T3Hit = s.targetTimes[2].IsSome()
	record.TimeToT1Secs = s.secondsSinceEntry(s.targetTimes[0])
	record.TimeToT2Secs = s.secondsSinceEntry(s.targetTimes[1])
	record.TimeToT3Secs = s.secondsSinceEntry(s.targetTimes[2])

	return record
}

// secondsSinceEntry is the whole seconds between the entry bar and at, or None when at is absent.
func (s *simulation) secondsSinceEntry(at optional.Option[time.Time]) optional.Option[int64] {
	return optional.Map(at, func(t time.Time) int64 {
		return int64(t.Sub(s.entryTime) / time.Second)
	})
}

func roundPoints(points float64) float64 {
	return decimal.NewFromFloat(points).Round(pnlPrecision).InexactFloat64()
}
