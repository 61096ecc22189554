package engine

import (
	"context"

	"github.com/rxtech-lab/horizon-replay/internal/timeutil"
	"github.com/rxtech-lab/horizon-replay/internal/types"
)

// Lifecycle callback types for replay phases. They are side-channel only and
// cannot change the outcome of a replay.

// OnTicksFetchedCallback is called once the tick window has been buffered.
type OnTicksFetchedCallback func(runID string, ticks int)

// OnFrontMonthResolvedCallback is called with the chosen instrument and the
// trade count of every instrument seen in the window.
type OnFrontMonthResolvedCallback func(runID string, instrumentID uint32, tradeCounts map[uint32]int)

// OnBarsAggregatedCallback is called with the bar sequence fed to the simulator.
type OnBarsAggregatedCallback func(runID string, bars []types.Bar)

// LifecycleCallbacks holds all lifecycle callback functions for the replay engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnTicksFetched       *OnTicksFetchedCallback
	OnFrontMonthResolved *OnFrontMonthResolvedCallback
	OnBarsAggregated     *OnBarsAggregatedCallback
}

// ReplayRequest is the inbound replay call.
type ReplayRequest struct {
	// Symbol is the parent futures symbol, e.g. GC.FUT.
	Symbol string `json:"symbol" yaml:"symbol" jsonschema:"title=Symbol,description=Parent futures symbol such as GC.FUT,required" validate:"required"`
	// EntryDate is the ET calendar date of the entry, YYYY-MM-DD.
	EntryDate string `json:"entry_date" yaml:"entry_date" jsonschema:"title=Entry Date,description=Entry date in America/New_York,format=date,required" validate:"required"`
	// EntryTime is the ET wall-clock time of the entry, HH:MM.
	EntryTime string `json:"entry_time" yaml:"entry_time" jsonschema:"title=Entry Time,description=Entry time HH:MM in America/New_York,pattern=^[0-2][0-9]:[0-5][0-9]$,required" validate:"required"`

	types.TradeIntent `yaml:",inline"`
}

// Result is the full outcome of a replay: the metrics record and the data it was derived from.
type Result struct {
	RunID             string
	Window            timeutil.Window
	FrontInstrumentID uint32
	TickCount         int
	Bars              []types.Bar
	Metrics           types.MetricsRecord
}

// ReplayEngine replays a recorded trade intent against historical ticks.
type ReplayEngine interface {
	// Replay runs a replay and returns only the metrics record.
	// Either a complete record or an error is returned, never a partial record.
	Replay(ctx context.Context, request ReplayRequest) (types.MetricsRecord, error)
	// Run runs a replay and returns the metrics together with the bars and window used.
	Run(ctx context.Context, request ReplayRequest, callbacks LifecycleCallbacks) (Result, error)
}
