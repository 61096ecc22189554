package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// ExitReason describes why a replayed trade was closed.
type ExitReason string

const (
	// ExitReasonStop means the stop price was touched.
	ExitReasonStop ExitReason = "stop"
	// ExitReasonT3 means the final target was reached without a stop in the same bar.
	ExitReasonT3 ExitReason = "t3"
	// ExitReasonClose means the bar sequence ended with the trade still open.
	ExitReasonClose ExitReason = "close"
)

// MetricsRecord is the outcome of one replay. Fields that may be absent are
// optional and serialise to null. The engine never modifies a record after
// returning it.
type MetricsRecord struct {
	EntryTriggered bool                        `json:"entry_triggered"`
	EntryTime      optional.Option[time.Time]  `json:"entry_time"`
	ExitReason     optional.Option[ExitReason] `json:"exit_reason"`
	ExitPrice      optional.Option[float64]    `json:"exit_price"`
	ExitTime       optional.Option[time.Time]  `json:"exit_time"`
	PnLPoints      float64                     `json:"pnl_points"`

	ActualMFE     float64                  `json:"actual_mfe"`
	MFEPrice      optional.Option[float64] `json:"mfe_price"`
	ActualMAE     float64                  `json:"actual_mae"`
	MAEPrice      optional.Option[float64] `json:"mae_price"`
	TimeToMAESecs optional.Option[int64]   `json:"time_to_mae_secs"`

	TimeInTradeSecs  optional.Option[int64] `json:"time_in_trade_secs"`
	TimeInProfitSecs optional.Option[int64] `json:"time_in_profit_secs"`

	TimeToT1Secs optional.Option[int64] `json:"time_to_t1_secs"`
	TimeToT2Secs optional.Option[int64] `json:"time_to_t2_secs"`
	TimeToT3Secs optional.Option[int64] `json:"time_to_t3_secs"`
	T1Hit        bool                   `json:"t1_hit"`
	T2Hit        bool                   `json:"t2_hit"`
	T3Hit        bool                   `json:"t3_hit"`

	BarsAnalyzed int `json:"bars_analyzed"`
}

// TargetHit reports whether target k (0-based) was reached.
func (m MetricsRecord) TargetHit(k int) bool {
	switch k {
	case 0:
		return m.T1Hit
	case 1:
		return m.T2Hit
	case 2:
		return m.T3Hit
	default:
		return false
	}
}

// AsMap flattens the record into plain values, with nil for absent fields.
// It backs the YAML output and the Parquet export, which cannot serialise options directly.
func (m MetricsRecord) AsMap() map[string]any {
	return map[string]any{
		"entry_triggered":     m.EntryTriggered,
		"entry_time":          optionValue(m.EntryTime),
		"exit_reason":         optionValue(m.ExitReason),
		"exit_price":          optionValue(m.ExitPrice),
		"exit_time":           optionValue(m.ExitTime),
		"pnl_points":          m.PnLPoints,
		"actual_mfe":          m.ActualMFE,
		"mfe_price":           optionValue(m.MFEPrice),
		"actual_mae":          m.ActualMAE,
		"mae_price":           optionValue(m.MAEPrice),
		"time_to_mae_secs":    optionValue(m.TimeToMAESecs),
		"time_in_trade_secs":  optionValue(m.TimeInTradeSecs),
		"time_in_profit_secs": optionValue(m.TimeInProfitSecs),
		"time_to_t1_secs":     optionValue(m.TimeToT1Secs),
		"time_to_t2_secs":     optionValue(m.TimeToT2Secs),
		"time_to_t3_secs":     optionValue(m.TimeToT3Secs),
		"t1_hit":              m.T1Hit,
		"t2_hit":              m.T2Hit,
		"t3_hit":              m.T3Hit,
		"bars_analyzed":       m.BarsAnalyzed,
	}
}

func optionValue[T any](o optional.Option[T]) any {
	if o.IsNone() {
		return nil
	}

	return o.Unwrap()
}
