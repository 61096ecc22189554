package types

import "time"

// BarInterval is the resolution of every bar produced by the aggregator.
const BarInterval = time.Minute

// MaxBarsPerReplay bounds the bar sequence of a single replay (48 hours of minutes).
const MaxBarsPerReplay = 48 * 60

// Bar is a one-minute OHLCV summary of the front-month trades.
type Bar struct {
	// MinuteStart is the UTC minute boundary the bar covers.
	MinuteStart time.Time `json:"minute_start" csv:"minute_start"`
	Open        float64   `json:"open" csv:"open"`
	High        float64   `json:"high" csv:"high"`
	Low         float64   `json:"low" csv:"low"`
	Close       float64   `json:"close" csv:"close"`
	// Volume is the sum of trade sizes.
	Volume      uint64    `json:"volume" csv:"volume"`
	// TradeCount is the number of trades folded into the bar.
	TradeCount  uint64    `json:"trade_count" csv:"trade_count"`
}

// Span returns the wall-clock duration the bar covers.
func (b Bar) Span() time.Duration {
	return BarInterval
}
