package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceScale is the fixed-point scale of Tick.Price: one instrument point is 10^9 units.
const PriceScale int64 = 1_000_000_000

// priceExponent is the decimal exponent matching PriceScale.
const priceExponent int32 = 9

// Tick is a single trade print as delivered by a tick vendor.
type Tick struct {
	// InstrumentID identifies the concrete contract (e.g. one GC expiry) that traded.
	InstrumentID uint32 `json:"instrument_id" csv:"instrument_id"`
	// TsEvent is the exchange event time in nanoseconds since the Unix epoch, UTC.
	TsEvent      int64  `json:"ts_event" csv:"ts_event"`
	// Price is the trade price scaled by PriceScale.
	Price        int64  `json:"price" csv:"price"`
	// Size is the traded quantity in contracts.
	Size         uint32 `json:"size" csv:"size"`
}

// Time returns the event timestamp as a UTC time.
func (t Tick) Time() time.Time {
	return time.Unix(0, t.TsEvent).UTC()
}

// PricePoints decodes the fixed-point price into instrument points.
func (t Tick) PricePoints() float64 {
	return float64(t.Price) / float64(PriceScale)
}

// EncodePrice converts a price in points to the fixed-point representation used by Tick.
func EncodePrice(points float64) int64 {
	return decimal.NewFromFloat(points).Shift(priceExponent).Round(0).IntPart()
}

// EncodePriceString converts a decimal price string (as sent by exchanges) to fixed point.
func EncodePriceString(points string) (int64, error) {
	d, err := decimal.NewFromString(points)
	if err != nil {
		return 0, err
	}

	return d.Shift(priceExponent).Round(0).IntPart(), nil
}
