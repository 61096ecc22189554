package mocks

import (
	"cmp"
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/rxtech-lab/horizon-replay/internal/types"
)

// TickGenerator generates synthetic futures trade ticks for tests.
type TickGenerator struct {
	rng *rand.Rand
}

// NewTickGenerator creates a new TickGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewTickGenerator(seed int64) *TickGenerator {
	return &TickGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how ticks of one instrument are generated.
type GeneratorConfig struct {
	// InstrumentID is the contract the ticks are reported under
	InstrumentID uint32
	// StartTime is the time of the first tick
	StartTime time.Time
	// Count is the number of ticks to generate
	Count int
	// MeanSpacing is the average time between two ticks
	MeanSpacing time.Duration
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility is the standard deviation of the relative price change per tick
	Volatility float64
	// Trend is the total drift over the series (-0.01 to 0.01 for bearish to bullish)
	Trend float64
	// MaxSize is the largest trade size in contracts
	MaxSize uint32
}

// DefaultConfig returns a gold front-month session with ticks every ~2 seconds.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		InstrumentID: 1,
		StartTime:    time.Date(2024, 1, 16, 14, 30, 0, 0, time.UTC),
		Count:        5000,
		MeanSpacing:  2 * time.Second,
		InitialPrice: 2050.0,
		Volatility:   0.0002,
		Trend:        0.0,
		MaxSize:      10,
	}
}

// Generate creates ticks following a geometric Brownian motion on a 0.1 price grid,
// with exponentially distributed spacing. Timestamps are strictly increasing.
func (g *TickGenerator) Generate(config GeneratorConfig) []types.Tick {
	ticks := make([]types.Tick, config.Count)
	price := config.InitialPrice
	at := config.StartTime.UnixNano()
	maxSize := max(config.MaxSize, 1)

	for i := range config.Count {
		// Box-Muller transform for a normal variate
		u1 := 1 - g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Count)

		next := price * (1 + config.Volatility*z + drift)
		if next <= 0 {
			next = price * 0.99
		}

		price = next

		ticks[i] = types.Tick{
			InstrumentID: config.InstrumentID,
			TsEvent:      at,
			Price:        types.EncodePrice(roundToDecimals(price, 1)),
			Size:         uint32(g.rng.Intn(int(maxSize))) + 1,
		}

		spacing := int64(g.rng.ExpFloat64() * float64(config.MeanSpacing))
		at += max(spacing, 1)
	}

	return ticks
}

// GenerateContracts generates one series per config and merges them in time
// order, the way a vendor interleaves the contracts behind a parent symbol.
func (g *TickGenerator) GenerateContracts(configs ...GeneratorConfig) []types.Tick {
	var all []types.Tick

	for _, config := range configs {
		all = append(all, g.Generate(config)...)
	}

	slices.SortStableFunc(all, func(a, b types.Tick) int {
		return cmp.Compare(a.TsEvent, b.TsEvent)
	})

	return all
}

// GenerateSession generates a front month and a thinner back month for one
// session, starting at start.
func GenerateSession(seed int64, start time.Time) []types.Tick {
	gen := NewTickGenerator(seed)

	front := DefaultConfig()
	front.StartTime = start

	back := DefaultConfig()
	back.InstrumentID = 2
	back.StartTime = start
	back.Count = front.Count / 10
	back.MeanSpacing = front.MeanSpacing * 10
	back.InitialPrice = front.InitialPrice + 20

	return gen.GenerateContracts(front, back)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
