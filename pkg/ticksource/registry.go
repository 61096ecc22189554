package ticksource

import (
	"maps"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/horizon-replay/internal/logger"
	"github.com/rxtech-lab/horizon-replay/pkg/errors"
	"github.com/shopspring/decimal"
)

// ProviderType defines the tick vendor behind a TickSource.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
	ProviderDuckDB  ProviderType = "duckdb"
)

// ProviderInfo contains metadata about a tick provider.
type ProviderInfo struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	RequiresAuth bool   `json:"requiresAuth"`
}

// providerRegistry holds metadata about all supported providers.
var providerRegistry = map[ProviderType]ProviderInfo{
	ProviderPolygon: {
		Name:         string(ProviderPolygon),
		DisplayName:  "Polygon.io",
		Description:  "Historical trade ticks for every contract behind a futures root",
		RequiresAuth: true,
	},
	ProviderBinance: {
		Name:         string(ProviderBinance),
		DisplayName:  "Binance USD-M Futures",
		Description:  "Aggregate trades of gold perpetual contracts such as XAUUSDT",
		RequiresAuth: false,
	},
	ProviderDuckDB: {
		Name:         string(ProviderDuckDB),
		DisplayName:  "Recorded ticks",
		Description:  "Ticks previously recorded to a Parquet file, queried with DuckDB",
		RequiresAuth: false,
	},
}

// SourceConfig selects and configures a tick source.
type SourceConfig struct {
	ProviderType     ProviderType `validate:"required,oneof=polygon binance duckdb"`
	PolygonApiKey    string
	BinanceApiKey    string
	BinanceSecretKey string
	// BinanceLotSize is the quantity one contract of Size represents, e.g. "0.01".
	BinanceLotSize string `validate:"omitempty,numeric"`
	// DataPath is the Parquet file read by the duckdb provider.
	DataPath string `validate:"required_if=ProviderType duckdb"`
	// Contracts maps a parent symbol to the contract tickers it covers.
	Contracts map[string][]string
}

// GetSupportedProviders returns the names of all supported providers in sorted order.
func GetSupportedProviders() []string {
	providers := make([]string, 0, len(providerRegistry))
	for _, providerType := range slices.Sorted(maps.Keys(providerRegistry)) {
		providers = append(providers, string(providerType))
	}

	return providers
}

// GetProviderInfo returns metadata for a specific provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}

	return info, nil
}

// NewTickSource creates the tick source described by config.
// A missing vendor credential is not an error here; the source reports
// AuthMissing on its first fetch.
func NewTickSource(config SourceConfig, log *logger.Logger) (TickSource, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid tick source configuration", err)
	}

	switch config.ProviderType {
	case ProviderPolygon:
		return NewPolygonTickSource(config.PolygonApiKey, config.Contracts, log), nil
	case ProviderBinance:
		lotSize := decimal.NewFromInt(1)

		if config.BinanceLotSize != "" {
			parsed, err := decimal.NewFromString(config.BinanceLotSize)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid binance lot size %q", config.BinanceLotSize)
			}

			lotSize = parsed
		}

		source, err := NewBinanceTickSource(config.BinanceApiKey, config.BinanceSecretKey, lotSize, config.Contracts, log)
		if err != nil {
			return nil, err
		}

		return source, nil
	case ProviderDuckDB:
		source, err := NewDuckDBTickSource(config.DataPath, log)
		if err != nil {
			return nil, err
		}

		return source, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported tick provider: %s", config.ProviderType)
	}
}
