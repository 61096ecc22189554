package config

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/horizon-replay/pkg/errors"
	"github.com/rxtech-lab/horizon-replay/pkg/ticksource"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestDefaults() {
	cfg, err := ParseEnvironment(map[string]string{})
	suite.Require().NoError(err)

	suite.Equal("polygon", cfg.TickVendor)
	suite.Equal("GC.FUT", cfg.ParentSymbol)
	suite.Equal("info", cfg.LogLevel)
	suite.Equal("json", cfg.LogFormat)
	suite.Equal(":8080", cfg.ListenAddr)
	suite.Equal("1", cfg.BinanceLotSize)
	suite.Empty(cfg.PolygonApiKey)
	suite.Empty(cfg.ExportDir)
}

func (suite *ConfigTestSuite) TestMissingApiKeyIsNotAConfigError() {
	_, err := ParseEnvironment(map[string]string{"HORIZON_TICK_VENDOR": "polygon"})
	suite.NoError(err)
}

func (suite *ConfigTestSuite) TestFullEnvironment() {
	cfg, err := ParseEnvironment(map[string]string{
		"HORIZON_TICK_VENDOR":      "binance",
		"BINANCE_API_KEY":          "key",
		"BINANCE_SECRET_KEY":       "secret",
		"HORIZON_BINANCE_LOT_SIZE": "0.01",
		"HORIZON_PARENT_SYMBOL":    "XAUUSDT",
		"HORIZON_CONTRACTS":        "XAUUSDT",
		"HORIZON_LOG_LEVEL":        "debug",
		"HORIZON_LOG_FORMAT":       "console",
		"HORIZON_LISTEN_ADDR":      "127.0.0.1:9000",
		"HORIZON_EXPORT_DIR":       "/tmp/replays",
	})
	suite.Require().NoError(err)

	suite.Equal("binance", cfg.TickVendor)
	suite.Equal("0.01", cfg.BinanceLotSize)
	suite.Equal([]string{"XAUUSDT"}, cfg.Contracts)
	suite.Equal("debug", cfg.LogLevel)
	suite.Equal("console", cfg.LogFormat)
	suite.Equal("/tmp/replays", cfg.ExportDir)
}

func (suite *ConfigTestSuite) TestInvalidValues() {
	tests := []struct {
		name    string
		environ map[string]string
	}{
		{name: "unknown vendor", environ: map[string]string{"HORIZON_TICK_VENDOR": "databento"}},
		{name: "duckdb without data path", environ: map[string]string{"HORIZON_TICK_VENDOR": "duckdb"}},
		{name: "unknown log level", environ: map[string]string{"HORIZON_LOG_LEVEL": "verbose"}},
		{name: "unknown log format", environ: map[string]string{"HORIZON_LOG_FORMAT": "xml"}},
		{name: "non numeric lot size", environ: map[string]string{"HORIZON_BINANCE_LOT_SIZE": "one"}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := ParseEnvironment(tt.environ)
			suite.Error(err)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
		})
	}
}

func (suite *ConfigTestSuite) TestToSourceConfig() {
	cfg, err := ParseEnvironment(map[string]string{
		"POLYGON_API_KEY":   "pk",
		"HORIZON_CONTRACTS": "GCG4,GCJ4",
	})
	suite.Require().NoError(err)

	source := cfg.ToSourceConfig()
	suite.Equal(ticksource.ProviderPolygon, source.ProviderType)
	suite.Equal("pk", source.PolygonApiKey)
	suite.Equal(map[string][]string{"GC.FUT": {"GCG4", "GCJ4"}}, source.Contracts)
}

func (suite *ConfigTestSuite) TestToSourceConfigWithoutContracts() {
	cfg, err := ParseEnvironment(map[string]string{
		"HORIZON_TICK_VENDOR": "duckdb",
		"HORIZON_TICK_DATA":   "/data/ticks.parquet",
	})
	suite.Require().NoError(err)

	source := cfg.ToSourceConfig()
	suite.Nil(source.Contracts)
	suite.Equal("/data/ticks.parquet", source.DataPath)
}
