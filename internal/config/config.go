// Package config loads the service configuration from the environment.
package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/rxtech-lab/horizon-replay/pkg/errors"
	"github.com/rxtech-lab/horizon-replay/pkg/ticksource"
)

type Config struct {
	TickVendor       string   `env:"HORIZON_TICK_VENDOR" envDefault:"polygon" validate:"required,oneof=polygon binance duckdb"`
	PolygonApiKey    string   `env:"POLYGON_API_KEY"`
	BinanceApiKey    string   `env:"BINANCE_API_KEY"`
	BinanceSecretKey string   `env:"BINANCE_SECRET_KEY"`
	BinanceLotSize   string   `env:"HORIZON_BINANCE_LOT_SIZE" envDefault:"1" validate:"omitempty,numeric"`
	TickDataPath     string   `env:"HORIZON_TICK_DATA" validate:"required_if=TickVendor duckdb"`
	ParentSymbol     string   `env:"HORIZON_PARENT_SYMBOL" envDefault:"GC.FUT" validate:"required"`
	Contracts        []string `env:"HORIZON_CONTRACTS" envSeparator:","`
	LogLevel         string   `env:"HORIZON_LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFormat        string   `env:"HORIZON_LOG_FORMAT" envDefault:"json" validate:"oneof=json console"`
	ListenAddr       string   `env:"HORIZON_LISTEN_ADDR" envDefault:":8080" validate:"required"`
	ExportDir        string   `env:"HORIZON_EXPORT_DIR"`
}

// Load reads the configuration from the environment. Variables from a .env file
// in the working directory are applied first when the file exists; variables
// already set in the environment win.
func Load() (Config, error) {
	_ = godotenv.Load()

	return Parse()
}

// Parse reads and validates the configuration from the current environment only.
func Parse() (Config, error) {
	return ParseEnvironment(nil)
}

// ParseEnvironment reads the configuration from environ, or from the process
// environment when environ is nil.
func ParseEnvironment(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse environment", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the struct tags of the configuration.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	return nil
}

// ToSourceConfig converts the configuration into the tick source factory input.
// Without explicit contracts the parent symbol is queried as is.
func (c Config) ToSourceConfig() ticksource.SourceConfig {
	var contracts map[string][]string
	if len(c.Contracts) > 0 {
		contracts = map[string][]string{c.ParentSymbol: c.Contracts}
	}

	return ticksource.SourceConfig{
		ProviderType:     ticksource.ProviderType(c.TickVendor),
		PolygonApiKey:    c.PolygonApiKey,
		BinanceApiKey:    c.BinanceApiKey,
		BinanceSecretKey: c.BinanceSecretKey,
		BinanceLotSize:   c.BinanceLotSize,
		DataPath:         c.TickDataPath,
		Contracts:        contracts,
	}
}
