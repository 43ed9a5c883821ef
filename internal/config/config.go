// Package config loads application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Climate      ClimateConfig      `yaml:"climate" mapstructure:"climate"`
	AlphaVantage AlphaVantageConfig `yaml:"alphavantage" mapstructure:"alphavantage"`
	OpenWeather  OpenWeatherConfig  `yaml:"openweather" mapstructure:"openweather"`
	Anomaly      AnomalyConfig      `yaml:"anomaly" mapstructure:"anomaly"`
	Prices       PricesConfig       `yaml:"prices" mapstructure:"prices"`
	Dashboard    DashboardConfig    `yaml:"dashboard" mapstructure:"dashboard"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ClimateConfig locates the reference weather station and bounds the
// historical sync window.
type ClimateConfig struct {
	Latitude     float64 `yaml:"latitude" mapstructure:"latitude"`
	Longitude    float64 `yaml:"longitude" mapstructure:"longitude"`
	FirstYear    int     `yaml:"first_year" mapstructure:"first_year"`
	ExtremeHeatC float64 `yaml:"extreme_heat_c" mapstructure:"extreme_heat_c"`
}

// AlphaVantageConfig holds the market data API credentials.
type AlphaVantageConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	StartDate string `yaml:"start_date" mapstructure:"start_date"`
}

// OpenWeatherConfig holds the forecast API credentials and the default
// location used by the chatbot when no city is named.
type OpenWeatherConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	DefaultLat  float64 `yaml:"default_lat" mapstructure:"default_lat"`
	DefaultLon  float64 `yaml:"default_lon" mapstructure:"default_lon"`
	DefaultCity string  `yaml:"default_city" mapstructure:"default_city"`
}

// AnomalyConfig exposes the cost anomaly detector knobs.
type AnomalyConfig struct {
	MinSamples int     `yaml:"min_samples" mapstructure:"min_samples"`
	ZScore     float64 `yaml:"z_score" mapstructure:"z_score"`
}

// PricesConfig carries the catalog sale price per crop (BRL/kg), used
// as the potential-revenue fallback when no sale contract exists.
type PricesConfig struct {
	Catalog map[string]float64 `yaml:"catalog" mapstructure:"catalog"`
}

// DashboardConfig configures the dashboard HTTP server.
type DashboardConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from safra-cli.yaml (working directory or
// ~/.config/safra-cli) and SAFRA_* environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("safra-cli")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/safra-cli")

	v.SetEnvPrefix("SAFRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !eris.As(err, &notFound) {
			return nil, eris.Wrap(err, "config: read file")
		}
		// No config file is fine; defaults and env cover everything.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "gestao_agricola.db")

	// Sinop, MT reference station.
	v.SetDefault("climate.latitude", -11.86)
	v.SetDefault("climate.longitude", -55.49)
	v.SetDefault("climate.first_year", 2004)
	v.SetDefault("climate.extreme_heat_c", 32.0)

	v.SetDefault("alphavantage.base_url", "https://www.alphavantage.co")
	v.SetDefault("alphavantage.start_date", "2017-01-01")

	v.SetDefault("openweather.base_url", "https://api.openweathermap.org")
	v.SetDefault("openweather.default_lat", -13.05)
	v.SetDefault("openweather.default_lon", -55.9)
	v.SetDefault("openweather.default_city", "Lucas do Rio Verde, BR")

	v.SetDefault("anomaly.min_samples", 5)
	v.SetDefault("anomaly.z_score", 2.0)

	v.SetDefault("prices.catalog", map[string]float64{
		"Soja":    1.10,
		"Milho":   0.85,
		"Algodão": 8.50,
	})

	v.SetDefault("dashboard.addr", ":8050")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
