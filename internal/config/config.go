package config

import (
	"sync/atomic"
)

const (
	SourceTypeMock       = "mock"
	SourceTypeOpenMeteo  = "open-meteo"
	SourceTypeWeatherAPI = "weather-api"
)

var configValue atomic.Value

func GetConfig() *Config {
	cfg, _ := configValue.Load().(*Config)
	if cfg == nil {
		return NewDefaultConfig()
	}
	return cfg
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string          `mapstructure:"version"`
	Environment string          `mapstructure:"environment" validate:"required"`
	Server      ServerConfig    `mapstructure:"server"`
	Forecast    ForecastConfig  `mapstructure:"forecast"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port" validate:"min=1,max=65535"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout" validate:"min=0"`
	WriteTimeout int    `mapstructure:"write_timeout" validate:"min=0"`
	IdleTimeout  int    `mapstructure:"idle_timeout" validate:"min=0"`
}

// ForecastConfig lists the data sources the forecaster can serve from.
// Timeout is in seconds and bounds a single outbound request.
type ForecastConfig struct {
	DefaultSource string                  `mapstructure:"default_source" validate:"required"`
	Timeout       int                     `mapstructure:"timeout" validate:"min=1"`
	Sources       map[string]SourceConfig `mapstructure:"sources" validate:"required,dive"`
}

type SourceConfig struct {
	Type            string  `mapstructure:"type" validate:"required,oneof=mock open-meteo weather-api"`
	Enabled         bool    `mapstructure:"enabled"`
	BaseURL         string  `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey          string  `mapstructure:"api_key"`
	Latitude        float64 `mapstructure:"latitude" validate:"latitude"`
	Longitude       float64 `mapstructure:"longitude" validate:"longitude"`
	TemperatureUnit string  `mapstructure:"temperature_unit" validate:"omitempty,oneof=fahrenheit celsius"`
	Timezone        string  `mapstructure:"timezone"`
	ForecastDays    int     `mapstructure:"forecast_days" validate:"omitempty,min=1,max=16"`
	// RateLimit is requests per second; zero disables throttling.
	RateLimit float64 `mapstructure:"rate_limit" validate:"min=0"`
	Burst     int     `mapstructure:"burst" validate:"min=0"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=json console"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Exporter    string `mapstructure:"exporter" validate:"omitempty,oneof=otlp zipkin"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
		},
		Forecast: ForecastConfig{
			DefaultSource: "open-meteo",
			Timeout:       10,
			Sources: map[string]SourceConfig{
				"mock": {
					Type:    SourceTypeMock,
					Enabled: true,
				},
				"open-meteo": {
					Type:            SourceTypeOpenMeteo,
					Enabled:         true,
					BaseURL:         "https://api.open-meteo.com/v1",
					Latitude:        37.3022,
					Longitude:       -120.483,
					TemperatureUnit: "fahrenheit",
					Timezone:        "America/Los_Angeles",
					ForecastDays:    1,
					RateLimit:       2,
					Burst:           1,
				},
				"weather-api": {
					Type:            SourceTypeWeatherAPI,
					Enabled:         false,
					BaseURL:         "https://api.weatherapi.com/v1",
					APIKey:          "",
					Latitude:        37.3022,
					Longitude:       -120.483,
					TemperatureUnit: "fahrenheit",
					ForecastDays:    1,
				},
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Exporter:    "otlp",
			Endpoint:    "tempo:4317",
			ServiceName: "weather-forecast",
		},
	}
}
