package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	require.NoError(t, Validate(cfg))
	assert.Equal(t, "open-meteo", cfg.Forecast.DefaultSource)

	om := cfg.Forecast.Sources["open-meteo"]
	assert.Equal(t, SourceTypeOpenMeteo, om.Type)
	assert.Equal(t, 37.3022, om.Latitude)
	assert.Equal(t, -120.483, om.Longitude)
	assert.Equal(t, "fahrenheit", om.TemperatureUnit)
	assert.Equal(t, "America/Los_Angeles", om.Timezone)
	assert.Equal(t, 1, om.ForecastDays)

	assert.Equal(t, SourceTypeMock, cfg.Forecast.Sources["mock"].Type)
}

func TestGetConfigFallsBackToDefaults(t *testing.T) {
	cfg := GetConfig()
	require.NotNil(t, cfg)

	custom := NewDefaultConfig()
	custom.Server.Port = 9999
	SetConfig(custom)
	t.Cleanup(func() { SetConfig(NewDefaultConfig()) })

	assert.Equal(t, 9999, GetConfig().Server.Port)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
environment: test
server:
  port: 9191
forecast:
  default_source: mock
  timeout: 5
  sources:
    mock:
      type: mock
      enabled: true
    open-meteo:
      type: open-meteo
      enabled: false
      base_url: http://localhost:1234/v1
      latitude: 52.52
      longitude: 13.41
      temperature_unit: celsius
      timezone: Europe/Berlin
      forecast_days: 3
logging:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "mock", cfg.Forecast.DefaultSource)
	assert.Equal(t, 5, cfg.Forecast.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)

	om := cfg.Forecast.Sources["open-meteo"]
	assert.False(t, om.Enabled)
	assert.Equal(t, "celsius", om.TemperatureUnit)
	assert.Equal(t, 52.52, om.Latitude)
	assert.Equal(t, 3, om.ForecastDays)
}

func TestLoadSourcesReplaceDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
forecast:
  default_source: mock
  sources:
    mock:
      type: mock
      enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Forecast.Sources, 1)
	assert.Contains(t, cfg.Forecast.Sources, "mock")
	assert.NotContains(t, cfg.Forecast.Sources, "open-meteo")
}

func TestLoadKeepsDefaultSourcesWithoutFileSection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("environment: test\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, NewDefaultConfig().Forecast.Sources, cfg.Forecast.Sources)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("environment: staging\n"), 0o600))

	t.Setenv("FORECAST_SERVER_PORT", "7070")
	t.Setenv("FORECAST_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:    "unknown default source",
			mutate:  func(cfg *Config) { cfg.Forecast.DefaultSource = "nope" },
			wantErr: "is not defined",
		},
		{
			name: "disabled default source",
			mutate: func(cfg *Config) {
				src := cfg.Forecast.Sources["open-meteo"]
				src.Enabled = false
				cfg.Forecast.Sources["open-meteo"] = src
			},
			wantErr: "is disabled",
		},
		{
			name: "latitude out of range",
			mutate: func(cfg *Config) {
				src := cfg.Forecast.Sources["open-meteo"]
				src.Latitude = 123
				cfg.Forecast.Sources["open-meteo"] = src
			},
			wantErr: "Latitude",
		},
		{
			name: "unsupported source type",
			mutate: func(cfg *Config) {
				cfg.Forecast.Sources["other"] = SourceConfig{Type: "accuweather"}
			},
			wantErr: "Type",
		},
		{
			name: "open-meteo without base url",
			mutate: func(cfg *Config) {
				src := cfg.Forecast.Sources["open-meteo"]
				src.BaseURL = ""
				cfg.Forecast.Sources["open-meteo"] = src
			},
			wantErr: "requires base_url",
		},
		{
			name:    "port out of range",
			mutate:  func(cfg *Config) { cfg.Server.Port = 70000 },
			wantErr: "Port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
