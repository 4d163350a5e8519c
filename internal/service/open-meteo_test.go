package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-forecast/internal/config"
	"github.com/vzahanych/weather-forecast/pkg/telemetry"
	"go.uber.org/zap/zaptest"
)

const openMeteoBody = `{
	"latitude": 37.30,
	"longitude": -120.48,
	"timezone": "America/Los_Angeles",
	"daily_units": {"time": "iso8601", "temperature_2m_max": "°F", "temperature_2m_min": "°F"},
	"daily": {
		"time": ["2026-10-16"],
		"temperature_2m_max": [78.4],
		"temperature_2m_min": [51.2]
	}
}`

func newTestOpenMeteo(t *testing.T, handler http.HandlerFunc) *OpenMeteoSource {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.NewDefaultConfig().Forecast.Sources["open-meteo"]
	cfg.BaseURL = srv.URL + "/v1"

	return NewOpenMeteoSourceWithConfig(cfg, 2*time.Second, zaptest.NewLogger(t), &telemetry.Telemetry{})
}

func TestOpenMeteoSource_GetForecast(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string

	src := newTestOpenMeteo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(openMeteoBody))
	})

	record, err := src.GetForecast(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Record{MaxTemperatureKey: 78.4, MinTemperatureKey: 51.2}, record)
	assert.Equal(t, "/v1/forecast", gotPath)
	assert.Equal(t, map[string]string{
		"latitude":         "37.3022",
		"longitude":        "-120.483",
		"daily":            "temperature_2m_max,temperature_2m_min",
		"temperature_unit": "fahrenheit",
		"timezone":         "America/Los_Angeles",
		"forecast_days":    "1",
	}, gotQuery)
	assert.Equal(t, "open-meteo", src.Name())
}

func TestOpenMeteoSource_ValidatesThroughHandler(t *testing.T) {
	src := newTestOpenMeteo(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(openMeteoBody))
	})

	record, err := NewValidatingHandler(src).GetValidatedForecast(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 78.4, record[MaxTemperatureKey])
}

func TestOpenMeteoSource_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		message string
	}{
		{
			name:    "api error payload",
			status:  http.StatusBadRequest,
			body:    `{"error": true, "reason": "Latitude must be in range of -90 to 90°."}`,
			wantErr: ErrNetwork,
			message: "Latitude must be in range",
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `oops`,
			wantErr: ErrNetwork,
			message: "status 500",
		},
		{
			name:    "invalid json",
			status:  http.StatusOK,
			body:    `{"daily": [`,
			wantErr: ErrParse,
		},
		{
			name:    "missing daily",
			status:  http.StatusOK,
			body:    `{"latitude": 1}`,
			wantErr: ErrParse,
			message: "missing daily series",
		},
		{
			name:    "empty series",
			status:  http.StatusOK,
			body:    `{"daily": {"time": [], "temperature_2m_max": [], "temperature_2m_min": []}}`,
			wantErr: ErrParse,
			message: "empty daily temperature series",
		},
		{
			name:    "null temperature",
			status:  http.StatusOK,
			body:    `{"daily": {"time": ["2026-10-16"], "temperature_2m_max": [null], "temperature_2m_min": [40]}}`,
			wantErr: ErrParse,
			message: "null temperature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newTestOpenMeteo(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			record, err := src.GetForecast(context.Background())
			require.Error(t, err)
			assert.Nil(t, record)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestOpenMeteoSource_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	cfg := config.NewDefaultConfig().Forecast.Sources["open-meteo"]
	cfg.BaseURL = srv.URL
	srv.Close()

	src := NewOpenMeteoSourceWithConfig(cfg, time.Second, zaptest.NewLogger(t), nil)

	_, err := src.GetForecast(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
}
