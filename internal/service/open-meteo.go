package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vzahanych/weather-forecast/internal/config"
	"github.com/vzahanych/weather-forecast/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const openMeteoDailyFields = "temperature_2m_max,temperature_2m_min"

type OpenMeteoSource struct {
	baseURL         string
	client          *http.Client
	latitude        float64
	longitude       float64
	temperatureUnit string
	timezone        string
	forecastDays    int
	logger          *zap.Logger
	tele            *telemetry.Telemetry
}

type openMeteoResponse struct {
	Latitude   float64           `json:"latitude"`
	Longitude  float64           `json:"longitude"`
	Timezone   string            `json:"timezone"`
	DailyUnits map[string]string `json:"daily_units"`
	Daily      *struct {
		Time           []string   `json:"time"`
		TemperatureMax []*float64 `json:"temperature_2m_max"`
		TemperatureMin []*float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

type openMeteoError struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

func NewOpenMeteoSourceWithConfig(cfg config.SourceConfig, timeout time.Duration, logger *zap.Logger, tele *telemetry.Telemetry) *OpenMeteoSource {
	unit := cfg.TemperatureUnit
	if unit == "" {
		unit = "fahrenheit"
	}
	days := cfg.ForecastDays
	if days == 0 {
		days = 1
	}

	return &OpenMeteoSource{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		latitude:        cfg.Latitude,
		longitude:       cfg.Longitude,
		temperatureUnit: unit,
		timezone:        cfg.Timezone,
		forecastDays:    days,
		logger:          logger,
		tele:            tele,
	}
}

func (s *OpenMeteoSource) Name() string {
	return "open-meteo"
}

// GetForecast returns the first day of the daily series.
func (s *OpenMeteoSource) GetForecast(ctx context.Context) (Record, error) {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "open-meteo.GetForecast")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", s.latitude),
		attribute.Float64("lon", s.longitude),
		attribute.String("temperature_unit", s.temperatureUnit),
	)

	s.logger.Debug("Fetching forecast from Open-Meteo",
		zap.Float64("lat", s.latitude),
		zap.Float64("lon", s.longitude))

	record, err := s.fetch(ctx)
	if err != nil {
		s.tele.RecordError(ctx, err, attribute.String("service", s.Name()))
		span.SetAttributes(attribute.Bool("success", false))
		return nil, err
	}

	span.SetAttributes(attribute.Bool("success", true))
	return record, nil
}

func (s *OpenMeteoSource) fetch(ctx context.Context) (Record, error) {
	u, err := url.Parse(fmt.Sprintf("%s/forecast", s.baseURL))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base url: %v", ErrNetwork, err)
	}

	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(s.latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(s.longitude, 'f', -1, 64))
	q.Set("daily", openMeteoDailyFields)
	q.Set("temperature_unit", s.temperatureUnit)
	if s.timezone != "" {
		q.Set("timezone", s.timezone)
	}
	q.Set("forecast_days", strconv.Itoa(s.forecastDays))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrNetwork, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr openMeteoError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Reason != "" {
			return nil, fmt.Errorf("%w: status %d: %s", ErrNetwork, resp.StatusCode, apiErr.Reason)
		}
		return nil, fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
	}

	var result openMeteoResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return firstDay(result)
}

func firstDay(r openMeteoResponse) (Record, error) {
	if r.Daily == nil {
		return nil, fmt.Errorf("%w: missing daily series", ErrParse)
	}
	if len(r.Daily.TemperatureMax) == 0 || len(r.Daily.TemperatureMin) == 0 {
		return nil, fmt.Errorf("%w: empty daily temperature series", ErrParse)
	}

	hi, lo := r.Daily.TemperatureMax[0], r.Daily.TemperatureMin[0]
	if hi == nil || lo == nil {
		return nil, fmt.Errorf("%w: null temperature for first day", ErrParse)
	}

	return NewRecord(*hi, *lo), nil
}
