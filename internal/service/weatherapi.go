package service

import (
	"context"
	"encoding/json"
	"errors"
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

// WeatherAPISource reads the daily forecast from weatherapi.com. It needs an API key.
type WeatherAPISource struct {
	baseURL   string
	apiKey    string
	client    *http.Client
	latitude  float64
	longitude float64
	celsius   bool
	days      int
	logger    *zap.Logger
	tele      *telemetry.Telemetry
}

type weatherAPIResponse struct {
	Forecast *struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MaxTempC *float64 `json:"maxtemp_c"`
				MinTempC *float64 `json:"mintemp_c"`
				MaxTempF *float64 `json:"maxtemp_f"`
				MinTempF *float64 `json:"mintemp_f"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

type weatherAPIError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewWeatherAPISourceWithConfig(cfg config.SourceConfig, timeout time.Duration, logger *zap.Logger, tele *telemetry.Telemetry) *WeatherAPISource {
	days := cfg.ForecastDays
	if days == 0 {
		days = 1
	}

	return &WeatherAPISource{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: timeout,
		},
		latitude:  cfg.Latitude,
		longitude: cfg.Longitude,
		celsius:   cfg.TemperatureUnit == "celsius",
		days:      days,
		logger:    logger,
		tele:      tele,
	}
}

func (s *WeatherAPISource) Name() string {
	return "weather-api"
}

func (s *WeatherAPISource) GetForecast(ctx context.Context) (Record, error) {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "weather-api.GetForecast")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", s.latitude),
		attribute.Float64("lon", s.longitude),
		attribute.String("service", s.Name()),
	)

	if s.apiKey == "" {
		s.logger.Warn("WeatherAPI source called without API key",
			zap.Float64("lat", s.latitude),
			zap.Float64("lon", s.longitude))
		err := fmt.Errorf("%w: API key not configured", ErrNetwork)
		s.tele.RecordError(ctx, err)
		return nil, err
	}

	record, err := s.fetch(ctx)
	if err != nil {
		s.tele.RecordError(ctx, err, attribute.String("service", s.Name()))
		span.SetAttributes(attribute.Bool("success", false))
		return nil, err
	}

	span.SetAttributes(attribute.Bool("success", true))
	return record, nil
}

func (s *WeatherAPISource) fetch(ctx context.Context) (Record, error) {
	u, err := url.Parse(fmt.Sprintf("%s/forecast.json", s.baseURL))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base url: %v", ErrNetwork, err)
	}

	q := u.Query()
	q.Set("key", s.apiKey)
	q.Set("q", fmt.Sprintf("%s,%s",
		strconv.FormatFloat(s.latitude, 'f', -1, 64),
		strconv.FormatFloat(s.longitude, 'f', -1, 64)))
	q.Set("days", strconv.Itoa(s.days))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrNetwork, redactTransportError(err))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, redactTransportError(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr weatherAPIError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("%w: status %d: %s", ErrNetwork, resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
	}

	var result weatherAPIResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if result.Forecast == nil || len(result.Forecast.ForecastDay) == 0 {
		return nil, fmt.Errorf("%w: missing forecast days", ErrParse)
	}

	day := result.Forecast.ForecastDay[0].Day
	hi, lo := day.MaxTempF, day.MinTempF
	if s.celsius {
		hi, lo = day.MaxTempC, day.MinTempC
	}
	if hi == nil || lo == nil {
		return nil, fmt.Errorf("%w: missing temperature for first day", ErrParse)
	}

	return NewRecord(*hi, *lo), nil
}

// redactTransportError masks the API key in the URL that *url.Error prints.
func redactTransportError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s %s: %w", uerr.Op, redactKey(uerr.URL), uerr.Err)
	}
	return err
}

func redactKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
