package forecaster

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vzahanych/weather-forecast/internal/config"
	"github.com/vzahanych/weather-forecast/internal/service"
	"github.com/vzahanych/weather-forecast/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Forecast is a validated record together with the source that produced it.
type Forecast struct {
	Source    string         `json:"source"`
	Record    service.Record `json:"forecast"`
	Timestamp string         `json:"timestamp"`
}

// MetricsRecorder receives one call per forecast request.
type MetricsRecorder interface {
	RecordSourceCall(ctx context.Context, source string, err error)
}

// Forecaster resolves data sources by name and serves validated forecasts.
type Forecaster struct {
	handlers      map[string]*service.ValidatingHandler
	defaultSource string
	mutex         sync.RWMutex
	logger        *zap.Logger
	tele          *telemetry.Telemetry
	metrics       MetricsRecorder
}

func NewForecaster(cfg *config.ForecastConfig, logger *zap.Logger, tele *telemetry.Telemetry) *Forecaster {
	f := &Forecaster{
		handlers:      make(map[string]*service.ValidatingHandler),
		defaultSource: cfg.DefaultSource,
		logger:        logger,
		tele:          tele,
	}

	timeout := time.Duration(cfg.Timeout) * time.Second

	for name, sourceConfig := range cfg.Sources {
		if !sourceConfig.Enabled {
			continue
		}

		src := f.createSource(name, sourceConfig, timeout)
		if src == nil {
			continue
		}

		if sourceConfig.RateLimit > 0 {
			src = service.NewRateLimitedSource(src, sourceConfig.RateLimit, sourceConfig.Burst)
		}

		f.Register(name, src)
	}

	return f
}

// SetMetricsRecorder sets the metrics recorder for the forecaster
func (f *Forecaster) SetMetricsRecorder(metrics MetricsRecorder) {
	f.metrics = metrics
}

func (f *Forecaster) createSource(name string, cfg config.SourceConfig, timeout time.Duration) service.DataSource {
	switch cfg.Type {
	case config.SourceTypeMock:
		return service.NewMockSource()
	case config.SourceTypeOpenMeteo:
		return service.NewOpenMeteoSourceWithConfig(cfg, timeout, f.logger, f.tele)
	case config.SourceTypeWeatherAPI:
		return service.NewWeatherAPISourceWithConfig(cfg, timeout, f.logger, f.tele)
	default:
		f.logger.Warn("Unknown source type", zap.String("type", cfg.Type), zap.String("source", name))
		return nil
	}
}

// Register adds or replaces a source under name, wrapped in a ValidatingHandler.
func (f *Forecaster) Register(name string, src service.DataSource) {
	f.mutex.Lock()
	f.handlers[name] = service.NewValidatingHandler(src)
	f.mutex.Unlock()

	f.logger.Info("Registered data source", zap.String("source", name), zap.String("type", src.Name()))
}

// GetForecast fetches a validated forecast from the named source, or the
// default source when name is empty.
func (f *Forecaster) GetForecast(ctx context.Context, name string) (*Forecast, error) {
	if name == "" {
		name = f.defaultSource
	}

	tracer := f.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "forecaster.GetForecast")
	defer span.End()

	span.SetAttributes(attribute.String("source", name))

	reqLogger := f.logger.With(zap.String("source", name))

	f.mutex.RLock()
	handler, ok := f.handlers[name]
	f.mutex.RUnlock()

	if !ok {
		err := fmt.Errorf("%w: %q", service.ErrUnknownSource, name)
		reqLogger.Warn("Forecast requested from unknown source")
		f.tele.RecordError(ctx, err)
		return nil, err
	}

	start := time.Now()
	record, err := handler.GetValidatedForecast(ctx)

	if f.metrics != nil {
		f.metrics.RecordSourceCall(ctx, name, err)
	}

	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		f.tele.RecordError(ctx, err, attribute.Bool("validation_error", errors.Is(err, service.ErrValidation)))
		reqLogger.Error("Failed to get forecast",
			zap.Error(err),
			zap.Duration("latency", time.Since(start)))
		return nil, err
	}

	span.SetAttributes(attribute.Bool("success", true))
	reqLogger.Info("Forecast fetched",
		zap.Any("max_temperature", record[service.MaxTemperatureKey]),
		zap.Any("min_temperature", record[service.MinTemperatureKey]),
		zap.Duration("latency", time.Since(start)))

	return &Forecast{
		Source:    name,
		Record:    record,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (f *Forecaster) DefaultSource() string {
	return f.defaultSource
}

// Sources returns the registered source names in sorted order.
func (f *Forecaster) Sources() []string {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	names := make([]string, 0, len(f.handlers))
	for name := range f.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
