package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-forecast/internal/forecaster"
	"github.com/vzahanych/weather-forecast/internal/server/utils"
	"github.com/vzahanych/weather-forecast/internal/service"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type ForecastHandler struct {
	forecaster *forecaster.Forecaster
	logger     *zap.Logger
}

func NewForecastHandler(f *forecaster.Forecaster, logger *zap.Logger) *ForecastHandler {
	return &ForecastHandler{
		forecaster: f,
		logger:     logger,
	}
}

func (h *ForecastHandler) GetForecast(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := utils.RequestLogger(c, h.logger)

	var req ForecastRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		reqLogger.Warn("Invalid request parameters", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return
	}

	if fieldErrs := utils.ValidateStruct(req); len(fieldErrs) > 0 {
		reqLogger.Warn("Request validation failed", zap.Any("fields", fieldErrs))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  "Invalid request parameters",
			Code:   "INVALID_PARAMS",
			Fields: fieldErrs,
		})
		return
	}

	utils.GetSpanFromGinContext(c).SetAttributes(attribute.String("forecast.source", req.Source))

	forecast, err := h.forecaster.GetForecast(ctx, req.Source)
	if err != nil {
		status, code := classifyError(err)
		_ = c.Error(err)
		c.JSON(status, ErrorResponse{
			Error:   http.StatusText(status),
			Code:    code,
			Details: err.Error(),
		})
		return
	}

	reqLogger.Debug("Forecast request completed", zap.String("source", forecast.Source))
	c.JSON(http.StatusOK, forecast)
}

func (h *ForecastHandler) ListSources(c *gin.Context) {
	c.JSON(http.StatusOK, SourcesResponse{
		Default: h.forecaster.DefaultSource(),
		Sources: h.forecaster.Sources(),
	})
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrUnknownSource):
		return http.StatusNotFound, "UNKNOWN_SOURCE"
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadGateway, "INVALID_FORECAST"
	case errors.Is(err, service.ErrParse):
		return http.StatusBadGateway, "UPSTREAM_PARSE_ERROR"
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusServiceUnavailable, "RATE_LIMITED"
	case errors.Is(err, service.ErrNetwork):
		return http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE"
	default:
		return http.StatusInternalServerError, "FORECAST_ERROR"
	}
}
