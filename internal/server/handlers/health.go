package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-forecast/internal/forecaster"
)

type HealthHandler struct {
	forecaster *forecaster.Forecaster
	startTime  time.Time
}

func NewHealthHandler(f *forecaster.Forecaster) *HealthHandler {
	return &HealthHandler{
		forecaster: f,
		startTime:  time.Now(),
	}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).String(),
	})
}

// Readiness fails until at least one data source is registered.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if len(h.forecaster.Sources()) == 0 {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status: "unavailable",
			Uptime: time.Since(h.startTime).String(),
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status: "ready",
		Uptime: time.Since(h.startTime).String(),
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
