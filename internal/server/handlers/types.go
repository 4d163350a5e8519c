package handlers

import "github.com/vzahanych/weather-forecast/internal/server/utils"

// ForecastRequest selects a data source; empty means the configured default.
type ForecastRequest struct {
	Source string `form:"source" json:"source" validate:"omitempty,max=64,source_name"`
}

type SourcesResponse struct {
	Default string   `json:"default"`
	Sources []string `json:"sources"`
}

type ErrorResponse struct {
	Error   string                  `json:"error"`
	Code    string                  `json:"code,omitempty"`
	Details string                  `json:"details,omitempty"`
	Fields  []utils.ValidationError `json:"fields,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp,omitempty"`
}
