package service

import "context"

const (
	MaxTemperatureKey = "max_temperature"
	MinTemperatureKey = "min_temperature"
)

// Record is a single-day forecast keyed by field name.
type Record map[string]interface{}

func NewRecord(maxTemp, minTemp float64) Record {
	return Record{
		MaxTemperatureKey: maxTemp,
		MinTemperatureKey: minTemp,
	}
}

// DataSource produces forecast records. Implementations build a fresh record
// on every call.
type DataSource interface {
	GetForecast(ctx context.Context) (Record, error)
	Name() string
}
