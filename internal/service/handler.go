package service

import (
	"context"
	"errors"

	"github.com/go-viper/mapstructure/v2"
)

var requiredFields = []string{MaxTemperatureKey, MinTemperatureKey}

// ValidatingHandler gates a DataSource so callers only ever see records that
// carry both temperature fields.
type ValidatingHandler struct {
	source DataSource
}

func NewValidatingHandler(source DataSource) *ValidatingHandler {
	return &ValidatingHandler{source: source}
}

func (h *ValidatingHandler) Name() string {
	return h.source.Name()
}

func (h *ValidatingHandler) GetValidatedForecast(ctx context.Context) (Record, error) {
	return GetValidatedForecast(ctx, h.source)
}

// GetValidatedForecast fetches from source and returns the record unchanged if
// it validates. Errors from the source are passed through as is.
func GetValidatedForecast(ctx context.Context, source DataSource) (Record, error) {
	record, err := source.GetForecast(ctx)
	if err != nil {
		return nil, err
	}

	if err := Validate(record); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Source = source.Name()
		}
		return nil, err
	}

	return record, nil
}

// Validate reports a *ValidationError when the record is nil or a required
// field is absent, null or not a number.
func Validate(record Record) error {
	if record == nil {
		return &ValidationError{}
	}

	var invalid []string
	for _, key := range requiredFields {
		var value *float64
		if err := mapstructure.Decode(record[key], &value); err != nil || value == nil {
			invalid = append(invalid, key)
		}
	}

	if len(invalid) > 0 {
		return &ValidationError{Fields: invalid}
	}
	return nil
}
