package service

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedSource throttles calls to the wrapped source.
type RateLimitedSource struct {
	source  DataSource
	limiter *rate.Limiter
}

// NewRateLimitedSource allows rps calls per second with the given burst.
// A burst below one is raised to one so the source stays reachable.
func NewRateLimitedSource(source DataSource, rps float64, burst int) *RateLimitedSource {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimitedSource) Name() string {
	return r.source.Name()
}

func (r *RateLimitedSource) GetForecast(ctx context.Context) (Record, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRateLimited, err)
	}
	return r.source.GetForecast(ctx)
}

var (
	_ DataSource = (*MockSource)(nil)
	_ DataSource = (*OpenMeteoSource)(nil)
	_ DataSource = (*WeatherAPISource)(nil)
	_ DataSource = (*RateLimitedSource)(nil)
)
