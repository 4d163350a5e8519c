package service

import "context"

const (
	MockMaxTemperature = 67.0
	MockMinTemperature = 45.0
)

// MockSource serves a constant forecast. Used for tests and offline runs.
type MockSource struct{}

func NewMockSource() *MockSource {
	return &MockSource{}
}

func (s *MockSource) Name() string {
	return "mock"
}

func (s *MockSource) GetForecast(ctx context.Context) (Record, error) {
	return NewRecord(MockMaxTemperature, MockMinTemperature), nil
}
