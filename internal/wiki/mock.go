package wiki

import (
	"context"

	"FlipSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Setting one of the error fields makes the matching fetch fail.
type MockFetcher struct {
	Mapping []model.CatalogEntry
	Latest  map[int]model.LatestPrice
	FiveMin map[int]model.AggregateEntry
	OneHour map[int]model.AggregateEntry

	MappingErr error
	LatestErr  error
	FiveMinErr error
	OneHourErr error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchMapping(_ context.Context) ([]model.CatalogEntry, error) {
	if m.MappingErr != nil {
		return nil, m.MappingErr
	}
	return m.Mapping, nil
}

func (m *MockFetcher) FetchLatest(_ context.Context) (map[int]model.LatestPrice, error) {
	if m.LatestErr != nil {
		return nil, m.LatestErr
	}
	return m.Latest, nil
}

func (m *MockFetcher) Fetch5m(_ context.Context) (map[int]model.AggregateEntry, error) {
	if m.FiveMinErr != nil {
		return nil, m.FiveMinErr
	}
	return m.FiveMin, nil
}

func (m *MockFetcher) Fetch1h(_ context.Context) (map[int]model.AggregateEntry, error) {
	if m.OneHourErr != nil {
		return nil, m.OneHourErr
	}
	return m.OneHour, nil
}
