package wiki

import (
	"context"

	"FlipSentinel/internal/model"
)

// Fetcher defines the interface for fetching the four market data series.
type Fetcher interface {
	FetchMapping(ctx context.Context) ([]model.CatalogEntry, error)
	FetchLatest(ctx context.Context) (map[int]model.LatestPrice, error)
	Fetch5m(ctx context.Context) (map[int]model.AggregateEntry, error)
	Fetch1h(ctx context.Context) (map[int]model.AggregateEntry, error)
	Name() string
}
