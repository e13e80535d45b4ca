package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"FlipSentinel/internal/model"
)

// Client fetches price data from the wiki prices API. Calls are rate-limited
// and pass through a circuit breaker so a flapping upstream fails fast
// instead of piling up slow requests; retry is left to the next poll tick.
type Client struct {
	baseURL string
	http    *resty.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewClient creates a client for the given API base URL. The user agent
// should identify this deployment; the API maintainers ask for one.
func NewClient(baseURL, userAgent string, ratePerSec float64, timeout time.Duration) *Client {
	httpClient := resty.New()
	httpClient.SetTimeout(timeout)
	httpClient.SetHeader("User-Agent", userAgent)
	httpClient.SetHeader("Accept", "application/json")

	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), 2),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:     "wiki",
			Interval: time.Minute,
			Timeout:  30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

func (c *Client) Name() string { return "wiki" }

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := c.breaker.Execute(func() (any, error) {
		resp, err := c.http.R().SetContext(ctx).Get(c.baseURL + path)
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", path, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("get %s: status %d", path, resp.StatusCode())
		}
		return resp.Body(), nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body.([]byte), out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// mappingItem is the upstream catalog shape; extra fields are ignored.
type mappingItem struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Members bool   `json:"members"`
	Limit   *int64 `json:"limit"`
}

// FetchMapping fetches the item catalog. Unlike the other endpoints the
// mapping is a bare array, not wrapped in a data envelope.
func (c *Client) FetchMapping(ctx context.Context) ([]model.CatalogEntry, error) {
	var items []mappingItem
	if err := c.getJSON(ctx, "/mapping", &items); err != nil {
		return nil, err
	}
	entries := make([]model.CatalogEntry, len(items))
	for i, it := range items {
		entries[i] = model.CatalogEntry{
			ID:       it.ID,
			Name:     it.Name,
			Members:  it.Members,
			BuyLimit: it.Limit,
		}
	}
	return entries, nil
}

// envelope wraps the latest/5m/1h responses, which key entries by item id
// rendered as a string.
type envelope[T any] struct {
	Data map[string]T `json:"data"`
}

// byID coerces string item-id keys to ints, dropping non-numeric keys.
func byID[T any](rec map[string]T) map[int]T {
	out := make(map[int]T, len(rec))
	for k, v := range rec {
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		out[id] = v
	}
	return out
}

// FetchLatest fetches the most recent trade prices for all items.
func (c *Client) FetchLatest(ctx context.Context) (map[int]model.LatestPrice, error) {
	var env envelope[model.LatestPrice]
	if err := c.getJSON(ctx, "/latest", &env); err != nil {
		return nil, err
	}
	return byID(env.Data), nil
}

// Fetch5m fetches the 5-minute aggregates for all items.
func (c *Client) Fetch5m(ctx context.Context) (map[int]model.AggregateEntry, error) {
	var env envelope[model.AggregateEntry]
	if err := c.getJSON(ctx, "/5m", &env); err != nil {
		return nil, err
	}
	return byID(env.Data), nil
}

// Fetch1h fetches the 1-hour aggregates for all items.
func (c *Client) Fetch1h(ctx context.Context) (map[int]model.AggregateEntry, error) {
	var env envelope[model.AggregateEntry]
	if err := c.getJSON(ctx, "/1h", &env); err != nil {
		return nil, err
	}
	return byID(env.Data), nil
}
