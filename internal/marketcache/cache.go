package marketcache

import (
	"sync/atomic"
	"time"

	"FlipSentinel/internal/model"
)

// Snapshot is one cached copy of a market data series. A snapshot is
// immutable after installation; refreshes replace the whole object.
type Snapshot[T any] struct {
	FetchedAt time.Time
	Data      map[int]T
	Err       string
}

// Series holds the current snapshot for one data series. Each series has
// exactly one writer (its refresh task) and any number of readers, so a
// plain atomic pointer swap is all the synchronization needed.
type Series[T any] struct {
	snap atomic.Pointer[Snapshot[T]]
}

// Get returns the current snapshot, or nil if no fetch has completed yet.
func (s *Series[T]) Get() *Snapshot[T] {
	return s.snap.Load()
}

// SetData installs a fresh snapshot after a successful fetch, clearing any
// previous error.
func (s *Series[T]) SetData(data map[int]T) {
	s.snap.Store(&Snapshot[T]{FetchedAt: time.Now(), Data: data})
}

// SetError records a failed fetch. The previous data map is carried over so
// readers keep working off the last good copy; only the timestamp and error
// change. If no snapshot exists yet an empty map is installed.
func (s *Series[T]) SetError(err error) {
	data := map[int]T{}
	if prev := s.snap.Load(); prev != nil {
		data = prev.Data
	}
	s.snap.Store(&Snapshot[T]{FetchedAt: time.Now(), Data: data, Err: err.Error()})
}

// Cache holds the most recently fetched copy of the four market data series.
type Cache struct {
	Mapping Series[model.CatalogEntry]
	Latest  Series[model.LatestPrice]
	FiveMin Series[model.AggregateEntry]
	OneHour Series[model.AggregateEntry]
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{}
}

// SeriesStatus summarizes one series for the status endpoint.
type SeriesStatus struct {
	FetchedAt time.Time `json:"fetchedAt"`
	Count     int       `json:"count"`
	Err       string    `json:"error,omitempty"`
}

// Status reports per-series freshness plus overall health.
type Status struct {
	OK      bool          `json:"ok"`
	Now     time.Time     `json:"now"`
	Mapping *SeriesStatus `json:"mapping"`
	Latest  *SeriesStatus `json:"latest"`
	FiveMin *SeriesStatus `json:"fiveMin"`
	OneHour *SeriesStatus `json:"oneHour"`
}

func seriesStatus[T any](s *Series[T]) *SeriesStatus {
	snap := s.Get()
	if snap == nil {
		return nil
	}
	return &SeriesStatus{FetchedAt: snap.FetchedAt, Count: len(snap.Data), Err: snap.Err}
}

// Status returns the freshness summary. OK is true only when all four series
// are present and none of them carries an error.
func (c *Cache) Status() Status {
	st := Status{
		Now:     time.Now(),
		Mapping: seriesStatus(&c.Mapping),
		Latest:  seriesStatus(&c.Latest),
		FiveMin: seriesStatus(&c.FiveMin),
		OneHour: seriesStatus(&c.OneHour),
	}
	st.OK = true
	for _, s := range []*SeriesStatus{st.Mapping, st.Latest, st.FiveMin, st.OneHour} {
		if s == nil || s.Err != "" {
			st.OK = false
			break
		}
	}
	return st
}

// Item joins all four series for a single item id. Series that have no
// entry for the id (or have never been fetched) contribute nil fields.
func (c *Cache) Item(id int) model.ItemView {
	view := model.ItemView{ID: id}

	if snap := c.Mapping.Get(); snap != nil {
		if m, ok := snap.Data[id]; ok {
			view.Name = &m.Name
			view.Members = &m.Members
			view.BuyLimit = m.BuyLimit
		}
	}
	if snap := c.Latest.Get(); snap != nil {
		if lat, ok := snap.Data[id]; ok {
			view.Latest = &lat
		}
	}
	if snap := c.FiveMin.Get(); snap != nil {
		if e, ok := snap.Data[id]; ok {
			view.FiveMin = &e
		}
	}
	if snap := c.OneHour.Get(); snap != nil {
		if e, ok := snap.Data[id]; ok {
			view.OneHour = &e
		}
	}
	return view
}
