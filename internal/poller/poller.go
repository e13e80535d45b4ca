package poller

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"FlipSentinel/internal/marketcache"
	"FlipSentinel/internal/metrics"
	"FlipSentinel/internal/model"
	"FlipSentinel/internal/wiki"
)

// Intervals configures the refresh cadence per series.
type Intervals struct {
	Latest  time.Duration
	FiveMin time.Duration
	OneHour time.Duration
	Mapping time.Duration
}

// DefaultIntervals returns the standard cadences: the latest-price series
// refreshes fastest, the near-static catalog slowest.
func DefaultIntervals() Intervals {
	return Intervals{
		Latest:  30 * time.Second,
		FiveMin: 60 * time.Second,
		OneHour: 120 * time.Second,
		Mapping: 12 * time.Hour,
	}
}

// Poller drives the four independently-scheduled refresh tasks. Each task
// writes only its own cache series; a failed fetch records the error and
// leaves the previous data in place until the next tick retries.
type Poller struct {
	cron      *cron.Cron
	fetcher   wiki.Fetcher
	cache     *marketcache.Cache
	metrics   *metrics.Registry
	intervals Intervals
	timeout   time.Duration
	log       zerolog.Logger
}

// New creates a poller. The metrics registry may be nil.
func New(fetcher wiki.Fetcher, cache *marketcache.Cache, intervals Intervals, reg *metrics.Registry, log zerolog.Logger) *Poller {
	return &Poller{
		cron:      cron.New(),
		fetcher:   fetcher,
		cache:     cache,
		metrics:   reg,
		intervals: intervals,
		timeout:   30 * time.Second,
		log:       log.With().Str("component", "poller").Logger(),
	}
}

// Start triggers one immediate fetch of every series, then schedules each
// on its own fixed interval.
func (p *Poller) Start() error {
	tasks := []struct {
		every time.Duration
		run   func()
	}{
		{p.intervals.Latest, p.refreshLatest},
		{p.intervals.FiveMin, p.refresh5m},
		{p.intervals.OneHour, p.refresh1h},
		{p.intervals.Mapping, p.refreshMapping},
	}
	for _, t := range tasks {
		if _, err := p.cron.AddFunc(fmt.Sprintf("@every %s", t.every), t.run); err != nil {
			return fmt.Errorf("schedule refresh: %w", err)
		}
		go t.run()
	}
	p.cron.Start()
	p.log.Info().
		Dur("latest", p.intervals.Latest).
		Dur("fiveMin", p.intervals.FiveMin).
		Dur("oneHour", p.intervals.OneHour).
		Dur("mapping", p.intervals.Mapping).
		Msg("poller started")
	return nil
}

// Stop cancels future ticks. An in-flight fetch finishes on its own; its
// result is simply the last write.
func (p *Poller) Stop() {
	p.cron.Stop()
	p.log.Info().Msg("poller stopped")
}

func (p *Poller) observe(series string, start time.Time, err error) {
	if p.metrics == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	p.metrics.FetchTotal.WithLabelValues(series, result).Inc()
	p.metrics.FetchDuration.WithLabelValues(series).Observe(time.Since(start).Seconds())
}

func (p *Poller) refreshMapping() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	start := time.Now()
	entries, err := p.fetcher.FetchMapping(ctx)
	p.observe("mapping", start, err)
	if err != nil {
		p.cache.Mapping.SetError(err)
		p.log.Warn().Err(err).Msg("mapping fetch failed")
		return
	}

	byID := make(map[int]model.CatalogEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	p.cache.Mapping.SetData(byID)
	p.log.Info().Int("count", len(byID)).Msg("mapping updated")
}

func (p *Poller) refreshLatest() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	start := time.Now()
	data, err := p.fetcher.FetchLatest(ctx)
	p.observe("latest", start, err)
	if err != nil {
		p.cache.Latest.SetError(err)
		p.log.Warn().Err(err).Msg("latest fetch failed")
		return
	}
	p.cache.Latest.SetData(data)
	p.log.Info().Int("count", len(data)).Msg("latest updated")
}

func (p *Poller) refresh5m() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	start := time.Now()
	data, err := p.fetcher.Fetch5m(ctx)
	p.observe("fiveMin", start, err)
	if err != nil {
		p.cache.FiveMin.SetError(err)
		p.log.Warn().Err(err).Msg("5m fetch failed")
		return
	}
	p.cache.FiveMin.SetData(data)
	p.log.Info().Int("count", len(data)).Msg("5m updated")
}

func (p *Poller) refresh1h() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	start := time.Now()
	data, err := p.fetcher.Fetch1h(ctx)
	p.observe("oneHour", start, err)
	if err != nil {
		p.cache.OneHour.SetError(err)
		p.log.Warn().Err(err).Msg("1h fetch failed")
		return
	}
	p.cache.OneHour.SetData(data)
	p.log.Info().Int("count", len(data)).Msg("1h updated")
}
