package api

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"FlipSentinel/internal/engine"
	"FlipSentinel/internal/marketcache"
	"FlipSentinel/internal/metrics"
	"FlipSentinel/internal/recorder"
)

// Broadcaster periodically runs the engine on default params, pushes the
// result to websocket subscribers, and records the run.
type Broadcaster struct {
	cron     *cron.Cron
	cache    *marketcache.Cache
	hub      *Hub
	rec      recorder.Recorder
	metrics  *metrics.Registry
	interval time.Duration
	log      zerolog.Logger
}

// NewBroadcaster creates a broadcaster on the given interval.
func NewBroadcaster(cache *marketcache.Cache, hub *Hub, rec recorder.Recorder, reg *metrics.Registry, interval time.Duration, log zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		cron:     cron.New(),
		cache:    cache,
		hub:      hub,
		rec:      rec,
		metrics:  reg,
		interval: interval,
		log:      log.With().Str("component", "broadcaster").Logger(),
	}
}

// Start schedules the periodic broadcast.
func (b *Broadcaster) Start() error {
	if _, err := b.cron.AddFunc(fmt.Sprintf("@every %s", b.interval), b.run); err != nil {
		return fmt.Errorf("schedule broadcast: %w", err)
	}
	b.cron.Start()
	b.log.Info().Dur("interval", b.interval).Msg("broadcaster started")
	return nil
}

// Stop cancels future broadcasts.
func (b *Broadcaster) Stop() {
	b.cron.Stop()
	b.log.Info().Msg("broadcaster stopped")
}

func (b *Broadcaster) run() {
	start := time.Now()
	res := engine.Compute(engine.InputsFromCache(b.cache), engine.Overrides{})
	if b.metrics != nil {
		b.metrics.EngineRuns.Inc()
		b.metrics.EngineDuration.Observe(time.Since(start).Seconds())
	}

	b.hub.Broadcast("recommendations", res)

	eligible := 0
	topScore := 0.0
	for i, rec := range res.Recommendations {
		if rec.Eligible {
			eligible++
		}
		if i == 0 {
			topScore = rec.Score
		}
	}
	if err := b.rec.RecordRun(&recorder.RunRecord{
		Trigger:       "broadcast",
		Params:        res.Params,
		RecCount:      len(res.Recommendations),
		EligibleCount: eligible,
		TopScore:      topScore,
	}, res.Recommendations); err != nil {
		b.log.Error().Err(err).Msg("record run")
	}
}
