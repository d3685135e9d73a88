package usecase

import (
	"context"
	"sync"
	"time"

	"AgroCast/internal/domain/models"
	drepo "AgroCast/internal/domain/repository"
	dsvc "AgroCast/internal/domain/service"
	applogger "AgroCast/pkg/logger"
)

// Sink accepts collected readings. Satisfied by ObservationProcessor and the ingest buffer.
type Sink interface {
	Process(ctx context.Context, o *models.Observation) error
}

// FarmLocation is a coordinate the collector polls.
type FarmLocation struct {
	Name string  `yaml:"name" json:"name"`
	Lat  float64 `yaml:"lat" json:"lat"`
	Lon  float64 `yaml:"lon" json:"lon"`
}

// WeatherCollector polls live weather for each location on an interval and
// feeds every reading to the sink. One poll appends one observation per location.
type WeatherCollector struct {
	source       dsvc.WeatherSource
	sink         Sink
	locations    []FarmLocation
	interval     time.Duration
	fetchTimeout time.Duration
	metrics      drepo.Metrics
	logger       *applogger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWeatherCollector(
	source dsvc.WeatherSource,
	sink Sink,
	locations []FarmLocation,
	interval time.Duration,
	metrics drepo.Metrics,
	logger *applogger.Logger,
) *WeatherCollector {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	if logger == nil {
		logger = applogger.NewNop()
	}
	return &WeatherCollector{
		source:       source,
		sink:         sink,
		locations:    locations,
		interval:     interval,
		fetchTimeout: 15 * time.Second,
		metrics:      metrics,
		logger:       logger,
	}
}

// Start polls once immediately, then on every tick, until Shutdown or ctx ends.
func (c *WeatherCollector) Start(ctx context.Context) error {
	if len(c.locations) == 0 {
		c.logger.Info("Weather collector disabled, no locations configured")
		return nil
	}
	ctx, c.cancel = context.WithCancel(ctx)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.CollectOnce(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.CollectOnce(ctx)
			}
		}
	}()

	c.logger.Info("Weather collector started",
		applogger.String("source", c.source.Name()),
		applogger.Int("locations", len(c.locations)),
		applogger.Duration("interval", c.interval),
	)
	return nil
}

// CollectOnce fetches every location once and returns how many readings were accepted.
func (c *WeatherCollector) CollectOnce(ctx context.Context) int {
	ok := 0
	for _, loc := range c.locations {
		if ctx.Err() != nil {
			break
		}
		if c.collect(ctx, loc) {
			ok++
		}
	}
	return ok
}

func (c *WeatherCollector) collect(ctx context.Context, loc FarmLocation) bool {
	fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	o, err := c.source.Current(fetchCtx, loc.Lat, loc.Lon)
	if err != nil {
		c.metrics.RecordError("collect_fetch")
		c.logger.Warn("Weather fetch failed",
			applogger.Error(err),
			applogger.String("location", loc.Name),
		)
		return false
	}
	if err := c.sink.Process(ctx, o); err != nil {
		c.metrics.RecordError("collect_process")
		c.logger.Warn("Collected reading not ingested",
			applogger.Error(err),
			applogger.String("location", loc.Name),
		)
		return false
	}
	return true
}

// Shutdown stops polling and waits for an in-flight poll to finish.
func (c *WeatherCollector) Shutdown(ctx context.Context) error {
	if c.cancel != nil {
		c.cancel()
	}
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
