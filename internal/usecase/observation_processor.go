package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"AgroCast/internal/domain/models"
	drepo "AgroCast/internal/domain/repository"
	dsvc "AgroCast/internal/domain/service"
	"AgroCast/internal/service/ratelimit"
	applogger "AgroCast/pkg/logger"
	"AgroCast/pkg/util"
)

// Ingest backends.
const (
	BackendStore = "store"
	BackendKafka = "kafka"
	BackendQueue = "queue"
)

// ProcessorConfig tunes ObservationProcessor.
type ProcessorConfig struct {
	Backend string
	// per-location token bucket
	BurstPerLocation float64
	RefillPerSecond  float64
	Location         *time.Location
}

// ObservationProcessor validates and stamps readings, throttles them per
// location and routes them to the store, to Kafka or to the Redis queue.
type ObservationProcessor struct {
	store   drepo.ObservationStore
	pub     drepo.ObservationPublisher
	metrics drepo.Metrics
	limiter *ratelimit.Limiter
	clock   dsvc.Clock
	cfg     ProcessorConfig
	logger  *applogger.Logger
}

// NewObservationProcessor creates a processor. pub may be nil unless the backend is kafka or queue.
func NewObservationProcessor(
	store drepo.ObservationStore,
	pub drepo.ObservationPublisher,
	metrics drepo.Metrics,
	limiter *ratelimit.Limiter,
	clock dsvc.Clock,
	cfg ProcessorConfig,
	logger *applogger.Logger,
) *ObservationProcessor {
	if cfg.Backend == "" {
		cfg.Backend = BackendStore
	}
	if cfg.Location == nil {
		cfg.Location = util.IST
	}
	if logger == nil {
		logger = applogger.NewNop()
	}
	return &ObservationProcessor{
		store:   store,
		pub:     pub,
		metrics: metrics,
		limiter: limiter,
		clock:   clock,
		cfg:     cfg,
		logger:  logger,
	}
}

// Process ingests one reading. Rejected readings return ErrInvalidObservation,
// throttled ones ErrThrottled.
func (p *ObservationProcessor) Process(ctx context.Context, o *models.Observation) error {
	if err := p.prepare(o); err != nil {
		return err
	}

	start := time.Now()
	var err error
	switch p.cfg.Backend {
	case BackendKafka, BackendQueue:
		err = p.pub.Publish(ctx, o)
	case BackendStore:
		err = p.store.Append(ctx, o)
	default:
		err = fmt.Errorf("unknown backend: %s", p.cfg.Backend)
	}
	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process observation: %w", err)
	}

	p.metrics.RecordObservation(p.cfg.Backend)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())
	p.logger.Debug("Observation ingested",
		applogger.String("location", o.LocationKey),
		applogger.String("date", o.Date),
		applogger.String("backend", p.cfg.Backend),
	)
	return nil
}

// ProcessBatch ingests readings in one write. Invalid and throttled readings are
// skipped and counted; the number accepted is returned.
func (p *ObservationProcessor) ProcessBatch(ctx context.Context, obs []*models.Observation) (int, error) {
	accepted := make([]*models.Observation, 0, len(obs))
	for _, o := range obs {
		if err := p.prepare(o); err != nil {
			continue
		}
		accepted = append(accepted, o)
	}
	if len(accepted) == 0 {
		return 0, nil
	}

	start := time.Now()
	var err error
	switch p.cfg.Backend {
	case BackendKafka, BackendQueue:
		err = p.pub.PublishBatch(ctx, accepted)
	case BackendStore:
		err = p.store.AppendBatch(ctx, accepted)
	default:
		err = fmt.Errorf("unknown backend: %s", p.cfg.Backend)
	}
	if err != nil {
		p.metrics.RecordError("process_batch")
		return 0, fmt.Errorf("process batch: %w", err)
	}

	for range accepted {
		p.metrics.RecordObservation(p.cfg.Backend)
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())
	return len(accepted), nil
}

func (p *ObservationProcessor) prepare(o *models.Observation) error {
	if err := Validate(o); err != nil {
		p.metrics.RecordError("validate")
		return err
	}
	p.stamp(o)
	if p.limiter != nil && !p.limiter.Allow(o.LocationKey, p.cfg.BurstPerLocation, p.cfg.RefillPerSecond) {
		p.metrics.RecordError("throttle")
		return fmt.Errorf("%s: %w", o.LocationKey, models.ErrThrottled)
	}
	return nil
}

// stamp fills the id, location key, timestamp and calendar date.
func (p *ObservationProcessor) stamp(o *models.Observation) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.LocationKey = drepo.LocationKey(o.Lat, o.Lon)
	if o.Timestamp.IsZero() {
		o.Timestamp = p.clock.Now()
	}
	o.Date = util.DateKey(o.Timestamp, p.cfg.Location)
}

// Validate checks the ranges a reading must satisfy before it is stored.
func Validate(o *models.Observation) error {
	switch {
	case o == nil:
		return fmt.Errorf("nil reading: %w", models.ErrInvalidObservation)
	case !drepo.IsValidCoordinate(o.Lat, o.Lon):
		return fmt.Errorf("coordinate %v,%v: %w", o.Lat, o.Lon, models.ErrInvalidObservation)
	case o.Humidity < 0 || o.Humidity > 100:
		return fmt.Errorf("humidity %v: %w", o.Humidity, models.ErrInvalidObservation)
	}
	return nil
}

// Close releases the publisher and store, reporting every failure.
func (p *ObservationProcessor) Close() error {
	var result *multierror.Error
	if p.pub != nil {
		if err := p.pub.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close publisher: %w", err))
		}
	}
	if p.store != nil {
		if err := p.store.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close store: %w", err))
		}
	}
	return result.ErrorOrNil()
}
