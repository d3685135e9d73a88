package usecase

import (
	"context"
	"fmt"
	"time"

	"AgroCast/internal/domain/models"
	drepo "AgroCast/internal/domain/repository"
	pkgkafka "AgroCast/pkg/kafka"
	"AgroCast/pkg/queue"
	"AgroCast/pkg/util"
)

// ObservationsHandler writes published observations to the store. It serves as
// both the Kafka message handler and the Redis queue job.
type ObservationsHandler struct {
	topic   string
	store   drepo.ObservationStore
	metrics drepo.Metrics
}

func NewObservationsHandler(topic string, store drepo.ObservationStore, metrics drepo.Metrics) *ObservationsHandler {
	return &ObservationsHandler{topic: topic, store: store, metrics: metrics}
}

// ObservationJobType is the queue message type carrying an observation.
const ObservationJobType = "observation"

func (h *ObservationsHandler) Topic() string { return h.topic }
func (h *ObservationsHandler) Name() string  { return "store-observation" }
func (h *ObservationsHandler) Type() string  { return ObservationJobType }

// Handle expects the JSON written by the processor, already stamped.
func (h *ObservationsHandler) Handle(ctx context.Context, b []byte) error {
	o, err := queue.ParsePayload[models.Observation](b)
	if err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if err := checkStamped(o); err != nil {
		h.metrics.RecordError("consumer_invalid")
		return err
	}
	if !o.Timestamp.IsZero() {
		h.metrics.RecordLatency("ingest_e2e", time.Since(o.Timestamp).Seconds())
	}

	start := time.Now()
	if err := h.store.Append(ctx, o); err != nil {
		h.metrics.RecordError("consumer_store")
		return fmt.Errorf("store observation: %w", err)
	}
	h.metrics.RecordLatency("consumer_store", time.Since(start).Seconds())
	h.metrics.RecordObservation("consumer")
	return nil
}

func checkStamped(o *models.Observation) error {
	if _, _, err := drepo.ParseLocationKey(o.LocationKey); err != nil {
		return fmt.Errorf("observation %q: %v: %w", o.ID, err, models.ErrInvalidObservation)
	}
	if _, ok := util.ParseDate(o.Date, nil); !ok {
		return fmt.Errorf("observation %q: bad date %q: %w", o.ID, o.Date, models.ErrInvalidObservation)
	}
	return nil
}

var (
	_ pkgkafka.MessageHandler = (*ObservationsHandler)(nil)
	_ queue.Job               = (*ObservationsHandler)(nil)
)
