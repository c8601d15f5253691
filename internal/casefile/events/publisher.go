package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/platform/kafka"
)

// Topics maps event families to Kafka topics.
type Topics struct {
	Defendant string
	Case      string
	Material  string
}

// KafkaSink publishes outcome events to Kafka, one topic per event family.
// Payloads are JSON; keys are fresh event UUIDs so partitioning spreads load
// without ordering guarantees, which consumers do not rely on.
type KafkaSink struct {
	producer *kafka.Producer
	topics   Topics
	logger   *slog.Logger
}

// Option configures the KafkaSink.
type Option func(*KafkaSink)

// WithLogger sets a logger for emission diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *KafkaSink) {
		s.logger = logger
	}
}

// NewKafkaSink builds a sink over the given producer and topic mapping.
func NewKafkaSink(producer *kafka.Producer, topics Topics, opts ...Option) (*KafkaSink, error) {
	if producer == nil {
		return nil, fmt.Errorf("kafka producer is required")
	}
	s := &KafkaSink{producer: producer, topics: topics}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Emit publishes one event to the topic for its family.
func (s *KafkaSink) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	key := []byte(uuid.NewString())
	if err := s.producer.Produce(ctx, s.topic(event.Type), key, payload); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.DebugContext(ctx, "emitted outcome event",
			"type", event.Type,
			"case_id", event.CaseID,
			"defendant_reference", event.DefendantReference,
		)
	}
	return nil
}

func (s *KafkaSink) topic(t Type) string {
	switch t {
	case TypeDefendantValidationPassed, TypeDefendantValidationFailed:
		return s.topics.Defendant
	case TypeCaseValidationFailed:
		return s.topics.Case
	default:
		return s.topics.Material
	}
}
