// Package kafka publishes completed assessments to the event stream consumed
// by the reporting and persistence collaborators.
package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/activsafe/ActivSafe-Platform/internal/config"
	"github.com/activsafe/ActivSafe-Platform/internal/infrastructure/monitoring/logging"
	"github.com/activsafe/ActivSafe-Platform/internal/infrastructure/monitoring/prometheus"
	"github.com/activsafe/ActivSafe-Platform/pkg/errors"
	"github.com/activsafe/ActivSafe-Platform/pkg/types/risk"
)

// AssessmentEvent is the wire envelope for one published assessment.
type AssessmentEvent struct {
	EventType  string                    `json:"event_type"`
	Assessment *risk.CompositeAssessment `json:"assessment"`
	EmittedAt  time.Time                 `json:"emitted_at"`
}

// EventTypeAssessmentGenerated identifies the composite assessment event.
const EventTypeAssessmentGenerated = "assessment.generated"

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes assessment events to one topic.
type Publisher struct {
	writer  WriterInterface
	log     logging.Logger
	metrics *prometheus.Metrics

	mu     sync.Mutex
	closed bool
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithMetrics attaches publish outcome counters.
func WithMetrics(m *prometheus.Metrics) PublisherOption {
	return func(p *Publisher) { p.metrics = m }
}

// WithWriter substitutes the underlying writer; used by tests.
func WithWriter(w WriterInterface) PublisherOption {
	return func(p *Publisher) { p.writer = w }
}

// NewPublisher constructs a Publisher from the Kafka configuration.
func NewPublisher(cfg config.KafkaConfig, log logging.Logger, opts ...PublisherOption) *Publisher {
	if log == nil {
		log = logging.NewNopLogger()
	}
	p := &Publisher{log: log.Named("publisher")}
	for _, opt := range opts {
		opt(p)
	}
	if p.writer == nil {
		p.writer = &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: requiredAcks(cfg.Acks),
			MaxAttempts:  cfg.MaxRetries + 1,
			BatchTimeout: cfg.BatchTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}
	}
	return p
}

func requiredAcks(acks string) kafka.RequiredAcks {
	switch acks {
	case "none":
		return kafka.RequireNone
	case "one":
		return kafka.RequireOne
	default:
		return kafka.RequireAll
	}
}

// Publish writes one assessment event, keyed by assessment ID so replays for
// the same session land in one partition.
func (p *Publisher) Publish(ctx context.Context, assessment *risk.CompositeAssessment) error {
	if assessment == nil {
		return errors.New(errors.ErrCodeBadRequest, "assessment is required")
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return errors.New(errors.ErrCodeMessagingError, "publisher is closed")
	}
	p.mu.Unlock()

	event := AssessmentEvent{
		EventType:  EventTypeAssessmentGenerated,
		Assessment: assessment,
		EmittedAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "assessment event serialization failed")
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(assessment.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeAssessmentGenerated)},
		},
	})
	if p.metrics != nil {
		p.metrics.RecordPublish(err)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeMessagingError, "assessment event publish failed")
	}

	p.log.Debug("assessment event published",
		logging.String("assessment_id", assessment.ID),
		logging.String("overall_level", string(assessment.OverallLevel)))
	return nil
}

// Close flushes and closes the underlying writer.  Publish calls after Close
// fail fast.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if err := p.writer.Close(); err != nil {
		return errors.Wrap(err, errors.ErrCodeMessagingError, "publisher close failed")
	}
	return nil
}
