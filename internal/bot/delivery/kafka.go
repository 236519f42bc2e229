package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/notewell/notesbot/internal/bot"
	apperrors "github.com/notewell/notesbot/pkg/errors"
	"github.com/notewell/notesbot/pkg/kafka"
	"github.com/notewell/notesbot/pkg/resilience"
)

// Publisher is the subset of the Kafka producer the sink needs; *kafka.Producer
// satisfies it.
type Publisher interface {
	Publish(ctx context.Context, event kafka.Event) error
}

// KafkaSink delivers summaries by publishing them to the summaries topic.
// Publishes go through a retry with backoff inside a circuit breaker, so a
// broker outage degrades to fast-failing instead of piling up blocked
// deliveries.
type KafkaSink struct {
	producer Publisher
	breaker  *resilience.CircuitBreaker
	retry    resilience.RetryConfig
	logger   *slog.Logger
}

// NewKafkaSink creates a KafkaSink over the given publisher.
func NewKafkaSink(producer Publisher) *KafkaSink {
	return &KafkaSink{
		producer: producer,
		breaker: resilience.NewCircuitBreaker("summary-delivery", resilience.CircuitBreakerConfig{
			FailureThreshold: 5,
			ResetTimeout:     15 * time.Second,
		}),
		retry: resilience.RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 50 * time.Millisecond,
			MaxDelay:     2 * time.Second,
		},
		logger: slog.Default().With("component", "kafka-sink"),
	}
}

// Deliver publishes the summary event, keyed by channel so summaries for one
// channel stay ordered.
func (s *KafkaSink) Deliver(ctx context.Context, event bot.SummaryEvent) error {
	err := s.breaker.Execute(func() error {
		return resilience.Retry(ctx, "deliver-summary", s.retry, func() error {
			return s.producer.Publish(ctx, kafka.Event{
				Key:   event.ChannelID,
				Value: event,
			})
		})
	})
	if err != nil {
		s.logger.Error("summary delivery failed",
			"message_id", event.MessageID,
			"channel_id", event.ChannelID,
			"error", err,
		)
		return fmt.Errorf("%w: %v", apperrors.ErrDeliveryUnavailable, err)
	}
	s.logger.Debug("summary delivered",
		"message_id", event.MessageID,
		"channel_id", event.ChannelID,
	)
	return nil
}

// BreakerState exposes the circuit state for metrics.
func (s *KafkaSink) BreakerState() resilience.State {
	return s.breaker.GetState()
}
