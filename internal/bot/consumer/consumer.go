// Package consumer reads chat-message events from Kafka, runs each through
// the summarization pipeline, and hands non-empty summaries to the delivery
// sink.
package consumer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/notewell/notesbot/internal/analytics"
	"github.com/notewell/notesbot/internal/analytics/collector"
	"github.com/notewell/notesbot/internal/bot"
	"github.com/notewell/notesbot/internal/bot/delivery"
	"github.com/notewell/notesbot/internal/summarize"
	"github.com/notewell/notesbot/pkg/kafka"
	"github.com/notewell/notesbot/pkg/metrics"
)

// MessageConsumer wraps a Kafka consumer to drive the summarization pipeline.
type MessageConsumer struct {
	consumer *kafka.Consumer
	logger   *slog.Logger
}

// New creates a MessageConsumer backed by the given Kafka consumer.
func New(kafkaConsumer *kafka.Consumer) *MessageConsumer {
	return &MessageConsumer{
		consumer: kafkaConsumer,
		logger:   slog.Default().With("component", "message-consumer"),
	}
}

// Start begins consuming Kafka messages. It blocks until ctx is cancelled.
func (mc *MessageConsumer) Start(ctx context.Context) error {
	mc.logger.Info("message consumer starting")
	return mc.consumer.Start(ctx)
}

// HandleMessage returns a Kafka MessageHandler that summarizes each chat
// message and delivers the result. Malformed events are logged and skipped
// rather than redelivered; empty summaries are counted but not sent, since a
// bot replying with an empty message is noise. Delivery failures are the
// sink's concern and never fail the message.
func HandleMessage(
	pipeline *summarize.Pipeline,
	sink delivery.Sink,
	batch *collector.BatchCollector,
	m *metrics.Metrics,
	topK int,
) kafka.MessageHandler {
	logger := slog.Default().With("component", "message-consumer")
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[bot.MessageEvent](value)
		if err != nil {
			logger.Error("failed to decode message event",
				"error", err,
				"key", string(key),
			)
			return nil
		}
		if m != nil {
			m.MessagesConsumedTotal.Inc()
		}

		start := time.Now()
		result, err := pipeline.Summarize(event.Text, topK)
		latency := time.Since(start)
		if err != nil {
			// topK comes from config, so this is a tagger failure.
			logger.Error("summarization failed",
				"message_id", event.MessageID,
				"channel_id", event.ChannelID,
				"error", err,
			)
			if m != nil {
				m.SummariesTotal.WithLabelValues("error").Inc()
			}
			return nil
		}
		if m != nil {
			m.SummarizeLatency.WithLabelValues("kafka").Observe(latency.Seconds())
			m.NotesPerMessage.Observe(float64(result.NoteCount))
		}

		delivered := false
		if result.Summary == "" {
			logger.Debug("no notes in message, skipping delivery",
				"message_id", event.MessageID,
				"token_count", result.TokenCount,
			)
			if m != nil {
				m.SummariesTotal.WithLabelValues("empty").Inc()
				m.DeliveriesTotal.WithLabelValues("skipped").Inc()
			}
		} else {
			summary := bot.SummaryEvent{
				MessageID:     event.MessageID,
				ChannelID:     event.ChannelID,
				Summary:       result.Summary,
				TokenCount:    result.TokenCount,
				NoteCount:     result.NoteCount,
				DistinctNotes: result.DistinctNotes,
				SummarizedAt:  time.Now().UTC(),
			}
			if err := sink.Deliver(ctx, summary); err != nil {
				if m != nil {
					m.DeliveriesTotal.WithLabelValues("failed").Inc()
				}
			} else {
				delivered = true
				if m != nil {
					m.DeliveriesTotal.WithLabelValues("ok").Inc()
				}
			}
			if m != nil {
				m.SummariesTotal.WithLabelValues("ok").Inc()
			}
			logger.Info("message summarized",
				"message_id", event.MessageID,
				"channel_id", event.ChannelID,
				"notes", result.NoteCount,
				"returned", result.Returned,
				"delivered", delivered,
			)
		}

		if batch != nil {
			batch.Track(event.ChannelID, analytics.SummarizeEvent{
				Type:          analytics.EventSummarize,
				Source:        "kafka",
				TopK:          topK,
				TokenCount:    result.TokenCount,
				NoteCount:     result.NoteCount,
				DistinctNotes: result.DistinctNotes,
				Returned:      result.Returned,
				TopNotes:      splitSummary(result.Summary),
				Empty:         result.Summary == "",
				Delivered:     delivered,
				LatencyMs:     latency.Milliseconds(),
				Timestamp:     time.Now().UTC(),
			})
		}
		return nil
	}
}

func splitSummary(summary string) []string {
	if summary == "" {
		return nil
	}
	return strings.Split(summary, " ")
}
