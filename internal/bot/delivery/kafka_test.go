package delivery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/notewell/notesbot/internal/bot"
	apperrors "github.com/notewell/notesbot/pkg/errors"
	"github.com/notewell/notesbot/pkg/kafka"
	"github.com/notewell/notesbot/pkg/resilience"
)

type fakePublisher struct {
	events []kafka.Event
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, event kafka.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func TestDeliverPublishesKeyedByChannel(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewKafkaSink(pub)

	event := bot.SummaryEvent{
		MessageID:    "msg-1",
		ChannelID:    "chan-42",
		Summary:      "budget team",
		SummarizedAt: time.Now().UTC(),
	}
	if err := sink.Deliver(context.Background(), event); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 publish, got %d", len(pub.events))
	}
	if pub.events[0].Key != "chan-42" {
		t.Errorf("expected key %q, got %q", "chan-42", pub.events[0].Key)
	}
}

func TestDeliverWrapsFailureAsDeliveryUnavailable(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker unreachable")}
	sink := NewKafkaSink(pub)

	err := sink.Deliver(context.Background(), bot.SummaryEvent{ChannelID: "chan-1"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, apperrors.ErrDeliveryUnavailable) {
		t.Errorf("expected ErrDeliveryUnavailable, got %v", err)
	}
}

func TestDeliverOpensBreakerAfterRepeatedFailures(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker unreachable")}
	sink := NewKafkaSink(pub)

	if sink.BreakerState() != resilience.StateClosed {
		t.Fatalf("expected closed breaker initially, got %v", sink.BreakerState())
	}
	// The failure threshold is 5; each Deliver counts one breaker failure.
	for i := 0; i < 5; i++ {
		_ = sink.Deliver(context.Background(), bot.SummaryEvent{ChannelID: "chan-1"})
	}
	if sink.BreakerState() != resilience.StateOpen {
		t.Errorf("expected open breaker after repeated failures, got %v", sink.BreakerState())
	}

	// While open, delivery fails fast without reaching the publisher.
	published := len(pub.events)
	_ = sink.Deliver(context.Background(), bot.SummaryEvent{ChannelID: "chan-1"})
	if len(pub.events) != published {
		t.Error("publish attempted while breaker open")
	}
}
