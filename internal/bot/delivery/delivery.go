// Package delivery defines the outbound collaborator boundary for summary
// transport. The summarization core never talks to the chat platform
// directly; it hands a SummaryEvent to a Sink and treats delivery failures
// as the sink's concern.
package delivery

import (
	"context"

	"github.com/notewell/notesbot/internal/bot"
)

// Sink transports a summary back to the requesting channel.
type Sink interface {
	Deliver(ctx context.Context, event bot.SummaryEvent) error
}
