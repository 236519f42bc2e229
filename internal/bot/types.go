// Package bot defines the event schemas and HTTP request/response types used
// by the meeting-notes summarization service.
package bot

import "time"

// MessageEvent is the chat-message payload consumed from the message bus.
// The chat-platform binding that produces it is outside this service.
type MessageEvent struct {
	MessageID string    `json:"message_id"`
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	PostedAt  time.Time `json:"posted_at"`
}

// SummaryEvent is handed to the delivery sink for transport back to the
// originating channel.
type SummaryEvent struct {
	MessageID     string    `json:"message_id"`
	ChannelID     string    `json:"channel_id"`
	Summary       string    `json:"summary"`
	TokenCount    int       `json:"token_count"`
	NoteCount     int       `json:"note_count"`
	DistinctNotes int       `json:"distinct_notes"`
	SummarizedAt  time.Time `json:"summarized_at"`
}

// SummarizeRequest is the JSON body accepted by the summarize HTTP endpoint.
// TopK is a pointer so that an absent field (use the configured default) is
// distinguishable from an explicit 0 (empty summary).
type SummarizeRequest struct {
	Text string `json:"text"`
	TopK *int   `json:"top_k,omitempty"`
}

// SummarizeResponse is returned by the summarize HTTP endpoint.
type SummarizeResponse struct {
	Summary       string `json:"summary"`
	TopK          int    `json:"top_k"`
	TokenCount    int    `json:"token_count"`
	NoteCount     int    `json:"note_count"`
	DistinctNotes int    `json:"distinct_notes"`
	Returned      int    `json:"returned"`
	CacheHit      bool   `json:"cache_hit"`
}
