// Package analytics collects summarization events, aggregates them into
// service-level stats, and serves them over HTTP.
package analytics

import "time"

// EventType discriminates analytics event payloads on the wire.
type EventType string

const (
	EventSummarize EventType = "summarize"
)

// SummarizeEvent records one run of the summarization pipeline. Only
// aggregate-friendly counts and the top notes travel here; full message text
// never leaves the bot.
type SummarizeEvent struct {
	Type          EventType `json:"type"`
	Source        string    `json:"source"` // "http" or "kafka"
	TopK          int       `json:"top_k"`
	TokenCount    int       `json:"token_count"`
	NoteCount     int       `json:"note_count"`
	DistinctNotes int       `json:"distinct_notes"`
	Returned      int       `json:"returned"`
	TopNotes      []string  `json:"top_notes,omitempty"`
	Empty         bool      `json:"empty"`
	CacheHit      bool      `json:"cache_hit"`
	Delivered     bool      `json:"delivered"`
	LatencyMs     int64     `json:"latency_ms"`
	Timestamp     time.Time `json:"timestamp"`
}
