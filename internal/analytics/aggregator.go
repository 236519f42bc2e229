package analytics

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/notewell/notesbot/pkg/kafka"
)

// AggregatedStats is a point-in-time snapshot of service activity.
type AggregatedStats struct {
	TotalSummaries     int64       `json:"total_summaries"`
	EmptySummaries     int64       `json:"empty_summaries"`
	DeliveredSummaries int64       `json:"delivered_summaries"`
	CacheHits          int64       `json:"cache_hits"`
	CacheMisses        int64       `json:"cache_misses"`
	AvgLatencyMs       float64     `json:"avg_latency_ms"`
	P50LatencyMs       int64       `json:"p50_latency_ms"`
	P95LatencyMs       int64       `json:"p95_latency_ms"`
	P99LatencyMs       int64       `json:"p99_latency_ms"`
	AvgNotesPerMessage float64     `json:"avg_notes_per_message"`
	TopNotes           []NoteCount `json:"top_notes"`
	SummariesPerMinute float64     `json:"summaries_per_minute"`
}

// NoteCount pairs a note with how often it appeared in summaries.
type NoteCount struct {
	Note  string `json:"note"`
	Count int64  `json:"count"`
}

// Aggregator consumes analytics events from Kafka and maintains in-memory
// aggregate stats.
type Aggregator struct {
	mu             sync.RWMutex
	totalSummaries atomic.Int64
	emptySummaries atomic.Int64
	delivered      atomic.Int64
	cacheHits      atomic.Int64
	cacheMisses    atomic.Int64
	latencies      []int64
	totalNotes     int64
	noteCounts     map[string]int64
	startTime      time.Time

	logger *slog.Logger
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		latencies:  make([]int64, 0, 10000),
		noteCounts: make(map[string]int64),
		startTime:  time.Now(),
		logger:     slog.Default().With("component", "analytics-aggregator"),
	}
}

// Start begins consuming analytics events from the given consumer. It blocks
// until ctx is cancelled.
func (a *Aggregator) Start(ctx context.Context, consumer *kafka.Consumer) error {
	a.logger.Info("analytics aggregator starting")
	return consumer.Start(ctx)
}

// HandleEvent returns a Kafka MessageHandler that feeds the aggregator.
func HandleEvent(agg *Aggregator) kafka.MessageHandler {
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[SummarizeEvent](value)
		if err != nil {
			agg.logger.Error("failed to decode analytics event", "error", err)
			return nil
		}
		agg.Record(event)
		return nil
	}
}

// Record folds one event into the aggregate state.
func (a *Aggregator) Record(event SummarizeEvent) {
	a.totalSummaries.Add(1)
	if event.Empty {
		a.emptySummaries.Add(1)
	}
	if event.Delivered {
		a.delivered.Add(1)
	}
	if event.CacheHit {
		a.cacheHits.Add(1)
	} else {
		a.cacheMisses.Add(1)
	}

	a.mu.Lock()
	a.latencies = append(a.latencies, event.LatencyMs)
	a.totalNotes += int64(event.NoteCount)
	for _, note := range event.TopNotes {
		a.noteCounts[note]++
	}
	a.mu.Unlock()
}

// Stats returns a snapshot of the aggregate state.
func (a *Aggregator) Stats() AggregatedStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := AggregatedStats{
		TotalSummaries:     a.totalSummaries.Load(),
		EmptySummaries:     a.emptySummaries.Load(),
		DeliveredSummaries: a.delivered.Load(),
		CacheHits:          a.cacheHits.Load(),
		CacheMisses:        a.cacheMisses.Load(),
	}
	if len(a.latencies) > 0 {
		sorted := make([]int64, len(a.latencies))
		copy(sorted, a.latencies)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		var sum int64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyMs = float64(sum) / float64(len(sorted))
		stats.P50LatencyMs = percentile(sorted, 50)
		stats.P95LatencyMs = percentile(sorted, 95)
		stats.P99LatencyMs = percentile(sorted, 99)
	}
	if stats.TotalSummaries > 0 {
		stats.AvgNotesPerMessage = float64(a.totalNotes) / float64(stats.TotalSummaries)
	}
	stats.TopNotes = topN(a.noteCounts, 10)
	elapsed := time.Since(a.startTime).Minutes()
	if elapsed > 0 {
		stats.SummariesPerMinute = float64(stats.TotalSummaries) / elapsed
	}
	return stats
}

func percentile(sorted []int64, pct int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (pct * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func topN(counts map[string]int64, n int) []NoteCount {
	result := make([]NoteCount, 0, len(counts))
	for note, count := range counts {
		result = append(result, NoteCount{Note: note, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Note < result[j].Note
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}
