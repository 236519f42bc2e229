// Package handler implements the HTTP API: summarize, cache management, and
// error rendering.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/notewell/notesbot/internal/analytics"
	"github.com/notewell/notesbot/internal/bot"
	"github.com/notewell/notesbot/internal/bot/cache"
	"github.com/notewell/notesbot/internal/bot/validator"
	"github.com/notewell/notesbot/internal/summarize"
	"github.com/notewell/notesbot/pkg/config"
	apperrors "github.com/notewell/notesbot/pkg/errors"
	"github.com/notewell/notesbot/pkg/logger"
	"github.com/notewell/notesbot/pkg/metrics"
	"github.com/notewell/notesbot/pkg/tracing"
)

// Handler serves the summarize API.
type Handler struct {
	pipeline  *summarize.Pipeline
	cache     *cache.SummaryCache
	collector *analytics.Collector
	m         *metrics.Metrics
	cfg       config.SummarizerConfig
	logger    *slog.Logger
}

// New creates a Handler. cache, collector, and m may be nil; the handler
// degrades to uncached, unobserved operation.
func New(
	pipeline *summarize.Pipeline,
	summaryCache *cache.SummaryCache,
	collector *analytics.Collector,
	m *metrics.Metrics,
	cfg config.SummarizerConfig,
) *Handler {
	return &Handler{
		pipeline:  pipeline,
		cache:     summaryCache,
		collector: collector,
		m:         m,
		cfg:       cfg,
		logger:    slog.Default().With("component", "summarize-handler"),
	}
}

// Summarize handles POST /api/v1/summarize.
func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req bot.SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validator.ValidateSummarizeRequest(&req, h.cfg.MaxTextBytes, h.cfg.MaxTopK); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	topK := h.cfg.DefaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}

	compute := func() (*bot.SummarizeResponse, error) {
		spanCtx, span := tracing.StartSpan(ctx, "summarize", logger.RequestID(ctx))
		defer func() {
			span.End()
			span.Log()
		}()
		_, pipeSpan := tracing.StartChildSpan(spanCtx, "pipeline")
		result, err := h.pipeline.Summarize(req.Text, topK)
		pipeSpan.End()
		if err != nil {
			return nil, err
		}
		span.SetAttr("token_count", result.TokenCount)
		span.SetAttr("note_count", result.NoteCount)
		return &bot.SummarizeResponse{
			Summary:       result.Summary,
			TopK:          topK,
			TokenCount:    result.TokenCount,
			NoteCount:     result.NoteCount,
			DistinctNotes: result.DistinctNotes,
			Returned:      result.Returned,
		}, nil
	}

	var resp *bot.SummarizeResponse
	var err error
	cacheHit := false
	if h.cache != nil {
		resp, cacheHit, err = h.cache.GetOrCompute(ctx, req.Text, topK, compute)
	} else {
		resp, err = compute()
	}
	if err != nil {
		log.Error("summarization failed", "error", err)
		if h.m != nil {
			h.m.SummariesTotal.WithLabelValues("error").Inc()
		}
		h.writeError(w, apperrors.HTTPStatusCode(err), userMessage(err))
		return
	}

	latency := time.Since(start)
	h.observe(resp, cacheHit, latency)
	log.Info("summarize completed",
		"top_k", topK,
		"token_count", resp.TokenCount,
		"note_count", resp.NoteCount,
		"returned", resp.Returned,
		"cache_hit", cacheHit,
		"latency_ms", latency.Milliseconds(),
	)

	out := *resp
	out.CacheHit = cacheHit
	h.writeJSON(w, http.StatusOK, &out)
}

// CacheStats handles GET /api/v1/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]any{"enabled": false})
		return
	}
	hits, misses := h.cache.Stats()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"enabled": true,
		"hits":    hits,
		"misses":  misses,
	})
}

// CacheInvalidate handles POST /api/v1/cache/invalidate.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "cache disabled"})
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) observe(resp *bot.SummarizeResponse, cacheHit bool, latency time.Duration) {
	if h.m != nil {
		outcome := "ok"
		if resp.Summary == "" {
			outcome = "empty"
		}
		h.m.SummariesTotal.WithLabelValues(outcome).Inc()
		h.m.SummarizeLatency.WithLabelValues("http").Observe(latency.Seconds())
		h.m.NotesPerMessage.Observe(float64(resp.NoteCount))
		if cacheHit {
			h.m.CacheHitsTotal.Inc()
		} else {
			h.m.CacheMissesTotal.Inc()
		}
	}
	if h.collector != nil {
		h.collector.Track(analytics.SummarizeEvent{
			Type:          analytics.EventSummarize,
			Source:        "http",
			TopK:          resp.TopK,
			TokenCount:    resp.TokenCount,
			NoteCount:     resp.NoteCount,
			DistinctNotes: resp.DistinctNotes,
			Returned:      resp.Returned,
			TopNotes:      splitNonEmpty(resp.Summary),
			Empty:         resp.Summary == "",
			CacheHit:      cacheHit,
			LatencyMs:     latency.Milliseconds(),
			Timestamp:     time.Now().UTC(),
		})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// userMessage maps internal errors to a response body safe to return.
func userMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if errors.Is(err, apperrors.ErrInvalidArgument) {
		return "invalid argument"
	}
	return "summarization failed"
}

func splitNonEmpty(summary string) []string {
	if summary == "" {
		return nil
	}
	return strings.Split(summary, " ")
}
