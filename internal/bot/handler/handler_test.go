package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/notewell/notesbot/internal/bot"
	"github.com/notewell/notesbot/internal/summarize"
	"github.com/notewell/notesbot/internal/summarize/postag"
	"github.com/notewell/notesbot/pkg/config"
)

// stubTagger tags every word with NN so the pipeline produces predictable
// summaries without the real model.
type stubTagger struct{}

func (stubTagger) Tag(text string) ([]postag.Token, error) {
	words := strings.Fields(text)
	tokens := make([]postag.Token, 0, len(words))
	for _, w := range words {
		tokens = append(tokens, postag.Token{Text: w, Tag: "NN"})
	}
	return tokens, nil
}

func newTestHandler() *Handler {
	pipeline := summarize.New(stubTagger{})
	cfg := config.SummarizerConfig{
		DefaultTopK:  5,
		MaxTopK:      25,
		MaxTextBytes: 1024,
	}
	return New(pipeline, nil, nil, nil, cfg)
}

func postSummarize(t *testing.T, h *Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/summarize", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Summarize(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) bot.SummarizeResponse {
	t.Helper()
	var resp bot.SummarizeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp
}

func TestSummarizeEndpoint(t *testing.T) {
	h := newTestHandler()
	topK := 2

	rec := postSummarize(t, h, bot.SummarizeRequest{
		Text: "budget team budget roadmap",
		TopK: &topK,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if resp.Summary != "budget team" {
		t.Errorf("expected summary %q, got %q", "budget team", resp.Summary)
	}
	if resp.TopK != 2 {
		t.Errorf("expected top_k 2, got %d", resp.TopK)
	}
	if resp.TokenCount != 4 {
		t.Errorf("expected token_count 4, got %d", resp.TokenCount)
	}
	if resp.NoteCount != 4 {
		t.Errorf("expected note_count 4, got %d", resp.NoteCount)
	}
	if resp.DistinctNotes != 3 {
		t.Errorf("expected distinct_notes 3, got %d", resp.DistinctNotes)
	}
	if resp.CacheHit {
		t.Error("cache_hit should be false without a cache")
	}
}

func TestSummarizeUsesDefaultTopK(t *testing.T) {
	h := newTestHandler()

	rec := postSummarize(t, h, bot.SummarizeRequest{
		Text: "one two three four five six seven",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if resp.TopK != 5 {
		t.Errorf("expected default top_k 5, got %d", resp.TopK)
	}
	if resp.Returned != 5 {
		t.Errorf("expected 5 entries returned, got %d", resp.Returned)
	}
}

func TestSummarizeExplicitZeroTopK(t *testing.T) {
	h := newTestHandler()
	zero := 0

	rec := postSummarize(t, h, bot.SummarizeRequest{Text: "budget team", TopK: &zero})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if resp.Summary != "" {
		t.Errorf("expected empty summary for top_k=0, got %q", resp.Summary)
	}
	if resp.TopK != 0 {
		t.Errorf("expected top_k 0, got %d", resp.TopK)
	}
}

func TestSummarizeEmptyText(t *testing.T) {
	h := newTestHandler()

	rec := postSummarize(t, h, bot.SummarizeRequest{Text: ""})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty text, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if resp.Summary != "" {
		t.Errorf("expected empty summary, got %q", resp.Summary)
	}
}

func TestSummarizeRejectsNegativeTopK(t *testing.T) {
	h := newTestHandler()
	neg := -1

	rec := postSummarize(t, h, bot.SummarizeRequest{Text: "budget", TopK: &neg})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative top_k, got %d", rec.Code)
	}
}

func TestSummarizeRejectsOversizedText(t *testing.T) {
	h := newTestHandler()

	rec := postSummarize(t, h, bot.SummarizeRequest{Text: strings.Repeat("x", 2048)})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized text, got %d", rec.Code)
	}
}

func TestSummarizeRejectsInvalidJSON(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/summarize", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Summarize(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid JSON, got %d", rec.Code)
	}
}

func TestCacheStatsWithoutCache(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cache/stats", nil)
	rec := httptest.NewRecorder()
	h.CacheStats(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if enabled, _ := body["enabled"].(bool); enabled {
		t.Error("expected enabled=false without a cache")
	}
}

func TestCacheInvalidateWithoutCache(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cache/invalidate", nil)
	rec := httptest.NewRecorder()
	h.CacheInvalidate(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
