package summarize

import (
	"errors"
	"strings"
	"testing"

	"github.com/notewell/notesbot/internal/summarize/postag"
	apperrors "github.com/notewell/notesbot/pkg/errors"
)

// lexiconTagger is a deterministic tagging backend for tests. It splits on
// whitespace, strips trailing sentence punctuation, and assigns tags from a
// fixed lexicon. Unknown words tag as DT so they never count as notes.
type lexiconTagger struct {
	lexicon map[string]string
}

func newLexiconTagger() *lexiconTagger {
	return &lexiconTagger{lexicon: map[string]string{
		"team":      "NN",
		"budget":    "NN",
		"roadmap":   "NN",
		"Alice":     "NNP",
		"releases":  "NNS",
		"reviewed":  "VBD",
		"approved":  "VBN",
		"was":       "VBD",
		"presented": "VBD",
		"covered":   "VBD",
		"very":      "RB",
		"quickly":   "RB",
		"extremely": "RB",
		"well":      "RB",
	}}
}

func (lt *lexiconTagger) Tag(text string) ([]postag.Token, error) {
	words := strings.Fields(text)
	tokens := make([]postag.Token, 0, len(words))
	for _, w := range words {
		w = strings.TrimRight(w, ".,!?")
		if w == "" {
			continue
		}
		tag, ok := lt.lexicon[w]
		if !ok {
			tag = "DT"
		}
		tokens = append(tokens, postag.Token{Text: w, Tag: tag})
	}
	return tokens, nil
}

type failingTagger struct{}

func (failingTagger) Tag(string) ([]postag.Token, error) {
	return nil, apperrors.New(apperrors.ErrResourceUnavailable, 503, "model not loaded")
}

func TestSummarizeRanksRepeatedNotesFirst(t *testing.T) {
	p := New(newLexiconTagger())

	text := "The team reviewed the budget. The budget was approved by the team."
	result, err := p.Summarize(text, 5)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}

	parts := strings.Split(result.Summary, " ")
	// team and budget each appear twice; the single-occurrence verbs follow
	// in first-seen order.
	want := []string{"team", "budget", "reviewed", "was", "approved"}
	if len(parts) != len(want) {
		t.Fatalf("expected %d summary entries, got %d: %q", len(want), len(parts), result.Summary)
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Errorf("entry %d: expected %q, got %q (summary %q)", i, want[i], parts[i], result.Summary)
		}
	}
	if result.Returned != 5 {
		t.Errorf("expected Returned=5, got %d", result.Returned)
	}
	if result.DistinctNotes != 5 {
		t.Errorf("expected DistinctNotes=5, got %d", result.DistinctNotes)
	}
	if result.NoteCount != 7 {
		t.Errorf("expected NoteCount=7, got %d", result.NoteCount)
	}
}

func TestSummarizeTruncatesToK(t *testing.T) {
	p := New(newLexiconTagger())

	result, err := p.Summarize("team reviewed budget roadmap releases", 2)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	parts := strings.Split(result.Summary, " ")
	if len(parts) != 2 {
		t.Errorf("expected 2 entries, got %d: %q", len(parts), result.Summary)
	}
	if result.Returned != 2 {
		t.Errorf("expected Returned=2, got %d", result.Returned)
	}
}

func TestSummarizeNoNotesYieldsEmptySummary(t *testing.T) {
	p := New(newLexiconTagger())

	result, err := p.Summarize("Very quickly and extremely well.", 5)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if result.Summary != "" {
		t.Errorf("expected empty summary, got %q", result.Summary)
	}
	if result.NoteCount != 0 {
		t.Errorf("expected NoteCount=0, got %d", result.NoteCount)
	}
	if result.TokenCount == 0 {
		t.Error("expected nonzero TokenCount for non-empty text")
	}
}

func TestSummarizeTextEmptyInput(t *testing.T) {
	p := New(newLexiconTagger())

	got, err := p.SummarizeText("", 5)
	if err != nil {
		t.Fatalf("SummarizeText returned error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty summary for empty text, got %q", got)
	}
}

func TestSummarizeTextZeroK(t *testing.T) {
	p := New(newLexiconTagger())

	got, err := p.SummarizeText("The team reviewed the budget.", 0)
	if err != nil {
		t.Fatalf("SummarizeText returned error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty summary for k=0, got %q", got)
	}
}

func TestSummarizeNegativeK(t *testing.T) {
	p := New(newLexiconTagger())

	_, err := p.Summarize("team budget", -1)
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSummarizePropagatesTaggerError(t *testing.T) {
	p := New(failingTagger{})

	_, err := p.Summarize("team budget", 5)
	if !errors.Is(err, apperrors.ErrResourceUnavailable) {
		t.Errorf("expected ErrResourceUnavailable, got %v", err)
	}
}

func TestSummarizeIsIdempotent(t *testing.T) {
	p := New(newLexiconTagger())
	text := "Alice presented the roadmap and the roadmap covered three releases."

	first, err := p.SummarizeText(text, 5)
	if err != nil {
		t.Fatalf("SummarizeText returned error: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := p.SummarizeText(text, 5)
		if err != nil {
			t.Fatalf("iteration %d: SummarizeText returned error: %v", i, err)
		}
		if again != first {
			t.Fatalf("iteration %d: summary changed from %q to %q", i, first, again)
		}
	}
}
