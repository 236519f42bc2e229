// Package summarize composes the tokenizer/tagger, note extractor, and
// frequency summarizer into a single synchronous pipeline:
//
//	raw text -> tag -> extract nouns/verbs -> rank by frequency -> summary
//
// A Pipeline holds only the read-only tagging backend and is safe for
// concurrent use; every call builds and discards its own intermediate state.
package summarize

import (
	"strings"

	"github.com/notewell/notesbot/internal/summarize/frequency"
	"github.com/notewell/notesbot/internal/summarize/notes"
	"github.com/notewell/notesbot/internal/summarize/postag"
)

// DefaultTopK is the number of summary entries produced when the caller does
// not specify one.
const DefaultTopK = 5

// Result carries the summary string plus the counts the service layer
// reports in responses and analytics events.
type Result struct {
	Summary       string `json:"summary"`
	TokenCount    int    `json:"token_count"`
	NoteCount     int    `json:"note_count"`
	DistinctNotes int    `json:"distinct_notes"`
	Returned      int    `json:"returned"`
}

// Pipeline is the stateless summarization core.
type Pipeline struct {
	tagger postag.Tagger
}

// New creates a Pipeline over the given tagging backend.
func New(tagger postag.Tagger) *Pipeline {
	return &Pipeline{tagger: tagger}
}

// Summarize runs the full pipeline and returns the summary along with token
// and note counts. Degenerate text (empty, punctuation-only, no nouns or
// verbs) produces an empty summary, not an error; the only caller error is a
// negative k.
func (p *Pipeline) Summarize(text string, k int) (Result, error) {
	tokens, err := p.tagger.Tag(text)
	if err != nil {
		return Result{}, err
	}
	extracted := notes.Extract(tokens)
	ranked, err := frequency.Top(extracted, k)
	if err != nil {
		return Result{}, err
	}
	parts := make([]string, 0, len(ranked))
	for _, nc := range ranked {
		parts = append(parts, nc.Note)
	}
	return Result{
		Summary:       strings.Join(parts, " "),
		TokenCount:    len(tokens),
		NoteCount:     len(extracted),
		DistinctNotes: distinct(extracted),
		Returned:      len(ranked),
	}, nil
}

// SummarizeText is the plain string-in, string-out form of Summarize.
func (p *Pipeline) SummarizeText(text string, k int) (string, error) {
	result, err := p.Summarize(text, k)
	if err != nil {
		return "", err
	}
	return result.Summary, nil
}

func distinct(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}
