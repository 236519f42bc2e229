// Package frequency ranks extracted notes by occurrence count and renders
// the top-K entries as a space-joined summary string.
package frequency

import (
	"net/http"
	"sort"
	"strings"

	apperrors "github.com/notewell/notesbot/pkg/errors"
)

// NoteCount pairs a distinct note surface form with its occurrence count.
type NoteCount struct {
	Note  string `json:"note"`
	Count int    `json:"count"`
}

// Top counts occurrences per distinct surface form and returns the k most
// frequent entries, descending by count. Entries with equal counts keep
// their first-occurrence order in the input, so output is deterministic and
// never depends on map iteration order.
//
// k == 0 returns an empty slice; k < 0 is rejected with ErrInvalidArgument.
// If fewer than k distinct notes exist, all of them are returned.
func Top(notes []string, k int) ([]NoteCount, error) {
	if k < 0 {
		return nil, apperrors.Newf(apperrors.ErrInvalidArgument,
			http.StatusBadRequest, "top-k must be non-negative, got %d", k)
	}
	if k == 0 || len(notes) == 0 {
		return []NoteCount{}, nil
	}

	// Frequency table scoped to this call: counts plus the index at which
	// each distinct note first appeared, for the tie-break.
	counts := make(map[string]int, len(notes))
	firstSeen := make(map[string]int, len(notes))
	order := make([]string, 0, len(notes))
	for i, note := range notes {
		if _, seen := counts[note]; !seen {
			firstSeen[note] = i
			order = append(order, note)
		}
		counts[note]++
	}

	ranked := make([]NoteCount, 0, len(order))
	for _, note := range order {
		ranked = append(ranked, NoteCount{Note: note, Count: counts[note]})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return firstSeen[ranked[i].Note] < firstSeen[ranked[j].Note]
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked, nil
}

// Summarize joins the top-k notes with single spaces into the summary
// string. Empty input or k == 0 yields an empty string.
func Summarize(notes []string, k int) (string, error) {
	ranked, err := Top(notes, k)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(ranked))
	for _, nc := range ranked {
		parts = append(parts, nc.Note)
	}
	return strings.Join(parts, " "), nil
}
