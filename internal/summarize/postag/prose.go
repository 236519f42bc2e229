package postag

import (
	"fmt"
	"net/http"
	"strings"

	prose "github.com/jdkato/prose/v2"

	apperrors "github.com/notewell/notesbot/pkg/errors"
)

// ProseTagger tags text with the prose library's statistical English model.
// The model ships inside the library and is read-only after load, so a single
// ProseTagger is safe for concurrent use.
type ProseTagger struct{}

// NewProseTagger constructs the tagger and forces the model to load by
// tagging a short probe string. A load failure is reported as
// ErrResourceUnavailable here rather than on the first real call.
func NewProseTagger() (*ProseTagger, error) {
	t := &ProseTagger{}
	if _, err := t.Tag("probe"); err != nil {
		return nil, apperrors.Newf(apperrors.ErrResourceUnavailable,
			http.StatusServiceUnavailable, "loading tagging model: %v", err)
	}
	return t, nil
}

// Tag tokenises text and assigns part-of-speech tags. Whitespace-only input
// returns an empty slice.
func (t *ProseTagger) Tag(text string) ([]Token, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	doc, err := prose.NewDocument(text,
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return nil, fmt.Errorf("tagging text: %w", err)
	}
	proseTokens := doc.Tokens()
	tokens := make([]Token, 0, len(proseTokens))
	for _, tok := range proseTokens {
		tokens = append(tokens, Token{Text: tok.Text, Tag: tok.Tag})
	}
	return tokens, nil
}
