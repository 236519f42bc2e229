// Package notes filters part-of-speech-tagged tokens down to the subset
// considered summary-worthy: nouns and verbs.
package notes

import (
	"strings"

	"github.com/notewell/notesbot/internal/summarize/postag"
)

// Tag-family prefixes in the Penn Treebank set. "NN" covers NN, NNS, NNP,
// NNPS; "VB" covers VB, VBD, VBG, VBN, VBP, VBZ.
const (
	nounPrefix = "NN"
	verbPrefix = "VB"
)

// Extract returns the surface text of every noun or verb token, in original
// order, duplicates retained. Case is preserved as extracted. A slice with
// no matching tokens comes back empty, never nil-vs-error.
func Extract(tokens []postag.Token) []string {
	extracted := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if IsNote(tok.Tag) {
			extracted = append(extracted, tok.Text)
		}
	}
	return extracted
}

// IsNote reports whether a part-of-speech tag belongs to the noun or verb
// tag families.
func IsNote(tag string) bool {
	return strings.HasPrefix(tag, nounPrefix) || strings.HasPrefix(tag, verbPrefix)
}
