// Package postag provides word tokenisation with part-of-speech tagging.
// The Tagger interface keeps the tagging backend pluggable; the default
// backend is the prose library's embedded English model, which emits Penn
// Treebank tags (NN, NNS, VB, VBD, ...).
package postag

// Token is a single word with its part-of-speech tag, as produced by a
// Tagger. Tokens are immutable and scoped to one summarization call.
type Token struct {
	Text string
	Tag  string
}

// Tagger splits raw text into word tokens and assigns each a part-of-speech
// tag. Implementations must be safe for concurrent use: the tagging model is
// loaded once and never mutated.
//
// Empty or whitespace-only input yields an empty token slice, not an error.
type Tagger interface {
	Tag(text string) ([]Token, error)
}
