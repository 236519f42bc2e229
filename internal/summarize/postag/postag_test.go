package postag

import (
	"strings"
	"testing"
)

func newTestTagger(t *testing.T) *ProseTagger {
	t.Helper()
	tagger, err := NewProseTagger()
	if err != nil {
		t.Fatalf("NewProseTagger failed: %v", err)
	}
	return tagger
}

func TestTagAssignsTags(t *testing.T) {
	tagger := newTestTagger(t)

	tokens, err := tagger.Tag("The team reviewed the budget.")
	if err != nil {
		t.Fatalf("Tag returned error: %v", err)
	}
	if len(tokens) == 0 {
		t.Fatal("expected tokens for non-empty text")
	}
	for _, tok := range tokens {
		if tok.Text == "" {
			t.Error("token with empty text")
		}
		if tok.Tag == "" {
			t.Errorf("token %q has empty tag", tok.Text)
		}
	}
}

func TestTagFindsNouns(t *testing.T) {
	tagger := newTestTagger(t)

	tokens, err := tagger.Tag("The team reviewed the budget.")
	if err != nil {
		t.Fatalf("Tag returned error: %v", err)
	}
	var nouns int
	for _, tok := range tokens {
		if strings.HasPrefix(tok.Tag, "NN") {
			nouns++
		}
	}
	if nouns == 0 {
		t.Error("expected at least one noun tag in a plain English sentence")
	}
}

func TestTagEmptyInput(t *testing.T) {
	tagger := newTestTagger(t)

	for _, text := range []string{"", "   ", "\n\t"} {
		tokens, err := tagger.Tag(text)
		if err != nil {
			t.Errorf("Tag(%q) returned error: %v", text, err)
		}
		if len(tokens) != 0 {
			t.Errorf("Tag(%q) returned %d tokens, expected none", text, len(tokens))
		}
	}
}

func TestTagPreservesTokenOrder(t *testing.T) {
	tagger := newTestTagger(t)

	tokens, err := tagger.Tag("alpha beta gamma")
	if err != nil {
		t.Fatalf("Tag returned error: %v", err)
	}
	var words []string
	for _, tok := range tokens {
		words = append(words, tok.Text)
	}
	joined := strings.Join(words, " ")
	if !strings.Contains(joined, "alpha") || strings.Index(joined, "alpha") > strings.Index(joined, "beta") {
		t.Errorf("token order not preserved: %v", words)
	}
}

func TestTaggerIsReusable(t *testing.T) {
	tagger := newTestTagger(t)

	first, err := tagger.Tag("The meeting starts at noon.")
	if err != nil {
		t.Fatalf("first Tag returned error: %v", err)
	}
	second, err := tagger.Tag("The meeting starts at noon.")
	if err != nil {
		t.Fatalf("second Tag returned error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("token count changed between calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("token %d changed between calls: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func BenchmarkTag(b *testing.B) {
	tagger, err := NewProseTagger()
	if err != nil {
		b.Fatalf("NewProseTagger failed: %v", err)
	}
	text := strings.Repeat("The team reviewed the budget and approved the roadmap. ", 10)
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tagger.Tag(text); err != nil {
			b.Fatal(err)
		}
	}
}
