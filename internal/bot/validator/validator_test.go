package validator

import (
	"strings"
	"testing"

	"github.com/notewell/notesbot/internal/bot"
)

func intPtr(v int) *int { return &v }

func TestValidateSummarizeRequest(t *testing.T) {
	const (
		maxTextBytes = 1024
		maxTopK      = 25
	)

	tests := []struct {
		name      string
		req       bot.SummarizeRequest
		wantField string
	}{
		{
			name: "valid request",
			req:  bot.SummarizeRequest{Text: "The team reviewed the budget.", TopK: intPtr(5)},
		},
		{
			name: "empty text is valid",
			req:  bot.SummarizeRequest{Text: ""},
		},
		{
			name: "absent top_k is valid",
			req:  bot.SummarizeRequest{Text: "some notes"},
		},
		{
			name: "explicit zero top_k is valid",
			req:  bot.SummarizeRequest{Text: "some notes", TopK: intPtr(0)},
		},
		{
			name: "top_k at max is valid",
			req:  bot.SummarizeRequest{Text: "some notes", TopK: intPtr(maxTopK)},
		},
		{
			name:      "negative top_k",
			req:       bot.SummarizeRequest{Text: "some notes", TopK: intPtr(-1)},
			wantField: "top_k",
		},
		{
			name:      "top_k above max",
			req:       bot.SummarizeRequest{Text: "some notes", TopK: intPtr(maxTopK + 1)},
			wantField: "top_k",
		},
		{
			name:      "oversized text",
			req:       bot.SummarizeRequest{Text: strings.Repeat("x", maxTextBytes+1)},
			wantField: "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSummarizeRequest(&tt.req, maxTextBytes, maxTopK)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if _, present := verr.Fields[tt.wantField]; !present {
				t.Errorf("expected error on field %q, got %v", tt.wantField, verr.Fields)
			}
		})
	}
}

func TestValidationErrorReportsAllFields(t *testing.T) {
	req := bot.SummarizeRequest{
		Text: strings.Repeat("x", 100),
		TopK: intPtr(-1),
	}
	err := ValidateSummarizeRequest(&req, 10, 25)
	if err == nil {
		t.Fatal("expected validation error")
	}
	verr := err.(*ValidationError)
	if len(verr.Fields) != 2 {
		t.Errorf("expected 2 field errors, got %v", verr.Fields)
	}
	if !strings.Contains(verr.Error(), "top_k") {
		t.Errorf("error string missing top_k: %q", verr.Error())
	}
}
