// Package validator provides input validation for summarize requests. It
// enforces text size and top-k bounds and returns per-field error details.
package validator

import (
	"fmt"
	"strings"

	"github.com/notewell/notesbot/internal/bot"
)

// ValidationError holds per-field validation failure messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	var parts []string
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s:%s", field, msg))
	}
	return strings.Join(parts, "; ")
}

// ValidateSummarizeRequest checks the request against the configured limits.
// Empty text is valid (it yields an empty summary downstream); oversized
// text and a negative or out-of-range top_k are not.
func ValidateSummarizeRequest(req *bot.SummarizeRequest, maxTextBytes, maxTopK int) error {
	errs := make(map[string]string)

	if len(req.Text) > maxTextBytes {
		errs["text"] = fmt.Sprintf("text must be at most %d bytes, got %d", maxTextBytes, len(req.Text))
	}
	if req.TopK != nil {
		if *req.TopK < 0 {
			errs["top_k"] = "top_k must be non-negative"
		} else if *req.TopK > maxTopK {
			errs["top_k"] = fmt.Sprintf("top_k must be at most %d", maxTopK)
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
