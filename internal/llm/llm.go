package llm

import (
	"context"
	"errors"
	"strings"
)

// Client sends a single prompt to the generative model and returns the text of
// its first candidate. With structured set, the model is asked for JSON text.
type Client interface {
	Generate(ctx context.Context, prompt string, structured bool) (string, error)
}

// ErrEmptyResponse is returned when the response has no candidate text.
var ErrEmptyResponse = errors.New("response contained no generated text")

// StripCodeFence removes a surrounding Markdown code fence (```json ... ```)
// that models sometimes wrap structured output in.
func StripCodeFence(input string) string {
	clean := strings.TrimSpace(input)
	if !strings.HasPrefix(clean, "```") {
		return clean
	}
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
