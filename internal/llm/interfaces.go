// Package llm provides the completion providers behind the conversation
// engine. All providers implement TextGenerator and route calls through a
// circuit breaker so a flapping upstream degrades to ordinary completion
// errors instead of hammering the API.
package llm

import "context"

// TextGenerator is the completion interface the conversation engine calls.
// systemPrompt carries the composed role/invocation/memory framing; userText
// is the raw user turn.
type TextGenerator interface {
	Complete(ctx context.Context, systemPrompt, userText string) (string, error)
	Model() string
}
