// Package speech provides the optional text-to-speech layer. Synthesis
// failures are never fatal to a conversation: callers log them and carry on
// without audio.
package speech

import "context"

// Synthesizer converts reply text into audio bytes (MP3). A nil byte slice
// with a nil error means the synthesizer declined (e.g. empty input).
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
