// Package llm wraps local generation backends behind a single Generate
// call: submit a prompt, receive text, within a configured timeout.
package llm

import "errors"

// ErrUnavailable marks an unreachable or timed-out generation backend. The
// caller decides whether to resubmit, nothing here retries.
var ErrUnavailable = errors.New("generation backend unavailable")

// Options carries the model identity and sampling parameters. The low
// defaults in config (temperature 0.3, top_p 0.85) bias the model toward
// factual answers.
type Options struct {
	Model         string
	System        string
	Temperature   float32
	MaxTokens     int
	TopK          int
	TopP          float32
	RepeatPenalty float32
}
