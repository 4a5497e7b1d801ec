// Package tokens estimates prompt sizes for the composer so users see
// a rough token count before starting a turn.
package tokens

import (
	"github.com/pkoukk/tiktoken-go"
)

// Estimator counts tokens for draft prompts. The exact tokenizer
// depends on the model the runtime is configured with; when the
// encoding cannot be loaded the estimator falls back to a character
// heuristic so the dashboard still shows a usable number offline.
type Estimator struct {
	tokenizer *tiktoken.Tiktoken
}

// New builds an estimator for the given model name. An empty or
// unknown model falls back to cl100k_base, and if no encoding loads
// at all the heuristic estimator is returned rather than an error.
func New(model string) *Estimator {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return &Estimator{}
		}
	}
	return &Estimator{tokenizer: enc}
}

// Heuristic returns an estimator that never loads an encoding.
func Heuristic() *Estimator {
	return &Estimator{}
}

// Count returns the token count for text. With no tokenizer loaded it
// approximates at four characters per token, rounding up.
func (e *Estimator) Count(text string) int {
	if text == "" {
		return 0
	}
	if e.tokenizer != nil {
		return len(e.tokenizer.Encode(text, nil, nil))
	}
	return (len(text) + 3) / 4
}

// Exact reports whether counts come from a real encoding rather than
// the character heuristic.
func (e *Estimator) Exact() bool {
	return e.tokenizer != nil
}
