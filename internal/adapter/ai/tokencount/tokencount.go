// Package tokencount provides token counting and truncation for prompt text.
//
// It uses tiktoken-go so that free text interpolated into generation prompts
// can be held to a token budget rather than a byte length.
package tokencount

import (
	"log/slog"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Counter provides thread-safe token counting backed by a cached encoding.
type Counter struct {
	once sync.Once
	enc  *tiktoken.Tiktoken
	err  error
}

// NewCounter creates a new token counter instance.
func NewCounter() *Counter { return &Counter{} }

// DefaultCounter is a global token counter instance.
var DefaultCounter = NewCounter()

func (c *Counter) encoding() (*tiktoken.Tiktoken, error) {
	c.once.Do(func() {
		// cl100k_base covers modern chat models and is a safe default for
		// budget estimation regardless of the local model in use.
		c.enc, c.err = tiktoken.GetEncoding("cl100k_base")
	})
	return c.enc, c.err
}

// Count returns the token count of text, or a rough estimate when the
// encoding is unavailable.
func (c *Counter) Count(text string) int {
	enc, err := c.encoding()
	if err != nil {
		slog.Debug("token encoding unavailable; estimating", slog.Any("error", err))
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

// Truncate returns text cut down to at most budget tokens. Text within budget
// is returned unchanged.
func (c *Counter) Truncate(text string, budget int) string {
	if budget <= 0 {
		return text
	}
	enc, err := c.encoding()
	if err != nil {
		// Estimate 4 bytes per token when the encoding cannot be loaded.
		if max := budget * 4; len(text) > max {
			return text[:max]
		}
		return text
	}
	toks := enc.Encode(text, nil, nil)
	if len(toks) <= budget {
		return text
	}
	return enc.Decode(toks[:budget])
}
