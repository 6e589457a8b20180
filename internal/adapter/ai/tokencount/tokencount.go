// Package tokencount provides token counting for LLM API calls.
//
// It uses tiktoken-go to measure prompt sizes so the parser can decide when a
// resume needs to be split into chunks and how large each chunk may be.
package tokencount

import (
	"log/slog"
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Counter provides thread-safe token counting for LLM models.
type Counter struct {
	encodingCache map[string]*tiktoken.Tiktoken
	mu            sync.RWMutex
}

// NewCounter creates a new token counter instance.
func NewCounter() *Counter {
	return &Counter{
		encodingCache: make(map[string]*tiktoken.Tiktoken),
	}
}

// DefaultCounter is a global token counter instance.
var DefaultCounter = NewCounter()

// getEncodingForModel returns the tiktoken encoding for a model, caching
// encodings for reuse.
func (c *Counter) getEncodingForModel(model string) (*tiktoken.Tiktoken, error) {
	normalized := normalizeModelName(model)

	c.mu.RLock()
	if enc, ok := c.encodingCache[normalized]; ok {
		c.mu.RUnlock()
		return enc, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if enc, ok := c.encodingCache[normalized]; ok {
		return enc, nil
	}

	enc, err := tiktoken.EncodingForModel(normalized)
	if err != nil {
		// cl100k_base covers GPT-4, GPT-3.5-turbo, and most modern models.
		slog.Debug("falling back to cl100k_base encoding",
			slog.String("model", model),
			slog.String("normalized", normalized),
			slog.Any("error", err))
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}

	c.encodingCache[normalized] = enc
	return enc, nil
}

// normalizeModelName converts model IDs to tiktoken-compatible names.
func normalizeModelName(model string) string {
	model = strings.ToLower(model)

	// OpenRouter model IDs carry provider prefixes,
	// e.g. "meta-llama/llama-3.1-8b-instruct:free".
	if strings.Contains(model, "/") {
		parts := strings.Split(model, "/")
		model = parts[len(parts)-1]
	}
	model = strings.TrimSuffix(model, ":free")

	switch {
	case strings.Contains(model, "gpt-3.5"):
		return "gpt-3.5-turbo"
	case strings.Contains(model, "gpt-4"):
		return "gpt-4"
	default:
		// Llama, Mistral, Qwen, Claude and friends tokenize close enough to
		// cl100k_base for chunk sizing purposes.
		return "gpt-4"
	}
}

// CountTokens counts the number of tokens in text for a given model.
func (c *Counter) CountTokens(text, model string) (int, error) {
	enc, err := c.getEncodingForModel(model)
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// EstimateTokens counts tokens, falling back to a chars/4 estimate when the
// encoder is unavailable. Chunk sizing only needs a rough upper bound.
func (c *Counter) EstimateTokens(text, model string) int {
	n, err := c.CountTokens(text, model)
	if err != nil {
		slog.Warn("token count failed, using estimate",
			slog.String("model", model),
			slog.Any("error", err))
		return len(text) / 4
	}
	return n
}

// CountChatTokens counts tokens for a two-message chat completion request,
// including the per-message overhead used by OpenAI-compatible APIs.
func (c *Counter) CountChatTokens(systemPrompt, userPrompt, model string) (int, error) {
	enc, err := c.getEncodingForModel(model)
	if err != nil {
		return 0, err
	}

	// 3 tokens per message plus 1 for the role, and every reply is primed
	// with <|start|>assistant<|message|>.
	tokensPerMessage := 3
	tokensPerRole := 1

	n := 0
	n += tokensPerMessage + tokensPerRole
	n += len(enc.Encode("system", nil, nil))
	n += len(enc.Encode(systemPrompt, nil, nil))
	n += tokensPerMessage + tokensPerRole
	n += len(enc.Encode("user", nil, nil))
	n += len(enc.Encode(userPrompt, nil, nil))
	n += 3

	return n, nil
}

// CountTokensDefault uses the default counter to count tokens.
func CountTokensDefault(text, model string) (int, error) {
	return DefaultCounter.CountTokens(text, model)
}

// EstimateTokensDefault uses the default counter with the estimate fallback.
func EstimateTokensDefault(text, model string) int {
	return DefaultCounter.EstimateTokens(text, model)
}
