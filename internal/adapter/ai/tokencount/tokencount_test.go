package tokencount

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountTokens(t *testing.T) {
	t.Parallel()
	c := NewCounter()

	n, err := c.CountTokens("Led a team of five analysts", "gpt-4")
	require.NoError(t, err)
	assert.Greater(t, n, 0)
	assert.Less(t, n, 20)

	zero, err := c.CountTokens("", "gpt-4")
	require.NoError(t, err)
	assert.Zero(t, zero)
}

func TestCountTokensGrowsWithText(t *testing.T) {
	t.Parallel()
	c := NewCounter()
	short, err := c.CountTokens("one line", "gpt-4")
	require.NoError(t, err)
	long, err := c.CountTokens(strings.Repeat("one line ", 50), "gpt-4")
	require.NoError(t, err)
	assert.Greater(t, long, short)
}

func TestNormalizeModelName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"gpt-4o-mini", "gpt-4"},
		{"openai/gpt-3.5-turbo", "gpt-3.5-turbo"},
		{"meta-llama/llama-3.1-8b-instruct:free", "gpt-4"},
		{"anthropic/claude-sonnet", "gpt-4"},
		{"totally-unknown-model", "gpt-4"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeModelName(tt.in), tt.in)
	}
}

func TestCountChatTokensIncludesOverhead(t *testing.T) {
	t.Parallel()
	c := NewCounter()
	bare, err := c.CountTokens("hello", "gpt-4")
	require.NoError(t, err)
	chat, err := c.CountChatTokens("", "hello", "gpt-4")
	require.NoError(t, err)
	assert.Greater(t, chat, bare)
}

func TestEstimateTokensNeverFails(t *testing.T) {
	t.Parallel()
	c := NewCounter()
	assert.Greater(t, c.EstimateTokens("some resume text here", "weird/model:free"), 0)
}

func TestEncodingCacheReuse(t *testing.T) {
	t.Parallel()
	c := NewCounter()
	_, err := c.CountTokens("a", "gpt-4")
	require.NoError(t, err)
	_, err = c.CountTokens("b", "gpt-4o")
	require.NoError(t, err)
	c.mu.RLock()
	defer c.mu.RUnlock()
	assert.Len(t, c.encodingCache, 1, "model variants normalize to one cached encoding")
}
