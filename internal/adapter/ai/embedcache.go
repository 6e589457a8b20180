// Package ai provides AI client wrappers used by the application.
package ai

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
)

// embedCacheClient wraps an AIClient and caches embedding vectors keyed by a
// hash of the lower-cased, trimmed text. Only Embed is cached; ChatJSON
// passes through (it is cached one level up, by the parser, on whole inputs).
type embedCacheClient struct {
	base  domain.AIClient
	cache domain.Cache
	ttl   time.Duration
}

// NewEmbedCache wraps base with an embedding cache backed by the given store.
// A nil cache returns base unmodified.
func NewEmbedCache(base domain.AIClient, cache domain.Cache, ttl time.Duration) domain.AIClient {
	if base == nil || cache == nil {
		return base
	}
	return &embedCacheClient{base: base, cache: cache, ttl: ttl}
}

func (c *embedCacheClient) ChatJSON(ctx domain.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	return c.base.ChatJSON(ctx, systemPrompt, userPrompt, maxTokens)
}

func (c *embedCacheClient) Embed(ctx domain.Context, texts []string) ([][]float32, error) {
	res := make([][]float32, len(texts))
	missIdx := make([]int, 0)
	missTexts := make([]string, 0)
	for i, t := range texts {
		k := EmbedKey(t)
		if b, ok, err := c.cache.Get(ctx, k); err == nil && ok {
			var vec []float32
			if json.Unmarshal(b, &vec) == nil {
				res[i] = vec
				continue
			}
		} else if err != nil {
			// A broken cache backend must not break embedding lookups.
			slog.Warn("embed cache read failed", slog.Any("error", err))
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}
	if len(missIdx) > 0 {
		vecs, err := c.base.Embed(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		for j, idx := range missIdx {
			res[idx] = vecs[j]
			if b, err := json.Marshal(vecs[j]); err == nil {
				if err := c.cache.Set(ctx, EmbedKey(missTexts[j]), b, c.ttl); err != nil {
					slog.Warn("embed cache write failed", slog.Any("error", err))
				}
			}
		}
	}
	return res, nil
}

// EmbedKey hashes text into the embedding cache key.
func EmbedKey(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}
