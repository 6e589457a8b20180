// Package parser turns raw resume text into a NormalizedProfile through a
// guarded LLM extraction: content-hash caching, chunked concurrent calls with
// per-call deadlines, bounded JSON repair, schema validation, and a merge
// step that tolerates partial chunk failures.
package parser

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/adapter/observability"
	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
	"github.com/fairyhunter13/mba-profile-analyzer/pkg/textx"
)

const extractionSystemPrompt = `You extract structured data from resume text.
Return ONLY a JSON object with this shape, no prose and no markdown:
{
  "education": [{"school": "", "degree": "", "discipline": "", "tier_hint": ""}],
  "roles": [{"company": "", "title": "", "start_date": "YYYY-MM", "end_date": "YYYY-MM or empty if current", "location": "",
             "bullets": [{"text": "", "metrics": {"pct": 0, "value": 0, "currency": "", "multiple": 0},
                          "scope": {"team_size": 0, "budget": 0, "regions": []}}]}],
  "tests": {"type": "GMAT or GRE", "actual": 0, "target": 0, "descriptor": ""},
  "extracurriculars": [{"text": "", "leadership": false, "recency": "past or current"}],
  "international": {"regions": [], "months": 0, "evidence": []},
  "awards": []
}
Omit fields you cannot ground in the text. Dates stay as written when not in YYYY-MM form.`

// Options bound the parser's chunking and timeout behavior.
type Options struct {
	Model            string
	MaxChunks        int
	ChunkTokenBudget int
	SingleTimeout    time.Duration
	MinChunkTimeout  time.Duration
	MaxOutputTokens  int
	CacheTTL         time.Duration
}

func (o *Options) applyDefaults() {
	if o.MaxChunks <= 0 {
		o.MaxChunks = 10
	}
	if o.ChunkTokenBudget <= 0 {
		o.ChunkTokenBudget = 900
	}
	if o.SingleTimeout <= 0 {
		o.SingleTimeout = 4500 * time.Millisecond
	}
	if o.MinChunkTimeout <= 0 {
		o.MinChunkTimeout = 2500 * time.Millisecond
	}
	if o.MaxOutputTokens <= 0 {
		o.MaxOutputTokens = 2048
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 24 * time.Hour
	}
}

// timeoutFor shortens the per-call deadline as fan-out widens, but never
// below the configured minimum.
func (o Options) timeoutFor(chunks int) time.Duration {
	if chunks <= 1 {
		return o.SingleTimeout
	}
	t := o.SingleTimeout * 2 / time.Duration(chunks)
	if t < o.MinChunkTimeout {
		return o.MinChunkTimeout
	}
	return t
}

// Parser is the guarded structured parser.
type Parser struct {
	ai       domain.AIClient
	cache    domain.Cache
	validate *validator.Validate
	opts     Options
}

// New constructs a Parser. The cache may be nil, which disables result
// caching but not parsing.
func New(ai domain.AIClient, cache domain.Cache, opts Options) *Parser {
	opts.applyDefaults()
	return &Parser{
		ai:       ai,
		cache:    cache,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		opts:     opts,
	}
}

// Parse extracts a profile from text. Any failure returns a nil profile with
// a wrapped sentinel so callers can degrade to heuristics-only analysis;
// empty input short-circuits without touching the model.
func (p *Parser) Parse(ctx domain.Context, text string) (*domain.NormalizedProfile, error) {
	if strings.TrimSpace(text) == "" {
		observability.ObserveParseOutcome("empty")
		return nil, fmt.Errorf("op=parser.Parse: %w", domain.ErrEmptyInput)
	}

	key := cacheKey(text)
	if cached := p.cacheLookup(ctx, key); cached != nil {
		observability.ObserveParseOutcome("cached")
		return cached, nil
	}

	chunks := p.splitChunks(text)
	timeout := p.opts.timeoutFor(len(chunks))

	results := make([]*domain.NormalizedProfile, len(chunks))
	var mu sync.Mutex
	failed := 0

	var g errgroup.Group
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			profile, err := p.extractChunk(ctx, chunk, timeout)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// A failed chunk is excluded from the merge, never retried.
				failed++
				slog.Warn("chunk extraction failed",
					slog.Int("chunk", i),
					slog.Int("total", len(chunks)),
					slog.String("head", textx.Snippet(chunk, 80)),
					slog.Any("error", err))
				return nil
			}
			results[i] = profile
			return nil
		})
	}
	_ = g.Wait()

	if failed == len(chunks) {
		observability.ObserveParseOutcome("failed")
		return nil, fmt.Errorf("op=parser.Parse: all %d chunks failed: %w", len(chunks), domain.ErrInternal)
	}

	merged := mergeProfiles(results)
	if merged.Empty() {
		observability.ObserveParseOutcome("failed")
		return nil, fmt.Errorf("op=parser.Parse: merged profile empty: %w", domain.ErrSchemaInvalid)
	}
	if err := p.validate.Struct(merged); err != nil {
		observability.ObserveParseOutcome("failed")
		return nil, fmt.Errorf("op=parser.Parse merged validation: %w", domain.ErrSchemaInvalid)
	}

	p.cacheStore(ctx, key, merged)
	if failed > 0 {
		observability.ObserveParseOutcome("partial")
	} else {
		observability.ObserveParseOutcome("ok")
	}
	return merged, nil
}

// extractChunk runs one guarded extraction call under its own deadline.
func (p *Parser) extractChunk(ctx domain.Context, chunk string, timeout time.Duration) (*domain.NormalizedProfile, error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := p.ai.ChatJSON(cctx, extractionSystemPrompt, chunk, p.opts.MaxOutputTokens)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, domain.ErrUpstreamTimeout) {
			observability.ObserveChunkFailure("timeout")
			return nil, fmt.Errorf("op=parser.extractChunk: %w", domain.ErrExtractionTimeout)
		}
		observability.ObserveChunkFailure("upstream")
		return nil, fmt.Errorf("op=parser.extractChunk: %w", err)
	}

	repaired, err := repairJSON(raw)
	if err != nil {
		observability.ObserveChunkFailure("invalid_json")
		return nil, err
	}

	var profile domain.NormalizedProfile
	if err := json.Unmarshal([]byte(repaired), &profile); err != nil {
		observability.ObserveChunkFailure("schema")
		return nil, fmt.Errorf("op=parser.extractChunk decode: %w", domain.ErrSchemaInvalid)
	}
	if err := p.validate.Struct(profile); err != nil {
		observability.ObserveChunkFailure("schema")
		return nil, fmt.Errorf("op=parser.extractChunk validation: %w", domain.ErrSchemaInvalid)
	}
	return &profile, nil
}

// mergeProfiles concatenates list fields across chunk results and takes the
// first non-empty tests and international blocks.
func mergeProfiles(results []*domain.NormalizedProfile) *domain.NormalizedProfile {
	merged := &domain.NormalizedProfile{}
	for _, r := range results {
		if r == nil {
			continue
		}
		merged.Education = append(merged.Education, r.Education...)
		merged.Roles = append(merged.Roles, r.Roles...)
		merged.Extracurriculars = append(merged.Extracurriculars, r.Extracurriculars...)
		merged.Awards = append(merged.Awards, r.Awards...)
		if merged.Tests == nil && r.Tests != nil && (r.Tests.Actual != nil || r.Tests.Target != nil || r.Tests.Type != "") {
			merged.Tests = r.Tests
		}
		if merged.International == nil && r.International != nil &&
			(len(r.International.Regions) > 0 || r.International.Months > 0 || len(r.International.Evidence) > 0) {
			merged.International = r.International
		}
	}
	return merged
}

func cacheKey(text string) string {
	h := sha256.Sum256([]byte(text))
	return "profile:" + hex.EncodeToString(h[:])
}

func (p *Parser) cacheLookup(ctx domain.Context, key string) *domain.NormalizedProfile {
	if p.cache == nil {
		return nil
	}
	b, ok, err := p.cache.Get(ctx, key)
	if err != nil || !ok {
		if err != nil {
			slog.Warn("parse cache read failed", slog.Any("error", err))
		}
		return nil
	}
	var profile domain.NormalizedProfile
	if err := json.Unmarshal(b, &profile); err != nil {
		return nil
	}
	return &profile
}

func (p *Parser) cacheStore(ctx domain.Context, key string, profile *domain.NormalizedProfile) {
	if p.cache == nil {
		return
	}
	b, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := p.cache.Set(ctx, key, b, p.opts.CacheTTL); err != nil {
		slog.Warn("parse cache write failed", slog.Any("error", err))
	}
}
