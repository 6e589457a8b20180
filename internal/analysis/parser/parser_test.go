package parser

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/adapter/cache"
	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
)

// scriptedAI answers ChatJSON via a function and counts calls.
type scriptedAI struct {
	mu      sync.Mutex
	calls   int
	respond func(userPrompt string) (string, error)
}

func (s *scriptedAI) ChatJSON(_ domain.Context, _, userPrompt string, _ int) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.respond(userPrompt)
}

func (s *scriptedAI) Embed(_ domain.Context, texts []string) ([][]float32, error) {
	return make([][]float32, len(texts)), nil
}

func (s *scriptedAI) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func profileJSON(t *testing.T, company string) string {
	t.Helper()
	b, err := json.Marshal(domain.NormalizedProfile{
		Roles: []domain.Role{{
			Company:   company,
			StartDate: "2021-03",
			Bullets:   []domain.Bullet{{Text: "Increased revenue by 25%"}},
		}},
	})
	require.NoError(t, err)
	return string(b)
}

func TestParseEmptyInputShortCircuits(t *testing.T) {
	t.Parallel()
	ai := &scriptedAI{respond: func(string) (string, error) { return "{}", nil }}
	p := New(ai, cache.NewMemory(8), Options{})

	got, err := p.Parse(context.Background(), "   \n\t ")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
	assert.Zero(t, ai.callCount(), "empty input must not reach the model")
}

func TestParseSingleChunk(t *testing.T) {
	t.Parallel()
	ai := &scriptedAI{respond: func(string) (string, error) { return profileJSON(t, "Acme Corp"), nil }}
	p := New(ai, cache.NewMemory(8), Options{})

	got, err := p.Parse(context.Background(), "Analyst at Acme Corp since March 2021.")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Roles, 1)
	assert.Equal(t, "Acme Corp", got.Roles[0].Company)
	assert.Equal(t, 1, ai.callCount())
}

func TestParseCacheHit(t *testing.T) {
	t.Parallel()
	ai := &scriptedAI{respond: func(string) (string, error) { return profileJSON(t, "Acme Corp"), nil }}
	p := New(ai, cache.NewMemory(8), Options{})
	ctx := context.Background()
	text := "Analyst at Acme Corp since March 2021."

	first, err := p.Parse(ctx, text)
	require.NoError(t, err)
	second, err := p.Parse(ctx, text)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, ai.callCount(), "second parse must come from cache")
}

func TestParseRepairsNearValidJSON(t *testing.T) {
	t.Parallel()
	raw := "```json\n" + strings.Replace(profileJSON(t, "Acme Corp"), `"}]}]}`, `"}],}]}`, 1) + "\n```"
	ai := &scriptedAI{respond: func(string) (string, error) { return raw, nil }}
	p := New(ai, nil, Options{})

	got, err := p.Parse(context.Background(), "Analyst at Acme Corp.")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme Corp", got.Roles[0].Company)
}

func TestParseUnrepairableJSONFails(t *testing.T) {
	t.Parallel()
	ai := &scriptedAI{respond: func(string) (string, error) { return "I could not do that", nil }}
	p := New(ai, nil, Options{})

	got, err := p.Parse(context.Background(), "some resume text")
	assert.Nil(t, got)
	assert.Error(t, err)
}

func TestParsePartialChunkFailure(t *testing.T) {
	t.Parallel()
	ai := &scriptedAI{respond: func(userPrompt string) (string, error) {
		if strings.Contains(userPrompt, "Acme") {
			return profileJSON(t, "Acme Corp"), nil
		}
		return "", errors.New("model unavailable")
	}}
	p := New(ai, nil, Options{ChunkTokenBudget: 10, MaxChunks: 4})

	text := "Analyst at Acme Corp leading pricing work across several markets.\n\n" +
		"Consultant at Beta Partners advising clients on growth strategy topics.\n\n" +
		"Intern at Gamma Industries supporting operations and reporting workflows."
	got, err := p.Parse(context.Background(), text)
	require.NoError(t, err, "one good chunk is enough for a partial parse")
	require.NotNil(t, got)
	assert.Equal(t, "Acme Corp", got.Roles[0].Company)
	assert.GreaterOrEqual(t, ai.callCount(), 2, "multiple chunks must fan out")
}

func TestParseAllChunksFailing(t *testing.T) {
	t.Parallel()
	ai := &scriptedAI{respond: func(string) (string, error) { return "", errors.New("model unavailable") }}
	p := New(ai, nil, Options{ChunkTokenBudget: 10, MaxChunks: 4})

	got, err := p.Parse(context.Background(), "First role block here.\n\nSecond role block here.")
	assert.Nil(t, got)
	assert.Error(t, err)
}

func TestParseTimeoutMapsToExtractionTimeout(t *testing.T) {
	t.Parallel()
	ai := &scriptedAI{respond: func(string) (string, error) { return "", domain.ErrUpstreamTimeout }}
	p := New(ai, nil, Options{})

	_, err := p.Parse(context.Background(), "Analyst at Acme Corp.")
	assert.Error(t, err)
}

func TestTimeoutFor(t *testing.T) {
	t.Parallel()
	opts := Options{}
	opts.applyDefaults()

	assert.Equal(t, 4500*time.Millisecond, opts.timeoutFor(1))
	assert.Equal(t, 4500*time.Millisecond, opts.timeoutFor(2))
	assert.Equal(t, 3000*time.Millisecond, opts.timeoutFor(3))
	assert.Equal(t, 2500*time.Millisecond, opts.timeoutFor(4), "floor at the minimum chunk timeout")
	assert.Equal(t, 2500*time.Millisecond, opts.timeoutFor(10))
}

func TestMergeProfiles(t *testing.T) {
	t.Parallel()
	actual := 720
	a := &domain.NormalizedProfile{
		Roles: []domain.Role{{Company: "Acme Corp", StartDate: "2021-03"}},
		Tests: &domain.TestScores{},
	}
	b := &domain.NormalizedProfile{
		Roles:         []domain.Role{{Company: "Beta Partners", StartDate: "2019-01"}},
		Tests:         &domain.TestScores{Type: "GMAT", Actual: &actual},
		International: &domain.International{Regions: []string{"APAC"}, Months: 8},
	}

	merged := mergeProfiles([]*domain.NormalizedProfile{a, nil, b})
	assert.Len(t, merged.Roles, 2)
	require.NotNil(t, merged.Tests)
	assert.Equal(t, "GMAT", merged.Tests.Type, "empty tests block must be skipped for a populated one")
	require.NotNil(t, merged.International)
	assert.Equal(t, 8, merged.International.Months)
}

func TestSplitChunksRespectsCap(t *testing.T) {
	t.Parallel()
	p := New(&scriptedAI{respond: func(string) (string, error) { return "{}", nil }}, nil,
		Options{ChunkTokenBudget: 5, MaxChunks: 3})

	blocks := make([]string, 8)
	for i := range blocks {
		blocks[i] = "Role description block with enough words to exceed the tiny budget easily."
	}
	chunks := p.splitChunks(strings.Join(blocks, "\n\n"))
	assert.LessOrEqual(t, len(chunks), 3)
	assert.Greater(t, len(chunks), 1)
}
