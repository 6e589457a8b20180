package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
)

func profileWithBullets(bullets ...[]string) *domain.NormalizedProfile {
	p := &domain.NormalizedProfile{}
	for i, texts := range bullets {
		role := domain.Role{Company: "Company " + string(rune('A'+i)), StartDate: "2020-01"}
		for _, t := range texts {
			role.Bullets = append(role.Bullets, domain.Bullet{Text: t})
		}
		p.Roles = append(p.Roles, role)
	}
	return p
}

func TestDuplicatesExactCopy(t *testing.T) {
	t.Parallel()
	p := profileWithBullets(
		[]string{"Led a cross-functional pricing initiative across three markets"},
		[]string{"Led a cross-functional pricing initiative across three markets"},
	)
	pairs, summary := Duplicates(p)
	require.Len(t, pairs, 1)
	assert.InDelta(t, 1.0, pairs[0].Similarity, 1e-9)
	assert.False(t, pairs[0].SameRole)
	assert.Equal(t, 1, summary.CrossRole)
	assert.Zero(t, summary.WithinRole)
}

func TestDuplicatesFillerStripping(t *testing.T) {
	t.Parallel()
	p := profileWithBullets([]string{
		"Responsible for quarterly revenue forecasting and board reporting",
		"Worked on quarterly revenue forecasting and board reporting",
	})
	pairs, summary := Duplicates(p)
	require.Len(t, pairs, 1, "filler lead-ins must not mask duplicates")
	assert.True(t, pairs[0].SameRole)
	assert.Equal(t, 1, summary.WithinRole)
}

func TestDuplicatesDistinctBullets(t *testing.T) {
	t.Parallel()
	p := profileWithBullets([]string{
		"Led a team of six engineers on the payments platform",
		"Negotiated vendor contracts saving $2M annually",
	})
	pairs, summary := Duplicates(p)
	assert.Empty(t, pairs)
	assert.Zero(t, summary.Count)
}

func TestDuplicatesReportedOncePerPair(t *testing.T) {
	t.Parallel()
	p := profileWithBullets(
		[]string{"Launched the loyalty program in two markets"},
		[]string{"Launched the loyalty program in two markets"},
		[]string{"Launched the loyalty program in two markets"},
	)
	pairs, summary := Duplicates(p)
	assert.Len(t, pairs, 3, "three bullets give three unordered pairs")
	assert.Equal(t, 3, summary.Count)
	for _, pr := range pairs {
		assert.Less(t, pr.A.RoleIndex, pr.B.RoleIndex, "pairs keep canonical order")
	}
}

func TestHybridSimilarityBoundary(t *testing.T) {
	t.Parallel()

	sim := func(a, b string) float64 {
		na, nb := normalizeBulletText(a), normalizeBulletText(b)
		return wordWeight*jaccard(wordSet(na), wordSet(nb)) +
			ngramWeight*jaccard(trigramSet(na), trigramSet(nb))
	}

	a := "improved onboarding conversion across all retail segments nationwide"
	b := "improved onboarding conversion across all retail segments nationwide today"
	high := sim(a, b)
	assert.GreaterOrEqual(t, high, DuplicateThreshold, "near-identical pair must flag (sim=%v)", high)

	c := "improved onboarding conversion across some retail segments yesterday evening"
	low := sim(a, c)
	assert.Less(t, low, DuplicateThreshold, "diverged pair must not flag (sim=%v)", low)

	assert.InDelta(t, sim(a, b), sim(b, a), 1e-12, "similarity is symmetric")
}

func TestJaccard(t *testing.T) {
	t.Parallel()
	assert.Zero(t, jaccard(nil, nil))
	assert.InDelta(t, 1.0, jaccard(wordSet("a b"), wordSet("b a")), 1e-9)
	assert.InDelta(t, 1.0/3.0, jaccard(wordSet("a b"), wordSet("b c")), 1e-9)
}
