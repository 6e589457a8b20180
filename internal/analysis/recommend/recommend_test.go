package recommend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
)

func TestGenerateAllListsNonEmpty(t *testing.T) {
	t.Parallel()
	cases := []domain.Subscores{
		{},
		{Academics: 10, TestReadiness: 10, WorkImpact: 10, Leadership: 10, Extracurriculars: 10, InternationalExposure: 10},
		{Academics: 7, TestReadiness: 7, WorkImpact: 7, Leadership: 7, Extracurriculars: 7, InternationalExposure: 7},
		{Academics: 5, TestReadiness: 9, WorkImpact: 4, Leadership: 8, Extracurriculars: 3, InternationalExposure: 2},
	}
	for _, sub := range cases {
		rec := Generate(domain.ScoreResult{Subscores: sub, Band: domain.BandCompetitive})
		assert.NotEmpty(t, rec.Strengths, "subscores %+v", sub)
		assert.NotEmpty(t, rec.Gaps, "subscores %+v", sub)
		assert.NotEmpty(t, rec.Next6Weeks, "subscores %+v", sub)
		assert.NotEmpty(t, rec.Next90Days, "subscores %+v", sub)
		assert.NotEmpty(t, rec.EssayAngles, "subscores %+v", sub)
	}
}

func TestGenerateStrengthAndGapThresholds(t *testing.T) {
	t.Parallel()
	rec := Generate(domain.ScoreResult{Subscores: domain.Subscores{
		WorkImpact:            8, // strength
		TestReadiness:         6, // gap
		Academics:             7, // neither
		Leadership:            7,
		Extracurriculars:      7,
		InternationalExposure: 7,
	}})

	require.Len(t, rec.Strengths, 1)
	assert.Contains(t, rec.Strengths[0], "Work impact")
	require.Len(t, rec.Gaps, 1)
	assert.Contains(t, rec.Gaps[0], "Test readiness")
}

func TestGenerateGapActionTemplates(t *testing.T) {
	t.Parallel()
	rec := Generate(domain.ScoreResult{Subscores: domain.Subscores{
		Academics:             7,
		TestReadiness:         5,
		WorkImpact:            4,
		Leadership:            7,
		Extracurriculars:      7,
		InternationalExposure: 7,
	}})

	assert.Len(t, rec.Next6Weeks, 2, "one action per gap dimension")
	assert.Len(t, rec.Next90Days, 2)
	joined := strings.Join(rec.Next6Weeks, " ")
	assert.Contains(t, joined, "practice tests")
	assert.Contains(t, joined, "bullets")
}

func TestGenerateAcademicsGapHasNoActionTemplate(t *testing.T) {
	t.Parallel()
	rec := Generate(domain.ScoreResult{Subscores: domain.Subscores{
		Academics:             4,
		TestReadiness:         7,
		WorkImpact:            7,
		Leadership:            7,
		Extracurriculars:      7,
		InternationalExposure: 7,
	}})

	require.Len(t, rec.Gaps, 1)
	assert.Contains(t, rec.Gaps[0], "Academics")
	require.Len(t, rec.Next6Weeks, 1)
	assert.Contains(t, rec.Next6Weeks[0], "one-page profile summary", "fallback action when no templated gap exists")
}

func TestEssayAnglesFromTopStrengths(t *testing.T) {
	t.Parallel()
	rec := Generate(domain.ScoreResult{Subscores: domain.Subscores{
		Academics:             8,
		TestReadiness:         9,
		WorkImpact:            10,
		Leadership:            8,
		Extracurriculars:      8,
		InternationalExposure: 8,
	}})

	assert.Len(t, rec.EssayAngles, 3, "angles come from the top three strengths")
	assert.Contains(t, rec.EssayAngles[0], "quantified business win", "strongest subscore leads")
}

func TestEssayAnglesGenericFallback(t *testing.T) {
	t.Parallel()
	rec := Generate(domain.ScoreResult{Subscores: domain.Subscores{
		Academics: 5, TestReadiness: 5, WorkImpact: 5, Leadership: 5, Extracurriculars: 5, InternationalExposure: 5,
	}})
	require.Len(t, rec.EssayAngles, 1)
	assert.Contains(t, rec.EssayAngles[0], "growth trajectory")
}

func TestGenerateDeterministic(t *testing.T) {
	t.Parallel()
	res := domain.ScoreResult{Subscores: domain.Subscores{WorkImpact: 9, TestReadiness: 4}}
	assert.Equal(t, Generate(res), Generate(res))
}
