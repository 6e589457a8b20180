package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
)

func TestTestReadinessBands(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		sig  domain.TestSignal
		want int
	}{
		{"actual 750", domain.TestSignal{Actual: 750}, 9},
		{"actual 740 boundary", domain.TestSignal{Actual: 740}, 9},
		{"actual 720", domain.TestSignal{Actual: 720}, 8},
		{"actual 705", domain.TestSignal{Actual: 705}, 7},
		{"actual 660", domain.TestSignal{Actual: 660}, 6},
		{"actual 600", domain.TestSignal{Actual: 600}, 5},
		{"target only 730", domain.TestSignal{Target: 730, ProvidedAsTargetOnly: true}, 6},
		{"target only 700", domain.TestSignal{Target: 700, ProvidedAsTargetOnly: true}, 5},
		{"no test data", domain.TestSignal{}, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, testReadiness(tt.sig), tt.name)
	}
}

func TestTargetOnlyNeverExceedsSix(t *testing.T) {
	t.Parallel()
	for target := 600; target <= 800; target += 10 {
		sig := domain.TestSignal{Target: target, ProvidedAsTargetOnly: true}
		assert.LessOrEqual(t, testReadiness(sig), 6, "target %d", target)
	}
}

func TestAcademics(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 5, academics(domain.AcademicsSignal{}))
	assert.Equal(t, 6, academics(domain.AcademicsSignal{RigorousDegree: true}))
	assert.Equal(t, 8, academics(domain.AcademicsSignal{Tier1: true}))
	assert.Equal(t, 8, academics(domain.AcademicsSignal{Tier1: true, RigorousDegree: true}),
		"floor subsumes the degree bonus")
}

func TestWorkImpact(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 4, workImpact(domain.ImpactSignal{}))
	assert.Equal(t, 8, workImpact(domain.ImpactSignal{AnyPct20Plus: true}))
	assert.Equal(t, 8, workImpact(domain.ImpactSignal{AnyLargeMoney: true}))
	assert.Equal(t, 4, workImpact(domain.ImpactSignal{LaunchesCount: 1}))
	assert.Equal(t, 8, workImpact(domain.ImpactSignal{LaunchesCount: 2}))
	assert.Equal(t, 9, workImpact(domain.ImpactSignal{LaunchesCount: 4}))
}

func TestLeadership(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 4, leadership(domain.LeadershipSignal{LedBand: domain.LedNoneIC}))
	assert.Equal(t, 5, leadership(domain.LeadershipSignal{CrossFunctional: true, LedBand: domain.LedInformal}))
	assert.Equal(t, 5, leadership(domain.LeadershipSignal{LedBand: domain.Led1To3}))
	assert.Equal(t, 6, leadership(domain.LeadershipSignal{LedBand: domain.Led4To10}))
	assert.Equal(t, 7, leadership(domain.LeadershipSignal{LedBand: domain.Led10Plus}))
	assert.Equal(t, 8, leadership(domain.LeadershipSignal{LedBand: domain.LedNoneIC, ExecOffice: true}),
		"exec office floors leadership at 8 regardless of band")
	assert.Equal(t, 8, leadership(domain.LeadershipSignal{CrossFunctional: true, LedBand: domain.Led10Plus}))
}

func TestExtracurriculars(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 3, extracurriculars(domain.ECSignal{}))
	assert.Equal(t, 5, extracurriculars(domain.ECSignal{HasCurrent: true}))
	assert.Equal(t, 5, extracurriculars(domain.ECSignal{Leadership: true}))
	assert.Equal(t, 7, extracurriculars(domain.ECSignal{HasCurrent: true, Leadership: true}))
}

func TestInternational(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 2, international(domain.IntlSignal{}))
	assert.Equal(t, 2, international(domain.IntlSignal{RegionsCount: 1}))
	assert.Equal(t, 6, international(domain.IntlSignal{RegionsCount: 2}))
	assert.Equal(t, 7, international(domain.IntlSignal{RegionsCount: 3}))
	assert.Equal(t, 7, international(domain.IntlSignal{Months: 6}))
	assert.Equal(t, 8, international(domain.IntlSignal{Months: 12}))
	assert.Equal(t, 8, international(domain.IntlSignal{RegionsCount: 3, Months: 14}))
}

func TestBandFor(t *testing.T) {
	t.Parallel()
	assert.Equal(t, domain.BandTop10, BandFor(8.8))
	assert.Equal(t, domain.BandStrong, BandFor(8.79))
	assert.Equal(t, domain.BandStrong, BandFor(7.8))
	assert.Equal(t, domain.BandCompetitive, BandFor(7.79))
	assert.Equal(t, domain.BandCompetitive, BandFor(6.8))
	assert.Equal(t, domain.BandEmerging, BandFor(6.79))
	assert.Equal(t, domain.BandEmerging, BandFor(5.5))
	assert.Equal(t, domain.BandNeedsFocus, BandFor(5.49))
	assert.Equal(t, domain.BandNeedsFocus, BandFor(0))
}

func TestScoreSubscoresWithinRange(t *testing.T) {
	t.Parallel()
	bundles := []domain.SignalBundle{
		{},
		{
			Academics:  domain.AcademicsSignal{Tier1: true, RigorousDegree: true},
			Test:       domain.TestSignal{Actual: 780},
			Impact:     domain.ImpactSignal{AnyPct20Plus: true, AnyLargeMoney: true, LaunchesCount: 6},
			Leadership: domain.LeadershipSignal{CrossFunctional: true, LedBand: domain.Led10Plus, ExecOffice: true},
			EC:         domain.ECSignal{HasCurrent: true, Leadership: true},
			Intl:       domain.IntlSignal{RegionsCount: 5, Months: 24},
		},
	}
	for _, b := range bundles {
		res := Score(b)
		for _, v := range []int{
			res.Subscores.Academics, res.Subscores.TestReadiness, res.Subscores.WorkImpact,
			res.Subscores.Leadership, res.Subscores.Extracurriculars, res.Subscores.InternationalExposure,
		} {
			assert.GreaterOrEqual(t, v, 0)
			assert.LessOrEqual(t, v, 10)
		}
		assert.Equal(t, BandFor(res.Overall), res.Band)
	}
}

func TestScoreWeightedOverall(t *testing.T) {
	t.Parallel()
	res := Score(domain.SignalBundle{})
	// Baselines: 5, 5, 4, 4, 3, 2 with weights .15/.20/.30/.20/.05/.10.
	assert.InDelta(t, 4.1, res.Overall, 1e-9)
	assert.Equal(t, domain.BandNeedsFocus, res.Band)
}

func TestScoreDeterministic(t *testing.T) {
	t.Parallel()
	b := domain.SignalBundle{
		Test:   domain.TestSignal{Actual: 720},
		Impact: domain.ImpactSignal{AnyPct20Plus: true},
	}
	assert.Equal(t, Score(b), Score(b))
}
