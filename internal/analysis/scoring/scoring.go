// Package scoring maps a SignalBundle to six subscores, a weighted overall
// score, and a competitiveness band. Score is pure, deterministic, and total.
package scoring

import (
	"math"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
)

// Fixed subscore weights, summing to 1.0.
const (
	weightAcademics     = 0.15
	weightTestReadiness = 0.20
	weightWorkImpact    = 0.30
	weightLeadership    = 0.20
	weightExtracurrics  = 0.05
	weightInternational = 0.10
)

// Band thresholds on the weighted overall score.
const (
	thresholdTop10       = 8.8
	thresholdStrong      = 7.8
	thresholdCompetitive = 6.8
	thresholdEmerging    = 5.5
)

// Score converts a bundle into subscores and a band. Subscores combine
// baselines with floor/cap rules: a floor raises to at least X when its
// condition holds, a cap keeps the value at or below X.
func Score(bundle domain.SignalBundle) domain.ScoreResult {
	sub := domain.Subscores{
		Academics:             academics(bundle.Academics),
		TestReadiness:         testReadiness(bundle.Test),
		WorkImpact:            workImpact(bundle.Impact),
		Leadership:            leadership(bundle.Leadership),
		Extracurriculars:      extracurriculars(bundle.EC),
		InternationalExposure: international(bundle.Intl),
	}
	overall := weightAcademics*float64(sub.Academics) +
		weightTestReadiness*float64(sub.TestReadiness) +
		weightWorkImpact*float64(sub.WorkImpact) +
		weightLeadership*float64(sub.Leadership) +
		weightExtracurrics*float64(sub.Extracurriculars) +
		weightInternational*float64(sub.InternationalExposure)
	return domain.ScoreResult{
		Subscores: sub,
		Overall:   overall,
		Band:      BandFor(overall),
	}
}

// BandFor is a pure, monotonic function of the overall score.
func BandFor(overall float64) domain.Band {
	switch {
	case overall >= thresholdTop10:
		return domain.BandTop10
	case overall >= thresholdStrong:
		return domain.BandStrong
	case overall >= thresholdCompetitive:
		return domain.BandCompetitive
	case overall >= thresholdEmerging:
		return domain.BandEmerging
	default:
		return domain.BandNeedsFocus
	}
}

func academics(sig domain.AcademicsSignal) int {
	score := 5.0
	if sig.RigorousDegree {
		score++
	}
	if sig.Tier1 {
		score = floor(score, 8)
	}
	return clamp(score)
}

func testReadiness(sig domain.TestSignal) int {
	score := 5.0
	switch {
	case sig.Actual > 0:
		switch {
		case sig.Actual >= 740:
			score = 9
		case sig.Actual >= 720:
			score = 8
		case sig.Actual >= 700:
			score = 7
		case sig.Actual >= 660:
			score = 6
		default:
			score = 5
		}
	case sig.Target > 0:
		// Target-only claims are never proof of readiness: capped at 6.
		if sig.Target >= 720 {
			score++
		}
		score = cap6(score)
	}
	return clamp(score)
}

func cap6(score float64) float64 {
	return math.Min(score, 6)
}

func workImpact(sig domain.ImpactSignal) int {
	score := 4.0
	if sig.AnyPct20Plus || sig.AnyLargeMoney || sig.LaunchesCount >= 2 {
		score = floor(score, 8)
	}
	if sig.LaunchesCount >= 4 {
		score = floor(score, 9)
	}
	return clamp(score)
}

func leadership(sig domain.LeadershipSignal) int {
	score := 4.0
	if sig.CrossFunctional {
		score++
	}
	switch sig.LedBand {
	case domain.Led1To3:
		score++
	case domain.Led4To10:
		score += 2
	case domain.Led10Plus:
		score += 3
	}
	if sig.ExecOffice {
		score = floor(score, 8)
	}
	return clamp(score)
}

func extracurriculars(sig domain.ECSignal) int {
	score := 3.0
	if sig.HasCurrent {
		score += 2
	}
	if sig.Leadership {
		score += 2
	}
	return clamp(score)
}

func international(sig domain.IntlSignal) int {
	score := 2.0
	if sig.RegionsCount >= 2 {
		score = floor(score, 6)
	}
	if sig.RegionsCount >= 3 || sig.Months >= 6 {
		score = floor(score, 7)
	}
	if sig.Months >= 12 {
		score = floor(score, 8)
	}
	return clamp(score)
}

func floor(score, min float64) float64 {
	return math.Max(score, min)
}

func clamp(score float64) int {
	v := int(math.Round(score))
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
