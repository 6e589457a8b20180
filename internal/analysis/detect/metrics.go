package detect

import (
	"regexp"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
)

var (
	digitRe      = regexp.MustCompile(`\d`)
	percentRe    = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:%|percent(?:age)?\b)`)
	currencyRe   = regexp.MustCompile(`(?i)(?:[$€£¥₹]\s*\d+(?:[,.]\d+)*\s*(?:k|m|mm|bn|million|billion)?|\d+(?:[,.]\d+)*\s*(?:k|m|mm|bn|million|billion)?\s*(?:usd|eur|gbp|inr|dollars?|euros?|pounds?)\b)`)
	timePeriodRe = regexp.MustCompile(`(?i)\d+\s*(?:years?|yrs?|months?|weeks?|days?|hours?|hrs?|quarters?)\b`)
	ratioRe      = regexp.MustCompile(`(?i)\b\d+\s*:\s*\d+\b|\b\d+(?:\.\d+)?x\b`)
	bareCountRe  = regexp.MustCompile(`\b\d+(?:,\d{3})*\b`)

	deltaRe = regexp.MustCompile(`(?i)\bfrom\s+(?:\S+\s+){1,4}to\s+\S+|\b(?:increased|decreased|grew|reduced|cut|improved|boosted|lowered)\s+(?:\S+\s+){0,3}by\b|[+-]\d+(?:\.\d+)?\s*%`)
)

// Metrics classifies each bullet's quantification and computes how dense the
// evidence is per role and overall. Density feeds recommendations, not the
// score.
func Metrics(profile *domain.NormalizedProfile) domain.MetricsAnalysis {
	analysis := domain.MetricsAnalysis{
		DensityByRole: make(map[string]float64),
	}
	totalBullets, totalWithDigit := 0, 0

	for ri, role := range profile.Roles {
		roleBullets, roleWithDigit := 0, 0
		for bi, bullet := range role.Bullets {
			info := domain.BulletMetricsInfo{
				Ref:      domain.BulletRef{RoleIndex: ri, BulletIndex: bi, RoleKey: role.Key()},
				HasDigit: digitRe.MatchString(bullet.Text),
				HasDelta: deltaRe.MatchString(bullet.Text),
			}
			if info.HasDigit {
				info.Units = classifyUnits(bullet.Text)
				roleWithDigit++
			}
			analysis.PerBullet = append(analysis.PerBullet, info)
			roleBullets++
		}
		totalBullets += roleBullets
		totalWithDigit += roleWithDigit
		if roleBullets > 0 {
			analysis.DensityByRole[role.Key()] = float64(roleWithDigit) / float64(roleBullets)
		}
	}

	if totalBullets > 0 {
		analysis.OverallDensity = float64(totalWithDigit) / float64(totalBullets)
	}
	return analysis
}

// classifyUnits reports every unit type a bullet cites. A number outside all
// recognized unit spans counts as a bare count, so "grew revenue 27% with a
// team of 6" reports both percentage and count.
func classifyUnits(text string) []domain.UnitType {
	var units []domain.UnitType
	var covered [][]int
	for _, u := range []struct {
		re *regexp.Regexp
		ut domain.UnitType
	}{
		{percentRe, domain.UnitPercentage},
		{currencyRe, domain.UnitCurrency},
		{timePeriodRe, domain.UnitTimePeriod},
		{ratioRe, domain.UnitRatio},
	} {
		locs := u.re.FindAllStringIndex(text, -1)
		if len(locs) > 0 {
			units = append(units, u.ut)
			covered = append(covered, locs...)
		}
	}
	for _, loc := range bareCountRe.FindAllStringIndex(text, -1) {
		if !within(loc, covered) {
			units = append(units, domain.UnitCount)
			break
		}
	}
	return units
}

func within(loc []int, spans [][]int) bool {
	for _, s := range spans {
		if loc[0] >= s[0] && loc[1] <= s[1] {
			return true
		}
	}
	return false
}
