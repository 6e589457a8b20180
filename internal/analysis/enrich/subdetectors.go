package enrich

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
)

// All detectors here are regex/keyword heuristics with known false-negative
// risk: unlisted schools, unusual phrasing, and non-English text read as
// "signal absent", never as an error.

// Word-bounded so "mit" does not fire on "admitted" or "iit" on "Detroit".
var tier1Re = regexp.MustCompile(`(?i)\b(?:harvard|stanford|wharton|mit|princeton|yale|columbia|oxford|cambridge|insead|london business school|lse|iit|iim|tsinghua|nus|hec paris|kellogg|booth)\b`)

var rigorousDegreeRe = regexp.MustCompile(`(?i)\b(engineering|computer science|mathematics|physics|statistics|econometrics|economics|actuarial|cfa|chartered accountant)\b`)

func academicsSignal(p *domain.NormalizedProfile, lowerFlat string) domain.AcademicsSignal {
	sig := domain.AcademicsSignal{}
	if p != nil {
		for _, e := range p.Education {
			if tier1Re.MatchString(e.School + " " + e.TierHint) {
				sig.Tier1 = true
			}
			if rigorousDegreeRe.MatchString(e.Degree + " " + e.Discipline) {
				sig.RigorousDegree = true
			}
		}
		return sig
	}
	sig.Tier1 = tier1Re.MatchString(lowerFlat)
	sig.RigorousDegree = rigorousDegreeRe.MatchString(lowerFlat)
	return sig
}

var (
	testActualRe = regexp.MustCompile(`(?i)\b(?:gmat|gre)\b\D{0,20}?\b(\d{3})\b`)
	testTargetRe = regexp.MustCompile(`(?i)\btarget(?:ing)?\b\D{0,20}?\b(\d{3})\b`)
)

func testSignal(p *domain.NormalizedProfile, lowerFlat string) domain.TestSignal {
	sig := domain.TestSignal{}
	if p != nil && p.Tests != nil {
		if p.Tests.Actual != nil {
			sig.Actual = *p.Tests.Actual
		}
		if p.Tests.Target != nil {
			sig.Target = *p.Tests.Target
		}
		sig.Descriptor = p.Tests.Descriptor
	} else {
		if m := testTargetRe.FindStringSubmatch(lowerFlat); m != nil {
			sig.Target, _ = strconv.Atoi(m[1])
		}
		if m := testActualRe.FindStringSubmatch(lowerFlat); m != nil {
			if v, _ := strconv.Atoi(m[1]); v != sig.Target {
				sig.Actual = v
			}
		}
	}
	sig.ProvidedAsTargetOnly = sig.Actual == 0 && sig.Target > 0
	return sig
}

var (
	pctRe        = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:%|percent)`)
	largeMoneyRe = regexp.MustCompile(`(?i)(?:[$€£¥₹]\s*\d+(?:\.\d+)?\s*(?:m|mm|b|bn|million|billion)|\d+(?:\.\d+)?\s*(?:million|billion|crore)\b)`)
	launchRe     = regexp.MustCompile(`(?i)\b(?:launched|rolled out|released|shipped|went live)\b`)
)

func impactSignal(lowerFlat string) domain.ImpactSignal {
	sig := domain.ImpactSignal{
		AnyLargeMoney: largeMoneyRe.MatchString(lowerFlat),
		LaunchesCount: len(launchRe.FindAllString(lowerFlat, -1)),
	}
	for _, m := range pctRe.FindAllStringSubmatch(lowerFlat, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v >= 20 {
			sig.AnyPct20Plus = true
			break
		}
	}
	return sig
}

var (
	crossFunctionalRe = regexp.MustCompile(`(?i)cross[- ]functional|across (?:teams|functions|departments)|with (?:engineering|product|design|sales|marketing|finance) and\b|stakeholders across`)
	execOfficeRe      = regexp.MustCompile(`(?i)ceo'?s? office|chief [a-z]+ office|chief of staff|strategy lead|corporate strategy`)
	teamSizeRe        = regexp.MustCompile(`(?i)\bteam of (\d{1,4})\b|\bled (\d{1,4})\b|\bmanag(?:ed|ing) (\d{1,4})\b|\b(\d{1,4}) direct reports\b`)
)

func leadershipSignal(p *domain.NormalizedProfile, lowerFlat string) domain.LeadershipSignal {
	sig := domain.LeadershipSignal{
		CrossFunctional: crossFunctionalRe.MatchString(lowerFlat),
		ExecOffice:      execOfficeRe.MatchString(lowerFlat),
		LedBand:         domain.LedNoneIC,
	}

	maxTeam := 0
	if p != nil {
		for _, role := range p.Roles {
			for _, b := range role.Bullets {
				if b.Scope != nil && b.Scope.TeamSize != nil && *b.Scope.TeamSize > maxTeam {
					maxTeam = *b.Scope.TeamSize
				}
			}
		}
	}
	if maxTeam == 0 {
		maxTeam = maxTeamFromText(lowerFlat)
	}

	switch {
	case maxTeam >= 10:
		sig.LedBand = domain.Led10Plus
	case maxTeam >= 4:
		sig.LedBand = domain.Led4To10
	case maxTeam >= 1:
		sig.LedBand = domain.Led1To3
	case sig.CrossFunctional:
		sig.LedBand = domain.LedInformal
	}
	return sig
}

func maxTeamFromText(lowerFlat string) int {
	maxTeam := 0
	for _, m := range teamSizeRe.FindAllStringSubmatch(lowerFlat, -1) {
		for _, g := range m[1:] {
			if g == "" {
				continue
			}
			if v, err := strconv.Atoi(g); err == nil && v > maxTeam {
				maxTeam = v
			}
		}
	}
	return maxTeam
}

var (
	ecLeadershipRe = regexp.MustCompile(`(?i)\b(?:president|founder|founded|captain|chair(?:person|man|woman)?|organizer|board member)\b`)
	ecCurrentRe    = regexp.MustCompile(`(?i)\b(?:currently|ongoing|since 20\d\d)\b[^|]{0,60}\b(?:volunteer|mentor|club|community|nonprofit|non-profit)\b|\b(?:volunteer|mentor|club|community|nonprofit|non-profit)\b[^|]{0,60}\b(?:currently|ongoing|since 20\d\d)\b`)
)

func ecSignal(p *domain.NormalizedProfile, lowerFlat string) domain.ECSignal {
	sig := domain.ECSignal{}
	if p != nil {
		for _, ec := range p.Extracurriculars {
			if ec.Recency == "current" {
				sig.HasCurrent = true
			}
			if ec.Leadership || ecLeadershipRe.MatchString(ec.Text) {
				sig.Leadership = true
			}
		}
		return sig
	}
	sig.HasCurrent = ecCurrentRe.MatchString(lowerFlat)
	sig.Leadership = ecLeadershipRe.MatchString(lowerFlat)
	return sig
}

var (
	regionWords = []string{
		"apac", "emea", "latam", "europe", "asia", "africa", "north america",
		"south america", "middle east", "oceania",
	}
	intlMonthsRe = regexp.MustCompile(`(?i)\b(\d{1,3})\s*\+?\s*months?\b[^|]{0,40}\b(?:abroad|overseas|international|expat|posting|assignment)\b`)
)

func intlSignal(p *domain.NormalizedProfile, lowerFlat string) domain.IntlSignal {
	if p != nil && p.International != nil {
		return domain.IntlSignal{
			RegionsCount: len(p.International.Regions),
			Months:       p.International.Months,
		}
	}
	sig := domain.IntlSignal{}
	for _, w := range regionWords {
		if strings.Contains(lowerFlat, w) {
			sig.RegionsCount++
		}
	}
	if m := intlMonthsRe.FindStringSubmatch(lowerFlat); m != nil {
		sig.Months, _ = strconv.Atoi(m[1])
	}
	return sig
}
