package detect

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
)

// Consistency runs the three internal-consistency checks: overlapping role
// dates, verb tense against role currency, and conflicting quantitative
// claims within a role.
func Consistency(profile *domain.NormalizedProfile, now time.Time) ([]domain.ConsistencyIssue, domain.ConsistencySummary) {
	var issues []domain.ConsistencyIssue
	issues = append(issues, dateOverlaps(profile, now)...)
	issues = append(issues, tenseMismatches(profile, now)...)
	issues = append(issues, claimConflicts(profile)...)

	var summary domain.ConsistencySummary
	for _, iss := range issues {
		switch iss.Type {
		case domain.IssueDateOverlap:
			summary.DateOverlaps++
		case domain.IssueTenseVsDates:
			summary.TenseMismatches++
		case domain.IssueClaimConflict:
			summary.ClaimConflicts++
		}
	}
	return issues, summary
}

// ParseRoleDate exposes the heuristic date parser for callers that need role
// chronology, such as years-of-experience banding.
func ParseRoleDate(s string, now time.Time) (time.Time, bool) {
	return parseDate(s, now)
}

type interval struct {
	start, end time.Time
	key        string
}

func dateOverlaps(profile *domain.NormalizedProfile, now time.Time) []domain.ConsistencyIssue {
	var spans []interval
	for _, role := range profile.Roles {
		start, ok := parseDate(role.StartDate, now)
		if !ok {
			continue // unparsable dates are skipped, not flagged
		}
		end := now
		if role.EndDate != "" {
			if e, ok := parseDate(role.EndDate, now); ok {
				end = e
			}
		}
		if end.Before(start) {
			continue
		}
		spans = append(spans, interval{start: start, end: end, key: role.Key()})
	}

	var issues []domain.ConsistencyIssue
	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			a, b := spans[i], spans[j]
			if !a.start.After(b.end) && !b.start.After(a.end) {
				issues = append(issues, domain.ConsistencyIssue{
					Type:     domain.IssueDateOverlap,
					RoleKeys: []string{a.key, b.key},
					Detail:   fmt.Sprintf("roles %q and %q have overlapping date ranges", a.key, b.key),
				})
			}
		}
	}
	return issues
}

var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var (
	ymRe  = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})$`)
	myRe  = regexp.MustCompile(`^(\d{1,2})[-/.](\d{4})$`)
	dmyRe = regexp.MustCompile(`^(\d{1,2})[-/.](\d{1,2})[-/.](\d{4})$`)
	yRe   = regexp.MustCompile(`^\d{4}$`)
	monRe = regexp.MustCompile(`^([a-z]+)\.?,?\s+(\d{4})$`)
)

// openEnded lists the end-date words resumes use for a role still held.
var openEnded = map[string]bool{
	"present": true, "current": true, "now": true, "ongoing": true,
	"till date": true, "to date": true,
}

// parseDate normalizes the date formats resumes actually use. "present" and
// friends resolve to now; unrecognized input reports !ok.
func parseDate(s string, now time.Time) (time.Time, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || openEnded[s] {
		return now, s != ""
	}
	if m := ymRe.FindStringSubmatch(s); m != nil {
		return monthStart(m[1], m[2])
	}
	if m := myRe.FindStringSubmatch(s); m != nil {
		return monthStart(m[2], m[1])
	}
	if m := dmyRe.FindStringSubmatch(s); m != nil {
		// Day/month/year with the month in either of the first two slots.
		if mo, _ := strconv.Atoi(m[2]); mo >= 1 && mo <= 12 {
			return monthStart(m[3], m[2])
		}
		return monthStart(m[3], m[1])
	}
	if yRe.MatchString(s) {
		return monthStart(s, "1")
	}
	if m := monRe.FindStringSubmatch(s); m != nil {
		name := m[1]
		if len(name) > 3 {
			name = name[:3]
		}
		if mo, ok := monthNames[name]; ok {
			y, _ := strconv.Atoi(m[2])
			return time.Date(y, mo, 1, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func monthStart(year, month string) (time.Time, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}
	mo, err := strconv.Atoi(month)
	if err != nil || mo < 1 || mo > 12 {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(mo), 1, 0, 0, 0, 0, time.UTC), true
}

// Keyword tense classification. Approximate by construction: unlisted verb
// forms and non-English phrasing read as neutral.
var (
	pastVerbs = map[string]bool{
		"led": true, "managed": true, "built": true, "launched": true,
		"created": true, "delivered": true, "drove": true, "designed": true,
		"increased": true, "reduced": true, "improved": true, "developed": true,
		"grew": true, "shipped": true, "negotiated": true, "owned": true,
	}
	presentVerbs = map[string]bool{
		"leading": true, "managing": true, "building": true, "launching": true,
		"creating": true, "delivering": true, "driving": true, "designing": true,
		"increasing": true, "reducing": true, "improving": true, "developing": true,
		"growing": true, "shipping": true, "negotiating": true, "owning": true,
		"lead": true, "manage": true, "build": true, "own": true, "drive": true,
	}
)

type tense int

const (
	tenseNeutral tense = iota
	tensePast
	tensePresent
)

// classifyTense scans all words; a present-tense keyword wins over a past one
// so mixed bullets lean toward the ongoing reading.
func classifyTense(text string) tense {
	found := tenseNeutral
	for _, w := range strings.Fields(normalizeBulletText(text)) {
		if presentVerbs[w] {
			return tensePresent
		}
		if pastVerbs[w] {
			found = tensePast
		}
	}
	return found
}

func tenseMismatches(profile *domain.NormalizedProfile, now time.Time) []domain.ConsistencyIssue {
	var issues []domain.ConsistencyIssue
	for ri, role := range profile.Roles {
		current := isCurrentRole(role, now)
		for bi, bullet := range role.Bullets {
			tn := classifyTense(bullet.Text)
			if tn == tenseNeutral {
				continue
			}
			var expected string
			switch {
			case current && tn == tensePast:
				expected = "present"
			case !current && tn == tensePresent:
				expected = "past"
			default:
				continue
			}
			ref := domain.BulletRef{RoleIndex: ri, BulletIndex: bi, RoleKey: role.Key()}
			issues = append(issues, domain.ConsistencyIssue{
				Type:     domain.IssueTenseVsDates,
				RoleKeys: []string{role.Key()},
				Bullet:   &ref,
				Expected: expected,
				Detail:   fmt.Sprintf("bullet tense does not match role dates, expected %s tense", expected),
			})
		}
	}
	return issues
}

func isCurrentRole(role domain.Role, now time.Time) bool {
	s := strings.ToLower(strings.TrimSpace(role.EndDate))
	if s == "" || openEnded[s] {
		return true
	}
	end, ok := parseDate(s, now)
	if !ok {
		return false
	}
	return end.After(now)
}

var smallIntRe = regexp.MustCompile(`\b\d{1,4}\b`)

// claimConflicts flags a role whose bullets cite numbers an order of
// magnitude apart, a proxy for contradictory quantitative claims.
func claimConflicts(profile *domain.NormalizedProfile) []domain.ConsistencyIssue {
	var issues []domain.ConsistencyIssue
	for _, role := range profile.Roles {
		minNZ, maxV := 0, 0
		for _, bullet := range role.Bullets {
			for _, m := range smallIntRe.FindAllString(bullet.Text, -1) {
				v, err := strconv.Atoi(m)
				if err != nil || v == 0 {
					continue
				}
				if minNZ == 0 || v < minNZ {
					minNZ = v
				}
				if v > maxV {
					maxV = v
				}
			}
		}
		if minNZ > 0 && maxV >= 10*minNZ {
			issues = append(issues, domain.ConsistencyIssue{
				Type:     domain.IssueClaimConflict,
				RoleKeys: []string{role.Key()},
				Detail:   fmt.Sprintf("numeric claims in role %q span %d to %d, at least a 10x discrepancy", role.Key(), minNZ, maxV),
			})
		}
	}
	return issues
}
