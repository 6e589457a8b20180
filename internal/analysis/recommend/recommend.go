// Package recommend turns a ScoreResult into narrative coaching output:
// strengths, gaps, a 6-week and 90-day action plan, and essay angles. Every
// list is guaranteed non-empty through fixed fallback text.
package recommend

import (
	"fmt"
	"sort"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
)

// Subscore thresholds: at or above strengthMin reads as a strength, at or
// below gapMax as a gap.
const (
	strengthMin = 8
	gapMax      = 6
)

type dimension struct {
	name      string
	value     int
	strength  string
	gap       string
	sixWeeks  string // empty means no action template for this dimension
	ninetyDay string
	essay     string
}

func dimensions(sub domain.Subscores) []dimension {
	return []dimension{
		{
			name:     "academics",
			value:    sub.Academics,
			strength: "Strong academic foundation that clears screening bars on its own.",
			gap:      "Academic record will need offsetting evidence elsewhere in the file.",
			essay:    "Use your academic trajectory as proof you thrive in rigorous environments.",
		},
		{
			name:      "test readiness",
			value:     sub.TestReadiness,
			strength:  "Test score is already in the competitive range for top programs.",
			gap:       "Test readiness is the most controllable gap in your profile right now.",
			sixWeeks:  "Take two full-length practice tests and lock a sectional error log.",
			ninetyDay: "Sit the official exam with a 20-point buffer over your target score.",
			essay:     "Let the score speak for itself and spend essay space on leadership stories.",
		},
		{
			name:      "work impact",
			value:     sub.WorkImpact,
			strength:  "Quantified work impact that differentiates you from peers in the same function.",
			gap:       "Work achievements read as activity, not impact, without hard numbers.",
			sixWeeks:  "Rewrite your top six bullets around a metric: percentage, money, or launches.",
			ninetyDay: "Volunteer for one initiative whose outcome you can measure and own end to end.",
			essay:     "Anchor your goals essay in your most quantified business win.",
		},
		{
			name:      "leadership",
			value:     sub.Leadership,
			strength:  "Demonstrated people leadership at a scope committees rarely see pre-MBA.",
			gap:       "Leadership evidence is thin; committees need to see people or P&L scope.",
			sixWeeks:  "Claim a visible coordination role on a live project, even informally.",
			ninetyDay: "Secure a formal mandate with direct reports or a budget you control.",
			essay:     "Build your leadership essay around the largest team or mandate you held.",
		},
		{
			name:      "extracurriculars",
			value:     sub.Extracurriculars,
			strength:  "Sustained extracurricular leadership rounds out the professional story.",
			gap:       "No current extracurricular signal; committees read that as one-dimensional.",
			sixWeeks:  "Join one community organization aligned with your stated post-MBA goal.",
			ninetyDay: "Move from member to organizer: run an event or lead a workstream.",
			essay:     "Use a service story to show values beyond the office.",
		},
		{
			name:      "international exposure",
			value:     sub.InternationalExposure,
			strength:  "Genuine cross-border experience that supports a global career narrative.",
			gap:       "Little international evidence for programs that sell global classrooms.",
			sixWeeks:  "Take on one deliverable with an overseas stakeholder or market.",
			ninetyDay: "Propose a short international assignment or a cross-region project rotation.",
			essay:     "Frame your international exposure as readiness for a global cohort.",
		},
	}
}

// Generate derives all five recommendation lists from the subscores. Outputs
// depend only on the ScoreResult.
func Generate(res domain.ScoreResult) domain.Recommendations {
	dims := dimensions(res.Subscores)

	rec := domain.Recommendations{}
	for _, d := range dims {
		if d.value >= strengthMin {
			rec.Strengths = append(rec.Strengths, fmt.Sprintf("%s (%d/10): %s", title(d.name), d.value, d.strength))
		}
		if d.value <= gapMax {
			rec.Gaps = append(rec.Gaps, fmt.Sprintf("%s (%d/10): %s", title(d.name), d.value, d.gap))
			if d.sixWeeks != "" {
				rec.Next6Weeks = append(rec.Next6Weeks, d.sixWeeks)
			}
			if d.ninetyDay != "" {
				rec.Next90Days = append(rec.Next90Days, d.ninetyDay)
			}
		}
	}
	rec.EssayAngles = essayAngles(dims)

	// Hard-coded fallbacks keep every list non-empty.
	if len(rec.Strengths) == 0 {
		rec.Strengths = append(rec.Strengths,
			fmt.Sprintf("Balanced profile in the %q band with no single disqualifier.", res.Band))
	}
	if len(rec.Gaps) == 0 {
		rec.Gaps = append(rec.Gaps,
			"No major gaps; differentiation now comes from sharper storytelling, not new credentials.")
	}
	if len(rec.Next6Weeks) == 0 {
		rec.Next6Weeks = append(rec.Next6Weeks,
			"Draft a one-page profile summary and pressure-test it with two admits or alumni.")
	}
	if len(rec.Next90Days) == 0 {
		rec.Next90Days = append(rec.Next90Days,
			"Build your school shortlist and map each essay prompt to an existing story.")
	}
	return rec
}

// essayAngles picks angles from the top strengths, strongest first, with a
// generic angle when nothing clears the bar.
func essayAngles(dims []dimension) []string {
	var qualified []dimension
	for _, d := range dims {
		if d.value >= strengthMin && d.essay != "" {
			qualified = append(qualified, d)
		}
	}
	sort.SliceStable(qualified, func(i, j int) bool { return qualified[i].value > qualified[j].value })
	if len(qualified) > 3 {
		qualified = qualified[:3]
	}
	var out []string
	for _, d := range qualified {
		out = append(out, d.essay)
	}
	if len(out) == 0 {
		out = append(out, "Lead with your growth trajectory: where you started, what changed, and why an MBA is the next inflection.")
	}
	return out
}

func title(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
