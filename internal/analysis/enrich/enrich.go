// Package enrich fuses sub-detector outputs into one SignalBundle. Input is
// an explicit two-variant type: a structured profile or flattened text. When
// the profile is present the structured fields win; the flattened text backs
// the regex detectors either way.
package enrich

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
)

// Input is the tagged-union detector input.
type Input struct {
	profile *domain.NormalizedProfile
	text    string
}

// Structured wraps a parsed profile.
func Structured(p *domain.NormalizedProfile) Input { return Input{profile: p} }

// Flattened wraps raw text for heuristics-only analysis.
func Flattened(text string) Input { return Input{text: text} }

// Separator joins profile fragments in the flattened text.
const Separator = " | "

// Enrich derives the full signal bundle. Every field is always present;
// absent source data maps to the zero default.
func Enrich(in Input, meta domain.MetaSignal) domain.SignalBundle {
	flat := in.text
	provenance := domain.ProvenanceHeuristic
	if in.profile != nil {
		flat = Flatten(in.profile)
		provenance = domain.ProvenanceParsed
	}
	lowerFlat := strings.ToLower(flat)

	bundle := domain.SignalBundle{
		Academics:  academicsSignal(in.profile, lowerFlat),
		Test:       testSignal(in.profile, lowerFlat),
		Impact:     impactSignal(lowerFlat),
		Intl:       intlSignal(in.profile, lowerFlat),
		Meta:       meta,
		Provenance: provenance,
	}
	bundle.Leadership = leadershipSignal(in.profile, lowerFlat)
	bundle.EC = ecSignal(in.profile, lowerFlat)
	return bundle
}

// Flatten renders the profile as one text blob for the regex detectors.
func Flatten(p *domain.NormalizedProfile) string {
	var parts []string
	for _, e := range p.Education {
		parts = append(parts, strings.TrimSpace(strings.Join(nonEmpty(e.School, e.Degree, e.Discipline, e.TierHint), " ")))
	}
	for _, r := range p.Roles {
		header := strings.Join(nonEmpty(r.Title, r.Company, r.Location, r.StartDate, r.EndDate), " ")
		parts = append(parts, header)
		for _, b := range r.Bullets {
			line := b.Text
			if b.Scope != nil && b.Scope.TeamSize != nil {
				line = fmt.Sprintf("%s team of %d", line, *b.Scope.TeamSize)
			}
			parts = append(parts, line)
		}
	}
	for _, ec := range p.Extracurriculars {
		parts = append(parts, ec.Text)
	}
	if p.International != nil {
		parts = append(parts, strings.Join(p.International.Regions, " "))
		parts = append(parts, p.International.Evidence...)
	}
	if p.Tests != nil {
		t := p.Tests.Type
		if p.Tests.Actual != nil {
			t = fmt.Sprintf("%s %d", t, *p.Tests.Actual)
		}
		if p.Tests.Target != nil {
			t = fmt.Sprintf("%s target %d", t, *p.Tests.Target)
		}
		parts = append(parts, strings.TrimSpace(t+" "+p.Tests.Descriptor))
	}
	parts = append(parts, p.Awards...)

	var kept []string
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, Separator)
}

func nonEmpty(ss ...string) []string {
	var out []string
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
