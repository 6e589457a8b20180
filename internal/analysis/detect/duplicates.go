// Package detect holds the three content-quality detectors: duplicate
// bullets, internal consistency, and metrics density. All of them are pure
// functions over the parsed profile; none of them feed the score.
package detect

import (
	"regexp"
	"strings"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
)

// DuplicateThreshold is the hybrid similarity above which two bullets count
// as duplicates. Tunable constant, not derived.
const DuplicateThreshold = 0.85

const (
	wordWeight  = 0.7
	ngramWeight = 0.3
)

// fillerRe strips lead-in phrases that say nothing, so near-identical bullets
// compare on their content.
var fillerRe = regexp.MustCompile(`(?i)\b(responsible for|worked on|helped with|assisted in|tasked with|in charge of|duties included)\b`)

var punctRe = regexp.MustCompile(`[^\w\s]`)

// Duplicates finds bullet pairs whose hybrid similarity crosses the
// threshold, reported once per unordered pair.
func Duplicates(profile *domain.NormalizedProfile) ([]domain.DuplicatePair, domain.DuplicateSummary) {
	type entry struct {
		ref   domain.BulletRef
		words map[string]struct{}
		grams map[string]struct{}
	}

	var entries []entry
	for ri, role := range profile.Roles {
		for bi, bullet := range role.Bullets {
			norm := normalizeBulletText(bullet.Text)
			if norm == "" {
				continue
			}
			entries = append(entries, entry{
				ref:   domain.BulletRef{RoleIndex: ri, BulletIndex: bi, RoleKey: role.Key()},
				words: wordSet(norm),
				grams: trigramSet(norm),
			})
		}
	}

	var pairs []domain.DuplicatePair
	var simSum float64
	summary := domain.DuplicateSummary{}
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			sim := wordWeight*jaccard(entries[i].words, entries[j].words) +
				ngramWeight*jaccard(entries[i].grams, entries[j].grams)
			if sim < DuplicateThreshold {
				continue
			}
			sameRole := entries[i].ref.RoleIndex == entries[j].ref.RoleIndex
			pairs = append(pairs, domain.DuplicatePair{
				A:          entries[i].ref,
				B:          entries[j].ref,
				Similarity: sim,
				SameRole:   sameRole,
			})
			simSum += sim
			if sameRole {
				summary.WithinRole++
			} else {
				summary.CrossRole++
			}
		}
	}
	summary.Count = len(pairs)
	if len(pairs) > 0 {
		summary.AvgSimilarity = simSum / float64(len(pairs))
	}
	return pairs, summary
}

func normalizeBulletText(text string) string {
	s := strings.ToLower(text)
	s = fillerRe.ReplaceAllString(s, " ")
	s = punctRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}

func trigramSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	runes := []rune(s)
	for i := 0; i+3 <= len(runes); i++ {
		set[string(runes[i:i+3])] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
