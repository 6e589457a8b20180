// Package synonym canonicalizes near-synonymous resume terms so downstream
// detectors match one vocabulary. A rule pass substitutes registered synonyms;
// an optional embedding pass maps remaining words to the closest canonical
// term when cosine similarity clears a threshold.
package synonym

import (
	"log/slog"
	"math"
	"regexp"
	"strings"
	"sync"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
)

// DefaultThreshold is the minimum cosine similarity for an embedding-pass
// substitution.
const DefaultThreshold = 0.85

// Normalizer rewrites synonyms to canonical terms.
type Normalizer struct {
	dict       map[string]string // lower-cased synonym -> canonical
	canonicals []string
	ruleRe     *regexp.Regexp

	ai        domain.AIClient // nil disables the embedding pass
	threshold float64

	// One Normalizer serves concurrent requests; the lazy vector fill must
	// not race with readers.
	mu        sync.RWMutex
	canonVecs [][]float32
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithEmbeddings enables the embedding pass using the given client.
func WithEmbeddings(ai domain.AIClient, threshold float64) Option {
	return func(n *Normalizer) {
		n.ai = ai
		if threshold > 0 {
			n.threshold = threshold
		}
	}
}

// New builds a Normalizer from a canonical-term dictionary. Keys are
// canonical terms, values their synonyms.
func New(dict Dictionary, opts ...Option) *Normalizer {
	n := &Normalizer{
		dict:      make(map[string]string),
		threshold: DefaultThreshold,
	}
	for canonical, synonyms := range dict {
		n.canonicals = append(n.canonicals, canonical)
		for _, syn := range synonyms {
			n.dict[strings.ToLower(syn)] = canonical
		}
	}
	n.ruleRe = buildRuleRegexp(n.dict)
	for _, o := range opts {
		o(n)
	}
	return n
}

func buildRuleRegexp(dict map[string]string) *regexp.Regexp {
	if len(dict) == 0 {
		return nil
	}
	keys := make([]string, 0, len(dict))
	for k := range dict {
		keys = append(keys, regexp.QuoteMeta(k))
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(keys, "|") + `)\b`)
}

// Normalize applies the rule pass and, when enabled, the embedding pass.
// Embedding failures degrade to the rule-pass result, never to an error.
func (n *Normalizer) Normalize(ctx domain.Context, text string) string {
	out := n.rulePass(text)
	if n.ai == nil {
		return out
	}
	mapped, err := n.embeddingPass(ctx, out)
	if err != nil {
		slog.Warn("synonym embedding pass failed, keeping rule-pass result",
			slog.Any("error", err))
		return out
	}
	return mapped
}

func (n *Normalizer) rulePass(text string) string {
	if n.ruleRe == nil {
		return text
	}
	return n.ruleRe.ReplaceAllStringFunc(text, func(m string) string {
		if canonical, ok := n.dict[strings.ToLower(m)]; ok {
			return canonical
		}
		return m
	})
}

var wordRe = regexp.MustCompile(`\b[a-zA-Z]{4,}\b`)

func (n *Normalizer) embeddingPass(ctx domain.Context, text string) (string, error) {
	candidates := n.candidateWords(text)
	if len(candidates) == 0 {
		return text, nil
	}
	canon, err := n.canonicalVectors(ctx)
	if err != nil {
		return "", err
	}
	vecs, err := n.ai.Embed(ctx, candidates)
	if err != nil {
		return "", err
	}
	repl := make(map[string]string, len(candidates))
	for i, word := range candidates {
		if best, sim := n.closestCanonical(canon, vecs[i]); sim >= n.threshold {
			repl[word] = best
		}
	}
	if len(repl) == 0 {
		return text, nil
	}
	return wordRe.ReplaceAllStringFunc(text, func(m string) string {
		if canonical, ok := repl[strings.ToLower(m)]; ok {
			return canonical
		}
		return m
	}), nil
}

// candidateWords returns unique lower-cased words that are neither registered
// synonyms nor canonical terms already.
func (n *Normalizer) candidateWords(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range wordRe.FindAllString(text, -1) {
		lw := strings.ToLower(w)
		if seen[lw] {
			continue
		}
		seen[lw] = true
		if _, isSyn := n.dict[lw]; isSyn {
			continue
		}
		if n.isCanonical(lw) {
			continue
		}
		out = append(out, lw)
	}
	return out
}

func (n *Normalizer) isCanonical(word string) bool {
	for _, c := range n.canonicals {
		if strings.EqualFold(c, word) {
			return true
		}
	}
	return false
}

// canonicalVectors embeds the canonical terms on first use. A failed fill is
// not cached, so a later request retries.
func (n *Normalizer) canonicalVectors(ctx domain.Context) ([][]float32, error) {
	if len(n.canonicals) == 0 {
		return nil, nil
	}
	n.mu.RLock()
	vecs := n.canonVecs
	n.mu.RUnlock()
	if vecs != nil {
		return vecs, nil
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.canonVecs == nil {
		vecs, err := n.ai.Embed(ctx, n.canonicals)
		if err != nil {
			return nil, err
		}
		n.canonVecs = vecs
	}
	return n.canonVecs, nil
}

func (n *Normalizer) closestCanonical(canon [][]float32, vec []float32) (string, float64) {
	best, bestSim := "", -1.0
	for i, cv := range canon {
		if sim := cosine(vec, cv); sim > bestSim {
			best, bestSim = n.canonicals[i], sim
		}
	}
	return best, bestSim
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
