package parser

import (
	"regexp"
	"strings"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/adapter/ai/tokencount"
)

var (
	blankLineRe = regexp.MustCompile(`\n[ \t]*\n+`)
	headingRe   = regexp.MustCompile(`(?m)^(?:[A-Z][A-Z &/]{2,}|[A-Za-z ]{2,30}:)\s*$`)
)

// splitChunks breaks resume text into role-sized chunks along blank-line and
// section-heading boundaries. Short text stays whole; splits that would lose
// half the content fall back to a single chunk.
func (p *Parser) splitChunks(text string) []string {
	if tokencount.EstimateTokensDefault(text, p.opts.Model) <= p.opts.ChunkTokenBudget {
		return []string{text}
	}

	sections := splitSections(text)
	if len(sections) <= 1 {
		return []string{text}
	}

	chunks := p.packSections(sections)
	if len(chunks) <= 1 {
		return []string{text}
	}
	if contentLen(strings.Join(chunks, "")) < contentLen(text)/2 {
		return []string{text}
	}
	return chunks
}

// splitSections cuts on blank lines first, then before heading-like lines
// (ALL-CAPS banners or short "Something:" labels).
func splitSections(text string) []string {
	var sections []string
	for _, block := range blankLineRe.Split(text, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		sections = append(sections, splitOnHeadings(block)...)
	}
	return sections
}

func splitOnHeadings(block string) []string {
	locs := headingRe.FindAllStringIndex(block, -1)
	if len(locs) == 0 {
		return []string{block}
	}
	var out []string
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			if part := strings.TrimSpace(block[prev:loc[0]]); part != "" {
				out = append(out, part)
			}
		}
		prev = loc[0]
	}
	if part := strings.TrimSpace(block[prev:]); part != "" {
		out = append(out, part)
	}
	return out
}

// packSections greedily joins adjacent sections up to the token budget, never
// exceeding the chunk cap; the final chunk absorbs whatever remains.
func (p *Parser) packSections(sections []string) []string {
	var chunks []string
	var cur strings.Builder
	for _, sec := range sections {
		if cur.Len() > 0 {
			joined := cur.String() + "\n\n" + sec
			if len(chunks) == p.opts.MaxChunks-1 ||
				tokencount.EstimateTokensDefault(joined, p.opts.Model) <= p.opts.ChunkTokenBudget {
				cur.Reset()
				cur.WriteString(joined)
				continue
			}
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		cur.WriteString(sec)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

func contentLen(s string) int {
	n := 0
	for _, r := range s {
		if !strings.ContainsRune(" \t\r\n\f\v", r) {
			n++
		}
	}
	return n
}
