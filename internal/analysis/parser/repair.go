package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
)

var (
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
	smartQuotes     = strings.NewReplacer(
		"“", `"`,
		"”", `"`,
		"‘", "'",
		"’", "'",
	)
)

// repairJSON applies a bounded repair to a model response: strip markdown
// fences, trim to the outermost balanced object, drop trailing commas,
// normalize smart quotes. Anything still invalid afterwards is rejected.
func repairJSON(raw string) (string, error) {
	s := removeMarkdownFences(raw)
	if json.Valid([]byte(s)) {
		return s, nil
	}
	s = extractObject(s)
	s = smartQuotes.Replace(s)
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	if !json.Valid([]byte(s)) {
		return "", fmt.Errorf("op=parser.repairJSON: %w", domain.ErrInvalidJSON)
	}
	return s, nil
}

func removeMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// extractObject trims to the outermost balanced {...} span. Brace counting
// ignores string contents; model output rarely nests braces inside strings
// and a miscount simply fails validation downstream.
func extractObject(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return s
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return s[start:]
}
