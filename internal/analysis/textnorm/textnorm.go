// Package textnorm cleans raw resume text before parsing and signal
// extraction: encoding fixes, abbreviation expansion, whitespace collapsing,
// and sentence casing. Normalize is idempotent.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/fairyhunter13/mba-profile-analyzer/pkg/textx"
)

// mojibake maps common UTF-8-read-as-Latin-1 byte sequences to the
// punctuation they were meant to be.
var mojibake = strings.NewReplacer(
	// UTF-8 punctuation decoded as Windows-1252.
	"\u00e2\u20ac\u2122", "'",
	"\u00e2\u20ac\u02dc", "'",
	"\u00e2\u20ac\u0153", "\"",
	"\u00e2\u20ac\u009d", "\"",
	"\u00e2\u20ac\u201c", "-",
	"\u00e2\u20ac\u201d", "-",
	"\u00e2\u20ac\u00a6", "...",
	"\u00c2\u00a0", " ",
	// Smart punctuation and non-breaking space in correctly decoded text.
	"\u2018", "'",
	"\u2019", "'",
	"\u201c", "\"",
	"\u201d", "\"",
	"\u2013", "-",
	"\u2014", "-",
	"\u2026", "...",
	"\u00a0", " ",
)

// abbreviations expands domain shorthand to full words. Whole-word,
// case-insensitive; replacements are already lower-case so a second pass
// finds nothing left to expand.
var abbreviations = map[string]string{
	"mgmt":   "management",
	"mgr":    "manager",
	"dept":   "department",
	"univ":   "university",
	"engg":   "engineering",
	"intl":   "international",
	"yrs":    "years",
	"exp":    "experience",
	"approx": "approximately",
	"w/":     "with",
	"b/w":    "between",
}

var abbrevRe = buildAbbrevRegexp()

func buildAbbrevRegexp() *regexp.Regexp {
	keys := make([]string, 0, len(abbreviations))
	for k := range abbreviations {
		keys = append(keys, regexp.QuoteMeta(k))
	}
	// \b does not match after "/", so anchor on non-word-or-slash instead.
	return regexp.MustCompile(`(?i)(^|[^\w/])(` + strings.Join(keys, "|") + `)\.?($|[^\w/])`)
}

var (
	wsRe        = regexp.MustCompile(`[ \t\r\n\f\v]+`)
	punctGapRe  = regexp.MustCompile(`\s+([,.;:!?])`)
	punctJoinRe = regexp.MustCompile(`([,.;:!?])([^\s\d])`)
)

// Normalize cleans resume text. Empty input returns empty output; the
// function is idempotent, so it can safely run again on stored results.
func Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	s := textx.SanitizeText(text)
	s = norm.NFC.String(s)
	s = mojibake.Replace(s)
	s = expandAbbreviations(s)
	s = wsRe.ReplaceAllString(s, " ")
	s = punctGapRe.ReplaceAllString(s, "$1")
	s = punctJoinRe.ReplaceAllString(s, "$1 $2")
	s = capitalizeSentences(strings.TrimSpace(s))
	return s
}

func expandAbbreviations(s string) string {
	// The regexp consumes the boundary characters, so adjacent matches such
	// as "mgmt exp" need a second sweep.
	for i := 0; i < 2; i++ {
		replaced := abbrevRe.ReplaceAllStringFunc(s, func(m string) string {
			sub := abbrevRe.FindStringSubmatch(m)
			full, ok := abbreviations[strings.ToLower(sub[2])]
			if !ok {
				return m
			}
			return sub[1] + full + sub[3]
		})
		if replaced == s {
			break
		}
		s = replaced
	}
	return s
}

// capitalizeSentences upper-cases the first letter of the text and of every
// run following a sentence terminator. Existing capitals are left alone.
func capitalizeSentences(s string) string {
	runes := []rune(s)
	atStart := true
	for i, r := range runes {
		switch {
		case atStart && unicode.IsLetter(r):
			runes[i] = unicode.ToUpper(r)
			atStart = false
		case r == '.' || r == '!' || r == '?':
			atStart = true
		case atStart && !unicode.IsSpace(r) && !unicode.IsLetter(r):
			atStart = false
		}
	}
	return string(runes)
}
