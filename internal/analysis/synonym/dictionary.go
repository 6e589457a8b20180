package synonym

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Dictionary maps a canonical term to the synonyms that should collapse into
// it.
type Dictionary map[string][]string

// DefaultDictionary covers the vocabulary the signal detectors key on.
func DefaultDictionary() Dictionary {
	return Dictionary{
		"led":           {"headed", "spearheaded", "directed", "oversaw", "supervised"},
		"managed":       {"administered", "coordinated", "ran", "handled"},
		"built":         {"developed", "created", "constructed", "engineered"},
		"launched":      {"released", "rolled out", "shipped", "deployed"},
		"improved":      {"enhanced", "boosted", "optimized", "strengthened"},
		"increased":     {"grew", "raised", "expanded", "scaled up"},
		"reduced":       {"decreased", "cut", "lowered", "trimmed"},
		"revenue":       {"sales", "turnover", "topline"},
		"international": {"global", "overseas", "multinational", "cross-border"},
		"team":          {"squad", "crew", "workgroup"},
	}
}

// LoadDictionary reads a YAML dictionary file (canonical term to synonym
// list). An empty path returns the default dictionary.
func LoadDictionary(path string) (Dictionary, error) {
	if path == "" {
		return DefaultDictionary(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("op=synonym.LoadDictionary: %w", err)
	}
	var d Dictionary
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("op=synonym.LoadDictionary parse: %w", err)
	}
	if len(d) == 0 {
		return nil, fmt.Errorf("op=synonym.LoadDictionary: empty dictionary %s", path)
	}
	return d, nil
}
