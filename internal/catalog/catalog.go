// Package catalog holds the built-in habit suggestions.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/gmsas95/habitlens/internal/classify"
	"gopkg.in/yaml.v3"
)

// MaxSuggestions caps the list returned by Suggest
const MaxSuggestions = 12

const popularReason = "Popular"

//go:embed habits.yaml
var habitsYAML []byte

// Suggestion is a habit the user might want to start
type Suggestion struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
	Icon        string `json:"icon" yaml:"icon"`
	Color       string `json:"color" yaml:"color"`
	Reason      string `json:"reason" yaml:"reason"`
}

// Pair suggests a companion habit for names containing Key
type Pair struct {
	Key        string     `yaml:"key"`
	Suggestion Suggestion `yaml:"suggestion"`
}

// Catalog is the parsed suggestion data
type Catalog struct {
	Popular    []Suggestion            `yaml:"popular"`
	Categories map[string][]Suggestion `yaml:"categories"`
	Pairs      []Pair                  `yaml:"pairs"`
}

// Parse decodes a catalog document
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse habit catalog: %w", err)
	}
	for i := range c.Popular {
		if c.Popular[i].Reason == "" {
			c.Popular[i].Reason = popularReason
		}
	}
	return &c, nil
}

var (
	builtin     *Catalog
	builtinOnce sync.Once
)

// Default returns the embedded catalog
func Default() *Catalog {
	builtinOnce.Do(func() {
		c, err := Parse(habitsYAML)
		if err != nil {
			panic(err)
		}
		builtin = c
	})
	return builtin
}

// Suggest returns suggestions for a user who already tracks the named habits
func Suggest(existing []string) []Suggestion {
	return Default().Suggest(existing)
}

// Suggest combines popular habits the user lacks, habits from the categories
// the user already tracks, and companions of specific habits. Names are
// de-duplicated case-insensitively, keeping the first occurrence.
func (c *Catalog) Suggest(existing []string) []Suggestion {
	names := make([]string, len(existing))
	have := make(map[string]bool, len(existing))
	for i, name := range existing {
		names[i] = strings.ToLower(strings.TrimSpace(name))
		have[names[i]] = true
	}

	candidates := make([]Suggestion, 0, len(c.Popular))
	for _, s := range c.Popular {
		if !have[strings.ToLower(s.Name)] {
			candidates = append(candidates, s)
		}
	}

	var seenCategories []string
	for _, name := range existing {
		id := classify.Detect(name).ID
		if !contains(seenCategories, id) {
			seenCategories = append(seenCategories, id)
		}
	}
	for _, id := range seenCategories {
		candidates = append(candidates, c.Categories[id]...)
	}

	for _, name := range names {
		for _, p := range c.Pairs {
			if strings.Contains(name, p.Key) {
				candidates = append(candidates, p.Suggestion)
			}
		}
	}

	seen := make(map[string]bool, len(candidates))
	result := make([]Suggestion, 0, MaxSuggestions)
	for _, s := range candidates {
		key := strings.ToLower(s.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, s)
		if len(result) == MaxSuggestions {
			break
		}
	}
	return result
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
