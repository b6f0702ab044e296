// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"fmt"
	"os"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/HamBa-m/sci-scraper/pkg/types"
)

// Concept set names.
const (
	ConceptAdversarial = "adversarial"
	ConceptRL          = "rl"
	ConceptMultiAgent  = "multi_agent"
	ConceptMARL        = "marl"
	ConceptGameTheory  = "game_theory"
)

// Concepts maps concept names to their tokens.
type Concepts map[string][]string

// DefaultConcepts returns the built-in concept sets.
func DefaultConcepts() Concepts {
	return Concepts{
		ConceptAdversarial: {"adversarial", "attack", "attacks", "robust", "defense", "defenses", "corruption"},
		ConceptRL:          {"reinforcement", "drl", "q-learning", "policy gradient", "actor-critic"},
		ConceptMultiAgent:  {"multi-agent", "multiagent", "multi agent", "agents"},
		ConceptMARL:        {"marl", "madrl", "multi-agent reinforcement", "multiagent reinforcement"},
		ConceptGameTheory:  {"game theory", "game-theoretic", "markov game", "stochastic game", "nash", "equilibrium", "zero-sum"},
	}
}

// LoadConcepts reads concept sets from a YAML mapping of name to token
// list. Sets missing from the file keep their defaults. An empty path
// returns the defaults.
func LoadConcepts(path string) (Concepts, error) {
	c := DefaultConcepts()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keywords file: %w", err)
	}
	var loaded map[string][]string
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parsing keywords file %s: %w", path, err)
	}
	for name, tokens := range loaded {
		c[name] = tokens
	}
	return c, nil
}

// Sets returns the concept sets sorted by name.
func (c Concepts) Sets() []types.KeywordConceptSet {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)

	sets := make([]types.KeywordConceptSet, 0, len(names))
	for _, name := range names {
		sets = append(sets, types.KeywordConceptSet{Name: name, Tokens: c[name]})
	}
	return sets
}
