// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relevance decides whether a paper matches the research topic
// from keyword concept sets. Matching is case-insensitive substring search
// over the title and abstract.
package relevance

import (
	"fmt"
	"strings"

	"github.com/HamBa-m/sci-scraper/pkg/types"
)

// Policy is a keyword relevance predicate.
type Policy interface {
	Relevant(title, abstract string) bool
}

// blob joins title and abstract into the lower-cased text that tokens are
// matched against.
func blob(title, abstract string) string {
	return strings.ToLower(title + " | " + abstract)
}

func matchesAny(text string, tokens []string) bool {
	for _, tok := range tokens {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok != "" && strings.Contains(text, tok) {
			return true
		}
	}
	return false
}

// AllGroups accepts a paper when every group contributes at least one
// matching token. With no groups it accepts everything.
type AllGroups struct {
	Groups [][]string
}

func (p AllGroups) Relevant(title, abstract string) bool {
	text := blob(title, abstract)
	for _, g := range p.Groups {
		if !matchesAny(text, g) {
			return false
		}
	}
	return true
}

// Weighted requires an adversarial token, together with either a MARL or
// game-theory token, or both a multi-agent and an RL token.
type Weighted struct {
	Adversarial []string
	RL          []string
	MultiAgent  []string
	MARL        []string
	GameTheory  []string
}

func (p Weighted) Relevant(title, abstract string) bool {
	text := blob(title, abstract)
	if !matchesAny(text, p.Adversarial) {
		return false
	}
	if matchesAny(text, p.MARL) || matchesAny(text, p.GameTheory) {
		return true
	}
	return matchesAny(text, p.MultiAgent) && matchesAny(text, p.RL)
}

// Func adapts a function to Policy.
type Func func(title, abstract string) bool

func (f Func) Relevant(title, abstract string) bool { return f(title, abstract) }

// AcceptAll is a Policy that keeps every paper.
var AcceptAll Policy = Func(func(string, string) bool { return true })

// NewPolicy builds the named policy from concept sets. The all-groups
// policy requires an adversarial token and a token from the union of the
// RL, multi-agent, and MARL sets.
func NewPolicy(kind types.RelevancePolicy, c Concepts) (Policy, error) {
	switch kind {
	case types.PolicyWeighted, "":
		return Weighted{
			Adversarial: c[ConceptAdversarial],
			RL:          c[ConceptRL],
			MultiAgent:  c[ConceptMultiAgent],
			MARL:        c[ConceptMARL],
			GameTheory:  c[ConceptGameTheory],
		}, nil
	case types.PolicyAllGroups:
		var agentic []string
		agentic = append(agentic, c[ConceptRL]...)
		agentic = append(agentic, c[ConceptMultiAgent]...)
		agentic = append(agentic, c[ConceptMARL]...)
		return AllGroups{Groups: [][]string{c[ConceptAdversarial], agentic}}, nil
	}
	return nil, fmt.Errorf("unknown relevance policy %q", kind)
}
