// Package makefile implements the line-oriented makefile parser: the line
// reader and its logical-line classification, the explicit/pattern rule
// model, and the single-pass parser that builds a ParseResult.
package makefile

import (
	"fmt"

	"gomk/internal/vars"
)

// Rule is a single explicit build rule (or a pattern rule's synthesized
// instance). Target is a single path; a header declaring several
// space-separated targets produces one Rule per target, each sharing the
// same dependency/command lists.
type Rule struct {
	Target       string
	Dependencies []string
	OrderOnly    []string
	Commands     []string
	Phony        bool
	// Stem holds the text matched by % when this Rule was synthesized from
	// a PatternRule; empty for rules declared explicitly.
	Stem string
}

func (r *Rule) String() string {
	return fmt.Sprintf("Rule(%s: %v | %v)", r.Target, r.Dependencies, r.OrderOnly)
}

// PatternRule is a template rule whose target pattern contains exactly one
// '%'. Matching it against a concrete target name synthesizes a Rule (see
// Match).
type PatternRule struct {
	TargetPattern     string
	DependencyPattern []string
	OrderOnlyPattern  []string
	Commands          []string
}

// ParseResult is the immutable output of parsing a makefile: the explicit
// rule table, the pattern rule list (in declaration order), the phony set,
// the default target, and the variable store the rules and commands were
// expanded against.
type ParseResult struct {
	Rules         map[string]*Rule
	Patterns      []*PatternRule
	Phony         map[string]struct{}
	DefaultTarget string
	Vars          *vars.Store
}

func newParseResult() *ParseResult {
	return &ParseResult{
		Rules: make(map[string]*Rule),
		Phony: make(map[string]struct{}),
		Vars:  vars.NewStore(),
	}
}

// IsPhony reports whether name was declared in a .PHONY: directive.
func (p *ParseResult) IsPhony(name string) bool {
	_, ok := p.Phony[name]
	return ok
}
