package makefile

import "strings"

// Match attempts to match target against the pattern rule's target pattern
// "prefix%suffix". On success it returns the stem (the text % matched) and
// ok=true. Per spec §4.4, a match requires target to be at least as long as
// prefix+suffix and to begin/end with them respectively.
func (p *PatternRule) Match(target string) (stem string, ok bool) {
	idx := strings.IndexByte(p.TargetPattern, '%')
	if idx < 0 {
		return "", false
	}
	prefix, suffix := p.TargetPattern[:idx], p.TargetPattern[idx+1:]
	if len(target) < len(prefix)+len(suffix) {
		return "", false
	}
	if !strings.HasPrefix(target, prefix) || !strings.HasSuffix(target, suffix) {
		return "", false
	}
	stem = target[len(prefix) : len(target)-len(suffix)]
	return stem, true
}

// substStem replaces every literal '%' in s with stem.
func substStem(s, stem string) string {
	return strings.ReplaceAll(s, "%", stem)
}

// Synthesize builds the concrete Rule a match against target produces: every
// '%' in the pattern's dependency/order-only/command templates is replaced
// by stem.
func (p *PatternRule) Synthesize(target, stem string) *Rule {
	rule := &Rule{
		Target: target,
		Stem:   stem,
	}
	for _, dep := range p.DependencyPattern {
		rule.Dependencies = append(rule.Dependencies, substStem(dep, stem))
	}
	for _, oo := range p.OrderOnlyPattern {
		rule.OrderOnly = append(rule.OrderOnly, substStem(oo, stem))
	}
	for _, cmd := range p.Commands {
		rule.Commands = append(rule.Commands, substStem(cmd, stem))
	}
	return rule
}

// MatchPatterns tries each pattern rule in declaration order and returns the
// first Rule it can synthesize for target, per "first match wins".
func MatchPatterns(patterns []*PatternRule, target string) (*Rule, bool) {
	for _, p := range patterns {
		if stem, ok := p.Match(target); ok {
			return p.Synthesize(target, stem), true
		}
	}
	return nil, false
}
