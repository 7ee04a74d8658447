package makefile

import (
	"bufio"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Parser drives the line reader and builds a ParseResult in a single
// forward pass over the makefile's logical lines, per spec §4.3.
type Parser struct {
	result *ParseResult

	// currentRules/currentPattern are the storage destinations a
	// subsequently encountered tab-indented command line is appended to —
	// "the most recently parsed rule header" from spec §4.1. They are
	// mutually exclusive and are reassigned only when a new rule header is
	// parsed, so intervening assignment/phony lines do not interrupt
	// command attachment.
	currentRules   []*Rule
	currentPattern *PatternRule
}

// NewParser returns a Parser with a fresh variable store, pre-seeded from
// the shell environment so `load_env` and an unset `$(NAME)` reference both
// resolve to the inherited environment value until a makefile assignment
// overrides it (spec's Supplemented Features: shell env and explicit
// assignments both outrank `load_env`).
func NewParser() *Parser {
	result := newParseResult()
	result.Vars.SeedFromEnvironment()
	return &Parser{result: result}
}

// ParseFile reads path and parses it into a ParseResult.
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open makefile %q", path)
	}
	defer f.Close()

	var physical []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		physical = append(physical, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read makefile %q", path)
	}

	for _, line := range joinContinuations(physical) {
		if isCommandLine(line) {
			p.appendCommand(strings.TrimPrefix(line, "\t"))
			continue
		}
		if isSkippableInCommandBlock(line) {
			continue
		}
		if err := p.parseLine(line); err != nil {
			return nil, err
		}
	}

	for name := range p.result.Phony {
		if rule, ok := p.result.Rules[name]; ok {
			rule.Phony = true
		}
	}
	return p.result, nil
}

func (p *Parser) appendCommand(cmd string) {
	for _, r := range p.currentRules {
		r.Commands = append(r.Commands, cmd)
	}
	if p.currentPattern != nil {
		p.currentPattern.Commands = append(p.currentPattern.Commands, cmd)
	}
	if len(p.currentRules) == 0 && p.currentPattern == nil {
		glog.Warningf("command line with no preceding rule header, ignored: %q", cmd)
	}
}

func (p *Parser) parseLine(line string) error {
	c := classifyLine(line)
	switch c.kind {
	case kindBlank:
		return nil
	case kindPhony:
		p.parsePhony(c.right)
		return nil
	case kindLoadEnv:
		p.loadEnv(c.right)
		return nil
	case kindAssignImmediate:
		value := p.result.Vars.Expand(c.right)
		p.result.Vars.SetImmediate(c.left, value)
		return nil
	case kindAssignDeferred:
		p.result.Vars.SetDeferred(c.left, c.right)
		return nil
	case kindAssignCondDeferred:
		p.result.Vars.SetIfAbsentDeferred(c.left, c.right)
		return nil
	case kindRuleHeader:
		return p.parseRuleHeader(c.left, c.right)
	default:
		return errors.Errorf("not a rule, assignment, or directive: %q", line)
	}
}

func (p *Parser) parsePhony(remainder string) {
	expanded := p.result.Vars.Expand(remainder)
	for _, name := range strings.Fields(expanded) {
		p.result.Phony[name] = struct{}{}
	}
}

func (p *Parser) loadEnv(path string) {
	path = trimQuotes(strings.TrimSpace(path))
	env, err := godotenv.Read(path)
	if err != nil {
		glog.Warningf("load_env %q: %v", path, err)
		return
	}
	for k, v := range env {
		p.result.Vars.SetIfAbsentDeferred(k, v)
	}
}

// parseRuleHeader classifies left/right as a pattern or explicit rule
// (based on the raw, pre-expansion target portion, per spec §4.3) and
// registers the resulting Rule(s)/PatternRule, updating currentRules /
// currentPattern so subsequent command lines attach to it.
func (p *Parser) parseRuleHeader(rawLeft, rawRight string) error {
	p.currentRules = nil
	p.currentPattern = nil

	if strings.Contains(rawLeft, "%") {
		return p.parsePatternHeader(rawLeft, rawRight)
	}
	return p.parseExplicitHeader(rawLeft, rawRight)
}

func (p *Parser) parseExplicitHeader(rawLeft, rawRight string) error {
	targets := strings.Fields(p.result.Vars.Expand(rawLeft))
	if len(targets) == 0 {
		// A rule header with an empty target string is silently discarded.
		return nil
	}

	deps, orderOnly := splitPrereqs(p.result.Vars.Expand(rawRight))

	for _, target := range targets {
		rule := &Rule{
			Target:       target,
			Dependencies: append([]string(nil), deps...),
			OrderOnly:    append([]string(nil), orderOnly...),
		}
		p.result.Rules[target] = rule
		p.currentRules = append(p.currentRules, rule)
		if p.result.DefaultTarget == "" {
			p.result.DefaultTarget = target
		}
	}
	glog.V(1).Infof("rule: %v deps=%v order-only=%v", targets, deps, orderOnly)
	return nil
}

func (p *Parser) parsePatternHeader(rawLeft, rawRight string) error {
	fields := strings.Fields(rawLeft)
	if len(fields) == 0 {
		return nil
	}
	depPatterns, orderOnlyPatterns := splitPrereqs(rawRight)

	pr := &PatternRule{
		TargetPattern:     fields[0],
		DependencyPattern: depPatterns,
		OrderOnlyPattern:  orderOnlyPatterns,
	}
	p.result.Patterns = append(p.result.Patterns, pr)
	p.currentPattern = pr
	glog.V(1).Infof("pattern rule: %s deps=%v order-only=%v", pr.TargetPattern, depPatterns, orderOnlyPatterns)
	return nil
}

// splitPrereqs splits a prerequisites portion on the first unescaped '|'
// into the dependency list and the order-only list, per spec §6.
func splitPrereqs(prereqs string) (deps, orderOnly []string) {
	before, after, hasOrderOnly := splitUnescaped(prereqs, '|')
	deps = strings.Fields(before)
	if hasOrderOnly {
		orderOnly = strings.Fields(after)
	}
	return deps, orderOnly
}

func trimQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
