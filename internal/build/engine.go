// Package build implements the dependency-graph executor: staleness
// decisions, pattern-rule resolution on cache miss, automatic-variable
// substitution, and shell invocation with the run-options failure
// semantics from spec §4.6/§7.
package build

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"gomk/internal/makefile"
)

// targetStat is the target's on-disk modification status as observed by
// isStale, threaded through to runRecipe so it can compute $? without a
// second stat call.
type targetStat struct {
	modTime time.Time
	missing bool
}

// Options is the run-options surface the CLI glue hands to the executor
// (spec §6).
type Options struct {
	DryRun       bool
	Silent       bool
	KeepGoing    bool
	IgnoreErrors bool
	AlwaysMake   bool
	QuestionOnly bool
}

// Executor drives the depth-first post-order dependency walk over a single
// ParseResult.
type Executor struct {
	result   *makefile.ParseResult
	implicit map[string]*makefile.Rule
	opts     Options
	shell    string

	visiting map[string]bool
	// built memoizes, per target already visited by this Executor, the
	// rebuilt bool build() computed for it — not just the fact that it was
	// visited — so a second parent reaching the same node through a diamond
	// dependency still sees whether it was rebuilt (spec §4.6 step 3: "combine
	// with the dependency-derived flag").
	built map[string]bool
}

// NewExecutor returns an Executor for result configured with opts. Each
// Executor owns its own implicit-rule cache and memoization tables, so a
// fresh instance should be created per distinct run-options configuration
// (memoization must not cross a question_only/execute boundary, per spec
// §4.6 design notes).
func NewExecutor(result *makefile.ParseResult, opts Options) (*Executor, error) {
	shell, err := exec.LookPath("sh")
	if err != nil {
		return nil, errors.Wrap(err, "could not find a POSIX shell (sh) in PATH")
	}
	return &Executor{
		result:   result,
		implicit: make(map[string]*makefile.Rule),
		opts:     opts,
		shell:    shell,
		visiting: make(map[string]bool),
		built:    make(map[string]bool),
	}, nil
}

// Execute builds each of targets in order and returns whether anything
// needed rebuilding. An empty targets list falls back to the parse
// result's default target (spec §4.6); no default and no requested target
// is fatal.
func (e *Executor) Execute(targets []string) (bool, error) {
	if len(targets) == 0 {
		if e.result.DefaultTarget == "" {
			return false, targetErr("", errors.New("no target: makefile has no rules and none was requested"))
		}
		targets = []string{e.result.DefaultTarget}
	}

	var anyRebuilt bool
	for _, target := range targets {
		rebuilt, err := e.buildTop(target)
		if err != nil {
			if e.opts.KeepGoing {
				glog.Warningf("gomk: %v", err)
				continue
			}
			return anyRebuilt, err
		}
		anyRebuilt = anyRebuilt || rebuilt
	}
	return anyRebuilt, nil
}

// buildTop builds a requested (top-level) target, where an unresolvable
// name is fatal.
func (e *Executor) buildTop(target string) (bool, error) {
	return e.build(target, true)
}

// build resolves and (if stale) rebuilds target. isTopLevel distinguishes
// a directly requested target (unresolvable name is fatal) from a
// dependency reached during traversal (unresolvable name is tolerated —
// it's treated as an external input whose absence is the shell's problem,
// per spec §9's Open Question resolution).
func (e *Executor) build(target string, isTopLevel bool) (bool, error) {
	if rebuilt, ok := e.built[target]; ok {
		return rebuilt, nil
	}
	if e.visiting[target] {
		return false, targetErr(target, errors.New("circular dependency detected"))
	}

	rule, ok := e.resolve(target)
	if !ok {
		if isTopLevel {
			return false, targetErr(target, errors.New("no rule to make target. Stop"))
		}
		glog.V(1).Infof("no rule for %q; treating as external prerequisite", target)
		return false, nil
	}

	e.visiting[target] = true
	defer delete(e.visiting, target)

	for _, oo := range rule.OrderOnly {
		if _, err := e.build(oo, false); err != nil {
			return false, err
		}
	}

	var depRebuilt bool
	for _, dep := range rule.Dependencies {
		rebuilt, err := e.build(dep, false)
		if err != nil {
			return false, err
		}
		if rebuilt {
			depRebuilt = true
		}
	}

	stale, targetMT, err := e.isStale(rule)
	if err != nil {
		return false, targetErr(target, err)
	}
	needsRun := stale || depRebuilt

	if needsRun && !e.opts.QuestionOnly {
		if err := e.runRecipe(rule, targetMT); err != nil {
			return false, err
		}
	} else if !needsRun {
		glog.V(1).Infof("%q is up to date", target)
	}

	e.built[target] = needsRun
	return needsRun, nil
}

// resolve implements spec §4.6's resolution policy: explicit rule table,
// then the implicit-rule cache, then each pattern rule in declaration
// order (caching the synthesized Rule on first match).
func (e *Executor) resolve(target string) (*makefile.Rule, bool) {
	if rule, ok := e.result.Rules[target]; ok {
		return rule, true
	}
	if rule, ok := e.implicit[target]; ok {
		return rule, true
	}
	if rule, ok := makefile.MatchPatterns(e.result.Patterns, target); ok {
		e.implicit[target] = rule
		glog.V(1).Infof("synthesized implicit rule for %q: deps=%v", target, rule.Dependencies)
		return rule, true
	}
	return nil, false
}

// isStale implements spec §4.6's staleness decision. It also returns the
// target's mtime status so runRecipe can compute $? without re-statting.
func (e *Executor) isStale(rule *makefile.Rule) (bool, targetStat, error) {
	if e.opts.AlwaysMake {
		return true, targetStat{missing: true}, nil
	}
	if rule.Phony {
		return true, targetStat{missing: true}, nil
	}

	info, err := os.Stat(rule.Target)
	if err != nil {
		if os.IsNotExist(err) {
			return true, targetStat{missing: true}, nil
		}
		return false, targetStat{}, errors.Wrapf(err, "stat target %q", rule.Target)
	}
	ts := targetStat{modTime: info.ModTime()}

	for _, dep := range rule.Dependencies {
		depInfo, err := os.Stat(dep)
		if err != nil {
			if os.IsNotExist(err) {
				return true, ts, nil
			}
			return false, ts, errors.Wrapf(err, "stat dependency %q", dep)
		}
		if depInfo.ModTime().After(ts.modTime) {
			return true, ts, nil
		}
	}
	return false, ts, nil
}

// stripEchoPrefix reports whether raw is an `@`-prefixed recipe line (a
// syntactic prefix recognized on the written line, not something a
// variable expansion can produce) and, if so, returns it with the leading
// `@` removed. Grounded on the teacher's executeRecipe loop in
// cmd/make-lite/engine.go, which checks strings.HasPrefix(TrimSpace(line),
// "@") before expansion — not after, which would let a variable whose
// value happens to start with "@" suppress echoing too.
func stripEchoPrefix(raw string) (string, bool) {
	if !strings.HasPrefix(strings.TrimSpace(raw), "@") {
		return raw, false
	}
	return strings.Replace(raw, "@", "", 1), true
}

// runRecipe creates any directories the target paths need, then runs each
// command line after general variable expansion and automatic-variable
// substitution.
func (e *Executor) runRecipe(rule *makefile.Rule, ts targetStat) error {
	newer, err := newerDeps(ts, rule.Dependencies)
	if err != nil {
		return targetErr(rule.Target, err)
	}
	rc := newRecipeContext(rule, ts.missing, newer)

	if !e.opts.DryRun && !e.opts.QuestionOnly {
		if dir := filepath.Dir(rule.Target); dir != "." && dir != "/" && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return targetErr(rule.Target, errors.Wrapf(err, "create directory %q", dir))
			}
		}
	}

	for _, raw := range rule.Commands {
		raw, lineSuppressed := stripEchoPrefix(raw)
		suppress := e.opts.Silent || lineSuppressed

		expanded := e.result.Vars.Expand(raw)
		finalCmd := substituteAutomatic(expanded, rc)

		if !suppress {
			fmt.Println(finalCmd)
		}
		glog.V(2).Infof("executing: %s", finalCmd)

		if e.opts.DryRun || e.opts.QuestionOnly {
			continue
		}

		cmd := exec.Command(e.shell, "-c", finalCmd)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.Env = e.environment()
		if err := cmd.Run(); err != nil {
			if e.opts.IgnoreErrors {
				glog.Warningf("gomk: [%s] ignored: %v", rule.Target, err)
				continue
			}
			return targetErr(rule.Target, errors.Wrapf(err, "recipe command %q failed", finalCmd))
		}
	}
	return nil
}

// environment builds the subprocess environment: the current process's
// environment overridden by every currently bound makefile variable, so a
// recipe sees both its shell-inherited surroundings and the values the
// makefile itself assigned (spec §5).
func (e *Executor) environment() []string {
	env := os.Environ()
	for _, name := range e.result.Vars.Names() {
		env = append(env, name+"="+e.result.Vars.Expand("$("+name+")"))
	}
	return env
}
