package build

import (
	"os"
	"path/filepath"
	"strings"

	"gomk/internal/makefile"
)

// recipeContext holds the per-rule values the automatic variables resolve
// to, computed once per rule invocation and reused across all of its
// command lines (spec §4.5).
type recipeContext struct {
	target     string
	firstDep   string
	allDeps    string // $+  — all dependencies, duplicates preserved
	uniqueDeps string // $^  — all dependencies, duplicates removed
	newerDeps  string // $?  — dependencies newer than the target
	stem       string // $*
}

func newRecipeContext(rule *makefile.Rule, targetMissing bool, newer []string) *recipeContext {
	unique := uniqueStrings(rule.Dependencies)
	newerList := newer
	if targetMissing {
		newerList = rule.Dependencies
	}
	first := ""
	if len(rule.Dependencies) > 0 {
		first = rule.Dependencies[0]
	}
	return &recipeContext{
		target:     rule.Target,
		firstDep:   first,
		allDeps:    strings.Join(rule.Dependencies, " "),
		uniqueDeps: strings.Join(unique, " "),
		newerDeps:  strings.Join(newerList, " "),
		stem:       rule.Stem,
	}
}

func uniqueStrings(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}

// joinFiles/joinDirs apply filepath.Base/filepath.Dir to a space-separated
// list of paths and rejoin them with single spaces, for the $(^F)/$(^D)
// family of automatic variables.
func joinFiles(spaceJoined string) string {
	return mapFields(spaceJoined, filepath.Base)
}

func joinDirs(spaceJoined string) string {
	return mapFields(spaceJoined, filepath.Dir)
}

func mapFields(spaceJoined string, f func(string) string) string {
	fields := strings.Fields(spaceJoined)
	for i, field := range fields {
		fields[i] = f(field)
	}
	return strings.Join(fields, " ")
}

func fileOf(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}

func dirOf(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Dir(path)
}

// substituteAutomatic replaces every automatic-variable token in cmd. Per
// spec §4.5, the two-character $(...F)/$(...D) forms must be tried before
// their one-character counterparts so e.g. "$(@F)" isn't partially matched
// by a naive "$@" replacement first.
func substituteAutomatic(cmd string, rc *recipeContext) string {
	replacer := strings.NewReplacer(
		"$(@F)", fileOf(rc.target),
		"$(@D)", dirOf(rc.target),
		"$(<F)", fileOf(rc.firstDep),
		"$(<D)", dirOf(rc.firstDep),
		"$(^F)", joinFiles(rc.uniqueDeps),
		"$(^D)", joinDirs(rc.uniqueDeps),
		"$@", rc.target,
		"$<", rc.firstDep,
		"$^", rc.uniqueDeps,
		"$+", rc.allDeps,
		"$?", rc.newerDeps,
		"$*", rc.stem,
	)
	return replacer.Replace(cmd)
}

// newerDeps returns the subset of deps whose mtime is strictly after the
// target's mtime (or every dep, if the target is missing). Dependencies
// whose files do not exist are left out either way.
func newerDeps(ts targetStat, deps []string) ([]string, error) {
	var newer []string
	for _, dep := range deps {
		info, err := os.Stat(dep)
		if err != nil {
			if os.IsNotExist(err) {
				// Absence of a dependency file is the shell's problem
				// (spec §9 Open Question); it does not block computing $?.
				continue
			}
			return nil, err
		}
		if ts.missing || info.ModTime().After(ts.modTime) {
			newer = append(newer, dep)
		}
	}
	return newer, nil
}
