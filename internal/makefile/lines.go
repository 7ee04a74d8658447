package makefile

import "strings"

// joinContinuations implements backslash-newline continuation per spec
// §4.1: a physical line ending in a single (unescaped) backslash has that
// backslash removed and the next physical line appended directly (no
// separator), before the result is reclassified. Grounded on
// cmd/make-lite/parser.go's joinContinuations.
func joinContinuations(physicalLines []string) []string {
	var logical []string
	var building strings.Builder
	inContinuation := false

	flush := func() {
		logical = append(logical, building.String())
		building.Reset()
	}

	for _, line := range physicalLines {
		if !inContinuation {
			building.Reset()
		}
		if endsInUnescapedBackslash(line) {
			building.WriteString(line[:len(line)-1])
			inContinuation = true
			continue
		}
		building.WriteString(line)
		flush()
		inContinuation = false
	}
	if inContinuation {
		flush()
	}
	return logical
}

// endsInUnescapedBackslash reports whether line ends in a single trailing
// backslash (an odd run of trailing backslashes means the last one is
// unescaped).
func endsInUnescapedBackslash(line string) bool {
	n := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// splitUnescaped scans s left to right for the first unescaped occurrence
// of sep and returns the text before/after it. A backslash escapes the
// character immediately following it (the backslash is left in place;
// callers that care about literal separators strip escapes separately).
func splitUnescaped(s string, sep byte) (before, after string, found bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			continue
		}
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

// lineKind classifies a logical, non-continuation line at the top level
// (i.e. one that does not begin with a tab).
type lineKind int

const (
	kindBlank lineKind = iota
	kindPhony
	kindLoadEnv
	kindAssignImmediate
	kindAssignDeferred
	kindAssignCondDeferred
	kindRuleHeader
	kindInvalid
)

type classified struct {
	kind lineKind
	// left/right hold the unexpanded text either side of the classifying
	// operator: variable name/value for assignments, target/prerequisite
	// portions for rule headers, the remainder for .PHONY:/load_env.
	left  string
	right string
}

const phonyPrefix = ".PHONY:"
const loadEnvPrefix = "load_env "

// classifyLine implements spec §4.1's classification order: comment/blank,
// phony directive, assignment, rule header.
func classifyLine(line string) classified {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return classified{kind: kindBlank}
	}
	if strings.HasPrefix(trimmed, phonyPrefix) {
		return classified{kind: kindPhony, right: trimmed[len(phonyPrefix):]}
	}
	if strings.HasPrefix(trimmed, loadEnvPrefix) {
		return classified{kind: kindLoadEnv, right: strings.TrimSpace(trimmed[len(loadEnvPrefix):])}
	}

	if kind, left, right, ok := scanOperator(trimmed); ok {
		return classified{kind: kind, left: left, right: right}
	}
	return classified{kind: kindInvalid}
}

// scanOperator walks line left to right looking for the first of ":=",
// "?=", "=" or a bare ':'. The first one found classifies the line: ":="
// and "?=" are recognized before a bare "=" would be (since both are
// two-character operators whose second character is "="), and a bare ':'
// hit before any assignment operator marks a rule header instead. This is
// exactly spec §4.1's "first occurrence ... before any unescaped :" rule,
// expressed as a single left-to-right scan rather than three independent
// substring searches.
func scanOperator(line string) (kind lineKind, left, right string, ok bool) {
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && i+1 < len(line):
			i++
		case c == ':' && i+1 < len(line) && line[i+1] == '=':
			return kindAssignImmediate, strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+2:]), true
		case c == ':':
			return kindRuleHeader, line[:i], line[i+1:], true
		case c == '?' && i+1 < len(line) && line[i+1] == '=':
			return kindAssignCondDeferred, strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+2:]), true
		case c == '=':
			return kindAssignDeferred, strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), true
		}
	}
	return 0, "", "", false
}

// isCommandLine reports whether line (not comment/blank) is a tab-indented
// recipe line belonging to the preceding rule.
func isCommandLine(line string) bool {
	return len(line) > 0 && line[0] == '\t'
}

// isSkippableInCommandBlock reports whether line is blank or comment-only,
// which per spec §4.1 does not terminate an in-progress command block.
func isSkippableInCommandBlock(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}
