package makefile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternRuleMatchExtractsStem(t *testing.T) {
	p := &PatternRule{TargetPattern: "%.o"}
	stem, ok := p.Match("foo.o")
	require.True(t, ok)
	assert.Equal(t, "foo", stem)

	_, ok = p.Match("foo.c")
	assert.False(t, ok)
}

func TestPatternRuleMatchRequiresPrefixAndSuffix(t *testing.T) {
	p := &PatternRule{TargetPattern: "build/%.o"}
	stem, ok := p.Match("build/foo.o")
	require.True(t, ok)
	assert.Equal(t, "foo", stem)

	_, ok = p.Match("other/foo.o")
	assert.False(t, ok)
}

func TestPatternRuleSynthesizeSubstitutesStemEverywhere(t *testing.T) {
	p := &PatternRule{
		TargetPattern:     "%.o",
		DependencyPattern: []string{"%.c", "%.h"},
		OrderOnlyPattern:  []string{"obj"},
		Commands:          []string{"cc -c %.c -o %.o"},
	}
	rule := p.Synthesize("foo.o", "foo")
	assert.Equal(t, "foo.o", rule.Target)
	assert.Equal(t, "foo", rule.Stem)
	assert.Equal(t, []string{"foo.c", "foo.h"}, rule.Dependencies)
	assert.Equal(t, []string{"obj"}, rule.OrderOnly)
	assert.Equal(t, []string{"cc -c foo.c -o foo.o"}, rule.Commands)
}

func TestMatchPatternsFirstDeclarationWins(t *testing.T) {
	patterns := []*PatternRule{
		{TargetPattern: "%.o", DependencyPattern: []string{"%.c"}},
		{TargetPattern: "%.o", DependencyPattern: []string{"%.cpp"}},
	}
	rule, ok := MatchPatterns(patterns, "foo.o")
	require.True(t, ok)
	assert.Equal(t, []string{"foo.c"}, rule.Dependencies)
}

func TestMatchPatternsNoMatch(t *testing.T) {
	patterns := []*PatternRule{{TargetPattern: "%.o"}}
	_, ok := MatchPatterns(patterns, "foo.txt")
	assert.False(t, ok)
}
