package vars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetImmediateStoresVerbatim(t *testing.T) {
	s := NewStore()
	s.SetImmediate("X", "hello")

	flavor, value, ok := s.Lookup("X")
	require.True(t, ok)
	assert.Equal(t, Immediate, flavor)
	assert.Equal(t, "hello", value)
}

func TestSetDeferredStoresRawText(t *testing.T) {
	s := NewStore()
	s.SetDeferred("X", "$(Y)")

	flavor, value, ok := s.Lookup("X")
	require.True(t, ok)
	assert.Equal(t, Deferred, flavor)
	assert.Equal(t, "$(Y)", value)
}

func TestLastAssignmentWinsAcrossFlavors(t *testing.T) {
	s := NewStore()
	s.SetDeferred("X", "deferred-value")
	s.SetImmediate("X", "immediate-value")

	flavor, value, ok := s.Lookup("X")
	require.True(t, ok)
	assert.Equal(t, Immediate, flavor)
	assert.Equal(t, "immediate-value", value)

	s.SetDeferred("X", "deferred-again")
	flavor, value, ok = s.Lookup("X")
	require.True(t, ok)
	assert.Equal(t, Deferred, flavor)
	assert.Equal(t, "deferred-again", value)
}

func TestSetIfAbsentDeferredOnlyAppliesWhenUnset(t *testing.T) {
	s := NewStore()
	s.SetIfAbsentDeferred("X", "first")
	s.SetIfAbsentDeferred("X", "second")

	_, value, ok := s.Lookup("X")
	require.True(t, ok)
	assert.Equal(t, "first", value)

	s.SetImmediate("Y", "bound")
	s.SetIfAbsentDeferred("Y", "should-not-apply")
	_, value, ok = s.Lookup("Y")
	require.True(t, ok)
	assert.Equal(t, "bound", value)
}

func TestSeedFromEnvironmentBindsDeferredAndIsOverridable(t *testing.T) {
	t.Setenv("GOMK_TEST_SEED", "shell-value")

	s := NewStore()
	s.SeedFromEnvironment()

	_, value, ok := s.Lookup("GOMK_TEST_SEED")
	require.True(t, ok)
	assert.Equal(t, "shell-value", value)

	s.SetIfAbsentDeferred("GOMK_TEST_SEED", "should-not-apply")
	_, value, _ = s.Lookup("GOMK_TEST_SEED")
	assert.Equal(t, "shell-value", value)

	s.SetImmediate("GOMK_TEST_SEED", "overridden")
	_, value, _ = s.Lookup("GOMK_TEST_SEED")
	assert.Equal(t, "overridden", value)
}

func TestNamesListsBothFlavors(t *testing.T) {
	s := NewStore()
	s.SetImmediate("A", "1")
	s.SetDeferred("B", "2")

	assert.ElementsMatch(t, []string{"A", "B"}, s.Names())
}
