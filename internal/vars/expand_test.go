package vars

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandImmediateCapturesValueAtAssignmentTime(t *testing.T) {
	s := NewStore()
	s.SetDeferred("BASE", "1")
	s.SetImmediate("SNAPSHOT", s.Expand("$(BASE)"))
	s.SetDeferred("BASE", "2")

	assert.Equal(t, "1", s.Expand("$(SNAPSHOT)"))
	assert.Equal(t, "2", s.Expand("$(BASE)"))
}

func TestExpandDeferredResolvesAtEveryReference(t *testing.T) {
	s := NewStore()
	s.SetDeferred("BASE", "1")
	s.SetDeferred("ALIAS", "$(BASE)")

	assert.Equal(t, "1", s.Expand("$(ALIAS)"))
	s.SetDeferred("BASE", "2")
	assert.Equal(t, "2", s.Expand("$(ALIAS)"))
}

func TestExpandRecursesThroughMultipleLevels(t *testing.T) {
	s := NewStore()
	s.SetDeferred("A", "$(B)")
	s.SetDeferred("B", "$(C)")
	s.SetDeferred("C", "leaf")

	assert.Equal(t, "leaf", s.Expand("$(A)"))
}

func TestExpandSelfReferenceCycleToleratesAsEmpty(t *testing.T) {
	s := NewStore()
	s.SetDeferred("X", "prefix-$(X)-suffix")

	assert.Equal(t, "prefix--suffix", s.Expand("$(X)"))
}

func TestExpandUnknownNameYieldsEmptyString(t *testing.T) {
	s := NewStore()
	assert.Equal(t, "", s.Expand("$(NOPE)"))
	assert.Equal(t, "before--after", s.Expand("before-$(NOPE)-after"))
}

func TestExpandSupportsBothBracketStyles(t *testing.T) {
	s := NewStore()
	s.SetImmediate("X", "val")
	assert.Equal(t, "val", s.Expand("$(X)"))
	assert.Equal(t, "val", s.Expand("${X}"))
}

func TestExpandLeavesBareDollarAndAutomaticDirsUntouched(t *testing.T) {
	s := NewStore()
	s.SetImmediate("X", "val")

	assert.Equal(t, "$@ stays $@", s.Expand("$@ stays $@"))
	assert.Equal(t, "$(@F) and $(@D)", s.Expand("$(@F) and $(@D)"))
	assert.Equal(t, "val and $(@F)", s.Expand("$(X) and $(@F)"))
}

func TestExpandUnmatchedBracketIsLiteral(t *testing.T) {
	s := NewStore()
	assert.Equal(t, "$(unterminated", s.Expand("$(unterminated"))
}
