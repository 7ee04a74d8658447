// Package vars implements the variable store and expansion engine: two
// flavors of assignment (immediate, deferred), lookup with override
// semantics, and recursive $(NAME)/${NAME} substitution with cycle
// tolerance.
package vars

import (
	"os"
	"strings"

	"github.com/golang/glog"
)

// Flavor records whether a binding's value was expanded at definition time
// (Immediate) or is expanded at every reference (Deferred).
type Flavor int

const (
	// Deferred values are stored verbatim and expanded on every use.
	Deferred Flavor = iota
	// Immediate values are expanded once, at assignment time.
	Immediate
)

func (f Flavor) String() string {
	if f == Immediate {
		return "immediate"
	}
	return "deferred"
}

// Store holds two maps, one per assignment flavor, matching the spec's
// description of the variable store as two independent tables rather than
// a single tagged map. A name lives in at most one of the two maps at a
// time; assigning a name in one flavor removes it from the other, which is
// what makes "last assignment wins regardless of flavor" true.
type Store struct {
	immediate map[string]string
	deferred  map[string]string
}

// NewStore returns an empty variable store.
func NewStore() *Store {
	return &Store{
		immediate: make(map[string]string),
		deferred:  make(map[string]string),
	}
}

// SeedFromEnvironment binds every NAME=VALUE pair in the current process's
// environment as a deferred variable, before any makefile line is parsed.
// Grounded on the teacher's NewVariableStore, which populates its store
// from os.Environ() at construction time with sourceShellEnv. Calling this
// before parsing begins is what makes the documented load_env precedence
// hold: a later `load_env` directive uses SetIfAbsentDeferred, which finds
// the name already bound here and leaves the shell value untouched, while
// an explicit `=`/`:=` assignment still overwrites it unconditionally and
// `?=` still leaves it alone either way.
func (s *Store) SeedFromEnvironment() {
	for _, pair := range os.Environ() {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			continue
		}
		s.deferred[name] = value
	}
}

// SetImmediate records value, already fully expanded by the caller, under
// flavor Immediate. Implements `NAME := VALUE`.
func (s *Store) SetImmediate(name, value string) {
	delete(s.deferred, name)
	s.immediate[name] = value
	glog.V(2).Infof("vars: %s := %q", name, value)
}

// SetDeferred records value verbatim under flavor Deferred. Implements
// `NAME = VALUE`.
func (s *Store) SetDeferred(name, value string) {
	delete(s.immediate, name)
	s.deferred[name] = value
	glog.V(2).Infof("vars: %s = %q", name, value)
}

// SetIfAbsentDeferred records value under flavor Deferred only if name has
// no existing binding of either flavor. Implements `NAME ?= VALUE`, and
// also backs load_env-sourced bindings (lowest precedence).
func (s *Store) SetIfAbsentDeferred(name, value string) {
	if _, ok := s.lookupRaw(name); ok {
		return
	}
	s.deferred[name] = value
	glog.V(2).Infof("vars: %s ?= %q (applied)", name, value)
}

// lookupRaw returns the raw (unexpanded for deferred) value and whether a
// binding of either flavor exists.
func (s *Store) lookupRaw(name string) (string, bool) {
	if v, ok := s.immediate[name]; ok {
		return v, true
	}
	if v, ok := s.deferred[name]; ok {
		return v, true
	}
	return "", false
}

// Lookup returns the flavor and raw value bound to name, or ok=false on a
// miss. The returned value is NOT expanded for Deferred bindings — callers
// needing the resolved value should use Expand.
func (s *Store) Lookup(name string) (flavor Flavor, value string, ok bool) {
	if v, ok := s.immediate[name]; ok {
		return Immediate, v, true
	}
	if v, ok := s.deferred[name]; ok {
		return Deferred, v, true
	}
	return Deferred, "", false
}

// Names returns every currently bound variable name, for building a
// subprocess environment.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.immediate)+len(s.deferred))
	for name := range s.immediate {
		names = append(names, name)
	}
	for name := range s.deferred {
		names = append(names, name)
	}
	return names
}
