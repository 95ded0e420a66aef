package lang

import (
	"sort"

	"go.trai.ch/zerr"
)

// ErrUndefined is returned when a lookup or deletion names an unbound
// variable.
var ErrUndefined = zerr.New("undefined variable")

// Env is a lexical environment frame with a parent link. Lookups walk
// parent-ward; Define binds in the current frame.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a new frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Define binds name to v in the current frame, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Get retrieves the nearest visible binding for name.
func (e *Env) Get(name string) (Value, error) {
	if v, ok := e.table[name]; ok {
		return v, nil
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return Value{}, zerr.With(zerr.Wrap(ErrUndefined, "lookup failed"), "name", name)
}

// Has reports whether name is visible from this frame.
func (e *Env) Has(name string) bool {
	_, err := e.Get(name)
	return err == nil
}

// Delete removes the nearest visible binding for name.
func (e *Env) Delete(name string) error {
	if _, ok := e.table[name]; ok {
		delete(e.table, name)
		return nil
	}
	if e.parent != nil {
		return e.parent.Delete(name)
	}
	return zerr.With(zerr.Wrap(ErrUndefined, "deletion failed"), "name", name)
}

// Names returns every visible binding name, sorted, with shadowed outer
// bindings reported once.
func (e *Env) Names() []string {
	seen := make(map[string]struct{})
	for f := e; f != nil; f = f.parent {
		for name := range f.table {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Flatten returns the visible binding set as a map, nearest frame winning.
func (e *Env) Flatten() map[string]Value {
	out := make(map[string]Value)
	var walk func(f *Env)
	walk = func(f *Env) {
		if f == nil {
			return
		}
		walk(f.parent)
		for name, v := range f.table {
			out[name] = v
		}
	}
	walk(e)
	return out
}
