package lang

import (
	"math"
	"slices"
)

// ValueKind tags the runtime representation of a Value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindStr
	KindIntVec
	KindFloatVec
	KindStrVec
	KindHandle
	KindBuiltin
)

// Value is a runtime value. Data holds the concrete representation per Kind:
// nil, bool, int64, float64, string, []int64, []float64, []string, *Handle,
// or *Builtin.
type Value struct {
	Kind ValueKind
	Data any
}

// Handle is an opaque boxed reference to host-owned state, such as a
// graphics artifact. Handles cannot be fingerprinted or snapshotted.
type Handle struct {
	Kind string
	Data any
}

// Builtin is a native function installed by the execution host.
type Builtin struct {
	Name string
	Fn   any // host-side implementation; opaque at this layer
}

// Constructors.

func Null() Value                  { return Value{Kind: KindNull} }
func Bool(b bool) Value            { return Value{Kind: KindBool, Data: b} }
func Int(n int64) Value            { return Value{Kind: KindInt, Data: n} }
func Float(f float64) Value        { return Value{Kind: KindFloat, Data: f} }
func Str(s string) Value           { return Value{Kind: KindStr, Data: s} }
func IntVec(ns []int64) Value      { return Value{Kind: KindIntVec, Data: ns} }
func FloatVec(fs []float64) Value  { return Value{Kind: KindFloatVec, Data: fs} }
func StrVec(ss []string) Value     { return Value{Kind: KindStrVec, Data: ss} }
func HandleVal(h *Handle) Value    { return Value{Kind: KindHandle, Data: h} }
func BuiltinVal(b *Builtin) Value  { return Value{Kind: KindBuiltin, Data: b} }

// TypeTag returns the R-style type name of the value.
func (v Value) TypeTag() string {
	switch v.Kind {
	case KindNull:
		return "NULL"
	case KindBool:
		return "logical"
	case KindInt, KindIntVec:
		return "integer"
	case KindFloat, KindFloatVec:
		return "double"
	case KindStr, KindStrVec:
		return "character"
	case KindHandle:
		return "externalptr"
	case KindBuiltin:
		return "builtin"
	default:
		return "unknown"
	}
}

// Len returns the element count; scalars have length 1 and NULL length 0.
func (v Value) Len() int {
	switch v.Kind {
	case KindNull:
		return 0
	case KindIntVec:
		return len(v.Data.([]int64))
	case KindFloatVec:
		return len(v.Data.([]float64))
	case KindStrVec:
		return len(v.Data.([]string))
	default:
		return 1
	}
}

// Clone deep-copies the value. Vector backing arrays are copied so a cloned
// snapshot is immune to later in-place mutation. Handles and builtins are
// shared by reference; they are never reconstructible copies.
func (v Value) Clone() Value {
	switch v.Kind {
	case KindIntVec:
		return IntVec(slices.Clone(v.Data.([]int64)))
	case KindFloatVec:
		return FloatVec(slices.Clone(v.Data.([]float64)))
	case KindStrVec:
		return StrVec(slices.Clone(v.Data.([]string)))
	default:
		return v
	}
}

// Equal reports deep observational equality. Floats compare exactly, with
// NaN equal to NaN so snapshots round-trip. Handles compare by identity.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindFloat:
		return floatEq(v.Data.(float64), o.Data.(float64))
	case KindIntVec:
		return slices.Equal(v.Data.([]int64), o.Data.([]int64))
	case KindFloatVec:
		return slices.EqualFunc(v.Data.([]float64), o.Data.([]float64), floatEq)
	case KindStrVec:
		return slices.Equal(v.Data.([]string), o.Data.([]string))
	case KindHandle, KindBuiltin:
		return v.Data == o.Data
	default:
		return v.Data == o.Data
	}
}

func floatEq(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}

// AsFloat widens a numeric scalar to float64.
func (v Value) AsFloat() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Data.(int64)), true
	case KindFloat:
		return v.Data.(float64), true
	default:
		return 0, false
	}
}

// Floats widens any numeric value to a float64 slice.
func (v Value) Floats() ([]float64, bool) {
	switch v.Kind {
	case KindInt:
		return []float64{float64(v.Data.(int64))}, true
	case KindFloat:
		return []float64{v.Data.(float64)}, true
	case KindIntVec:
		ns := v.Data.([]int64)
		fs := make([]float64, len(ns))
		for i, n := range ns {
			fs[i] = float64(n)
		}
		return fs, true
	case KindFloatVec:
		return slices.Clone(v.Data.([]float64)), true
	default:
		return nil, false
	}
}
