package lang

import (
	"encoding/json"

	"go.trai.ch/zerr"
)

// ErrNotSerializable is returned when a value has no stable serialized form
// (handles to host state, builtin functions).
var ErrNotSerializable = zerr.New("value is not serializable")

// valueJSON is the wire form of a Value. Exactly one payload field is set,
// chosen by Kind, so integers survive the float64 round-trip json would
// otherwise force on them.
type valueJSON struct {
	Kind   string    `json:"kind"`
	Bool   *bool     `json:"bool,omitempty"`
	Int    *int64    `json:"int,omitempty"`
	Float  *float64  `json:"float,omitempty"`
	Str    *string   `json:"str,omitempty"`
	Ints   []int64   `json:"ints,omitempty"`
	Floats []float64 `json:"floats,omitempty"`
	Strs   []string  `json:"strs,omitempty"`
}

var kindNames = map[ValueKind]string{
	KindNull:     "null",
	KindBool:     "logical",
	KindInt:      "int",
	KindFloat:    "float",
	KindStr:      "str",
	KindIntVec:   "ints",
	KindFloatVec: "floats",
	KindStrVec:   "strs",
}

var kindByName = func() map[string]ValueKind {
	m := make(map[string]ValueKind, len(kindNames))
	for k, n := range kindNames {
		m[n] = k
	}
	return m
}()

// MarshalJSON implements json.Marshaler. Handles and builtins fail with
// ErrNotSerializable; callers decide whether that degrades or aborts.
func (v Value) MarshalJSON() ([]byte, error) {
	name, ok := kindNames[v.Kind]
	if !ok {
		return nil, zerr.With(zerr.Wrap(ErrNotSerializable, "marshal failed"), "type", v.TypeTag())
	}
	w := valueJSON{Kind: name}
	switch v.Kind {
	case KindNull:
	case KindBool:
		b := v.Data.(bool)
		w.Bool = &b
	case KindInt:
		n := v.Data.(int64)
		w.Int = &n
	case KindFloat:
		f := v.Data.(float64)
		w.Float = &f
	case KindStr:
		s := v.Data.(string)
		w.Str = &s
	case KindIntVec:
		w.Ints = v.Data.([]int64)
	case KindFloatVec:
		w.Floats = v.Data.([]float64)
	case KindStrVec:
		w.Strs = v.Data.([]string)
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var w valueJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return zerr.Wrap(err, "failed to decode value")
	}
	kind, ok := kindByName[w.Kind]
	if !ok {
		return zerr.With(zerr.New("unknown value kind"), "kind", w.Kind)
	}
	switch kind {
	case KindNull:
		*v = Null()
	case KindBool:
		*v = Bool(w.Bool != nil && *w.Bool)
	case KindInt:
		if w.Int == nil {
			return zerr.New("int value missing payload")
		}
		*v = Int(*w.Int)
	case KindFloat:
		if w.Float == nil {
			return zerr.New("float value missing payload")
		}
		*v = Float(*w.Float)
	case KindStr:
		if w.Str == nil {
			return zerr.New("str value missing payload")
		}
		*v = Str(*w.Str)
	case KindIntVec:
		*v = IntVec(w.Ints)
	case KindFloatVec:
		*v = FloatVec(w.Floats)
	case KindStrVec:
		*v = StrVec(w.Strs)
	}
	return nil
}
