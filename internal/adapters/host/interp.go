package host

import (
	"bytes"
	"fmt"
	"math"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/lang"
	"go.trai.ch/zerr"
)

// session holds the side-effect capture state for one expression evaluation.
type session struct {
	host *Host
	env  *lang.Env

	stdout    bytes.Buffer
	messages  []domain.Message
	graphics  *domain.GraphicsArtifact
	invisible bool
}

func evalErrorf(format string, a ...any) error {
	return zerr.New(fmt.Sprintf(format, a...))
}

// evalTop evaluates a top-level statement node and reports whether its value
// should be auto-printed.
func (s *session) evalTop(node lang.Node) (lang.Value, bool, error) {
	if a, ok := node.(*lang.Assign); ok {
		v, err := s.eval(a.X)
		if err != nil {
			return lang.Value{}, false, err
		}
		s.env.Define(a.Target, v)
		return v, false, nil
	}

	s.invisible = false
	v, err := s.eval(node)
	if err != nil {
		return lang.Value{}, false, err
	}
	return v, !s.invisible, nil
}

func (s *session) eval(node lang.Node) (lang.Value, error) {
	switch n := node.(type) {
	case *lang.NullLit:
		return lang.Null(), nil
	case *lang.BoolLit:
		return lang.Bool(n.Value), nil
	case *lang.IntLit:
		return lang.Int(n.Value), nil
	case *lang.FloatLit:
		return lang.Float(n.Value), nil
	case *lang.StrLit:
		return lang.Str(n.Value), nil
	case *lang.Ident:
		v, err := s.env.Get(n.Name)
		if err != nil {
			return lang.Value{}, evalErrorf("object '%s' not found", n.Name)
		}
		return v, nil
	case *lang.Unary:
		return s.evalUnary(n)
	case *lang.Binary:
		return s.evalBinary(n)
	case *lang.Call:
		return s.evalCall(n)
	case *lang.Assign:
		return lang.Value{}, evalErrorf("assignment is only allowed at statement level")
	default:
		return lang.Value{}, evalErrorf("unsupported expression")
	}
}

func (s *session) evalUnary(n *lang.Unary) (lang.Value, error) {
	x, err := s.eval(n.X)
	if err != nil {
		return lang.Value{}, err
	}
	switch n.Op {
	case "-":
		fs, isInt, ok := toNumeric(x)
		if !ok {
			return lang.Value{}, evalErrorf("invalid argument to unary operator")
		}
		out := make([]float64, len(fs))
		for i, f := range fs {
			out[i] = -f
		}
		return fromNumeric(out, isInt), nil
	case "!":
		b, ok := toLogical(x)
		if !ok {
			return lang.Value{}, evalErrorf("invalid argument type to '!'")
		}
		return lang.Bool(!b), nil
	default:
		return lang.Value{}, evalErrorf("unsupported operator '%s'", n.Op)
	}
}

func (s *session) evalBinary(n *lang.Binary) (lang.Value, error) {
	if n.Op == "&&" || n.Op == "||" {
		return s.evalShortCircuit(n)
	}

	l, err := s.eval(n.L)
	if err != nil {
		return lang.Value{}, err
	}
	r, err := s.eval(n.R)
	if err != nil {
		return lang.Value{}, err
	}

	switch n.Op {
	case "+", "-", "*", "/", "^", "%%":
		return arith(n.Op, l, r)
	case ":":
		return rangeVal(l, r)
	case "==", "!=", "<", "<=", ">", ">=":
		return compare(n.Op, l, r)
	default:
		return lang.Value{}, evalErrorf("unsupported operator '%s'", n.Op)
	}
}

func (s *session) evalShortCircuit(n *lang.Binary) (lang.Value, error) {
	l, err := s.eval(n.L)
	if err != nil {
		return lang.Value{}, err
	}
	lb, ok := toLogical(l)
	if !ok {
		return lang.Value{}, evalErrorf("invalid '%s' type in logical expression", n.Op)
	}
	if n.Op == "&&" && !lb {
		return lang.Bool(false), nil
	}
	if n.Op == "||" && lb {
		return lang.Bool(true), nil
	}
	r, err := s.eval(n.R)
	if err != nil {
		return lang.Value{}, err
	}
	rb, ok := toLogical(r)
	if !ok {
		return lang.Value{}, evalErrorf("invalid '%s' type in logical expression", n.Op)
	}
	return lang.Bool(rb), nil
}

// argument is one evaluated call argument with its optional name.
type argument struct {
	Name  string
	Value lang.Value
}

func (s *session) evalCall(n *lang.Call) (lang.Value, error) {
	// rm operates on names, not values; its arguments stay unevaluated.
	if n.Callee == "rm" {
		return s.builtinRm(n.Args)
	}

	fn, ok := s.host.builtins[n.Callee]
	if !ok {
		return lang.Value{}, evalErrorf("could not find function \"%s\"", n.Callee)
	}

	args := make([]argument, 0, len(n.Args))
	for _, a := range n.Args {
		v, err := s.eval(a.X)
		if err != nil {
			return lang.Value{}, err
		}
		args = append(args, argument{Name: a.Name, Value: v})
	}
	return fn(s, args)
}

// toNumeric widens a value to a float64 slice. Logicals coerce to 0/1 and
// count as integer-ish, matching the promotion ladder logical < integer <
// double.
func toNumeric(v lang.Value) (fs []float64, isInt bool, ok bool) {
	switch v.Kind {
	case lang.KindBool:
		if v.Data.(bool) {
			return []float64{1}, true, true
		}
		return []float64{0}, true, true
	case lang.KindInt, lang.KindIntVec:
		fs, _ := v.Floats()
		return fs, true, true
	case lang.KindFloat, lang.KindFloatVec:
		fs, _ := v.Floats()
		return fs, false, true
	default:
		return nil, false, false
	}
}

// fromNumeric narrows a float64 slice back to a Value, producing integer
// values when the inputs were integer-ish. Length-1 results are scalars.
func fromNumeric(fs []float64, isInt bool) lang.Value {
	if isInt {
		ns := make([]int64, len(fs))
		for i, f := range fs {
			ns[i] = int64(f)
		}
		if len(ns) == 1 {
			return lang.Int(ns[0])
		}
		return lang.IntVec(ns)
	}
	if len(fs) == 1 {
		return lang.Float(fs[0])
	}
	return lang.FloatVec(fs)
}

func toLogical(v lang.Value) (bool, bool) {
	switch v.Kind {
	case lang.KindBool:
		return v.Data.(bool), true
	case lang.KindInt:
		return v.Data.(int64) != 0, true
	case lang.KindFloat:
		return v.Data.(float64) != 0, true
	default:
		return false, false
	}
}

func arith(op string, l, r lang.Value) (lang.Value, error) {
	lf, lInt, ok := toNumeric(l)
	if !ok {
		return lang.Value{}, evalErrorf("non-numeric argument to binary operator")
	}
	rf, rInt, ok := toNumeric(r)
	if !ok {
		return lang.Value{}, evalErrorf("non-numeric argument to binary operator")
	}
	if len(lf) == 0 || len(rf) == 0 {
		return lang.Value{}, evalErrorf("zero-length argument to binary operator")
	}
	if len(lf) != len(rf) && len(lf) != 1 && len(rf) != 1 {
		return lang.Value{}, evalErrorf("operand lengths %d and %d do not recycle", len(lf), len(rf))
	}

	n := max(len(lf), len(rf))
	out := make([]float64, n)
	for i := range out {
		a := lf[i%len(lf)]
		b := rf[i%len(rf)]
		switch op {
		case "+":
			out[i] = a + b
		case "-":
			out[i] = a - b
		case "*":
			out[i] = a * b
		case "/":
			out[i] = a / b
		case "^":
			out[i] = math.Pow(a, b)
		case "%%":
			// R-style modulo: the result takes the sign of the divisor.
			out[i] = a - math.Floor(a/b)*b
		}
	}

	isInt := lInt && rInt && op != "/" && op != "^"
	if isInt {
		for _, f := range out {
			if math.IsNaN(f) || f != math.Trunc(f) {
				isInt = false
				break
			}
		}
	}
	return fromNumeric(out, isInt), nil
}

func rangeVal(l, r lang.Value) (lang.Value, error) {
	from, ok := l.AsFloat()
	if !ok || l.Len() != 1 {
		return lang.Value{}, evalErrorf("argument of length %d to ':'", l.Len())
	}
	to, ok := r.AsFloat()
	if !ok || r.Len() != 1 {
		return lang.Value{}, evalErrorf("argument of length %d to ':'", r.Len())
	}

	step := 1.0
	if to < from {
		step = -1.0
	}
	count := int(math.Floor(math.Abs(to-from))) + 1
	out := make([]float64, count)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	isInt := from == math.Trunc(from) && to == math.Trunc(to)
	return fromNumeric(out, isInt), nil
}

func compare(op string, l, r lang.Value) (lang.Value, error) {
	if l.Len() != 1 || r.Len() != 1 {
		return lang.Value{}, evalErrorf("comparison of vectors is not supported")
	}

	if l.Kind == lang.KindStr && r.Kind == lang.KindStr {
		return lang.Bool(compareOrdered(op, cmpStrings(l.Data.(string), r.Data.(string)))), nil
	}

	lf, _, lok := toNumeric(l)
	rf, _, rok := toNumeric(r)
	if !lok || !rok {
		return lang.Value{}, evalErrorf("comparison of incomparable types")
	}
	a, b := lf[0], rf[0]
	var c int
	switch {
	case a < b:
		c = -1
	case a > b:
		c = 1
	}
	return lang.Bool(compareOrdered(op, c)), nil
}

func cmpStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareOrdered(op string, c int) bool {
	switch op {
	case "==":
		return c == 0
	case "!=":
		return c != 0
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	default:
		return c >= 0
	}
}
