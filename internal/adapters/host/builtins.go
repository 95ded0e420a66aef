package host

import (
	"math"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/lang"
)

// builtinFn is one native function. Builtins receive the evaluation session
// so they can write captured stdout, emit diagnostics, attach graphics, and
// mark their result invisible.
type builtinFn func(s *session, args []argument) (lang.Value, error)

func builtinTable() map[string]builtinFn {
	return map[string]builtinFn{
		"c":         builtinC,
		"seq":       builtinSeq,
		"rep":       builtinRep,
		"sum":       builtinSum,
		"mean":      builtinMean,
		"length":    builtinLength,
		"sqrt":      builtinSqrt,
		"abs":       builtinAbs,
		"paste":     builtinPaste,
		"print":     builtinPrint,
		"cat":       builtinCat,
		"message":   builtinMessage,
		"warning":   builtinWarning,
		"stop":      builtinStop,
		"plot":      builtinPlot,
		"dev_new":   builtinDevNew,
		"sys_sleep": builtinSysSleep,
	}
}

// bindArgs matches positional and named arguments against a parameter list.
func bindArgs(fn string, args []argument, params ...string) ([]*lang.Value, error) {
	bound := make([]*lang.Value, len(params))
	index := make(map[string]int, len(params))
	for i, p := range params {
		index[p] = i
	}

	next := 0
	for _, a := range args {
		if a.Name != "" {
			i, ok := index[a.Name]
			if !ok {
				return nil, evalErrorf("unused argument (%s) in call to %s", a.Name, fn)
			}
			if bound[i] != nil {
				return nil, evalErrorf("formal argument \"%s\" matched by multiple arguments", a.Name)
			}
			v := a.Value
			bound[i] = &v
			continue
		}
		for next < len(params) && bound[next] != nil {
			next++
		}
		if next >= len(params) {
			return nil, evalErrorf("too many arguments in call to %s", fn)
		}
		v := a.Value
		bound[next] = &v
	}
	return bound, nil
}

func requireArg(fn, name string, v *lang.Value) (lang.Value, error) {
	if v == nil {
		return lang.Value{}, evalErrorf("argument \"%s\" is missing in call to %s", name, fn)
	}
	return *v, nil
}

// elements flattens a value into coercible scalar elements.
func elements(v lang.Value) ([]lang.Value, error) {
	switch v.Kind {
	case lang.KindNull:
		return nil, nil
	case lang.KindIntVec:
		ns := v.Data.([]int64)
		out := make([]lang.Value, len(ns))
		for i, n := range ns {
			out[i] = lang.Int(n)
		}
		return out, nil
	case lang.KindFloatVec:
		fs := v.Data.([]float64)
		out := make([]lang.Value, len(fs))
		for i, f := range fs {
			out[i] = lang.Float(f)
		}
		return out, nil
	case lang.KindStrVec:
		ss := v.Data.([]string)
		out := make([]lang.Value, len(ss))
		for i, s := range ss {
			out[i] = lang.Str(s)
		}
		return out, nil
	case lang.KindHandle, lang.KindBuiltin:
		return nil, evalErrorf("cannot coerce type '%s' to a vector", v.TypeTag())
	default:
		return []lang.Value{v}, nil
	}
}

// asCharacter coerces a scalar element to its character form.
func asCharacter(v lang.Value) string {
	switch v.Kind {
	case lang.KindBool:
		if v.Data.(bool) {
			return "TRUE"
		}
		return "FALSE"
	case lang.KindInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case lang.KindFloat:
		return strconv.FormatFloat(v.Data.(float64), 'g', 15, 64)
	case lang.KindStr:
		return v.Data.(string)
	case lang.KindNull:
		return "NULL"
	default:
		return "<" + v.TypeTag() + ">"
	}
}

func builtinC(_ *session, args []argument) (lang.Value, error) {
	var elems []lang.Value
	for _, a := range args {
		es, err := elements(a.Value)
		if err != nil {
			return lang.Value{}, err
		}
		elems = append(elems, es...)
	}
	if len(elems) == 0 {
		return lang.Null(), nil
	}

	hasStr, hasFloat := false, false
	for _, e := range elems {
		switch e.Kind {
		case lang.KindStr:
			hasStr = true
		case lang.KindFloat:
			hasFloat = true
		}
	}

	switch {
	case hasStr:
		ss := make([]string, len(elems))
		for i, e := range elems {
			ss[i] = asCharacter(e)
		}
		if len(ss) == 1 {
			return lang.Str(ss[0]), nil
		}
		return lang.StrVec(ss), nil
	case hasFloat:
		fs := make([]float64, len(elems))
		for i, e := range elems {
			f, _ := e.AsFloat()
			if e.Kind == lang.KindBool {
				if e.Data.(bool) {
					f = 1
				}
			}
			fs[i] = f
		}
		return fromNumeric(fs, false), nil
	default:
		ns := make([]int64, len(elems))
		for i, e := range elems {
			switch e.Kind {
			case lang.KindBool:
				if e.Data.(bool) {
					ns[i] = 1
				}
			default:
				ns[i] = e.Data.(int64)
			}
		}
		if len(ns) == 1 {
			return lang.Int(ns[0]), nil
		}
		return lang.IntVec(ns), nil
	}
}

func builtinSeq(_ *session, args []argument) (lang.Value, error) {
	bound, err := bindArgs("seq", args, "from", "to", "by")
	if err != nil {
		return lang.Value{}, err
	}

	// seq(n) counts 1..n.
	if bound[0] != nil && bound[1] == nil && bound[2] == nil {
		return rangeVal(lang.Int(1), *bound[0])
	}

	from, err := requireArg("seq", "from", bound[0])
	if err != nil {
		return lang.Value{}, err
	}
	to, err := requireArg("seq", "to", bound[1])
	if err != nil {
		return lang.Value{}, err
	}
	if bound[2] == nil {
		return rangeVal(from, to)
	}

	f, ok := from.AsFloat()
	if !ok {
		return lang.Value{}, evalErrorf("'from' must be numeric")
	}
	t, ok := to.AsFloat()
	if !ok {
		return lang.Value{}, evalErrorf("'to' must be numeric")
	}
	by, ok := bound[2].AsFloat()
	if !ok || by == 0 {
		return lang.Value{}, evalErrorf("invalid '(to - from)/by' in seq")
	}
	if (t-f)/by < 0 {
		return lang.Value{}, evalErrorf("wrong sign in 'by' argument")
	}

	count := int(math.Floor((t-f)/by+1e-10)) + 1
	out := make([]float64, count)
	for i := range out {
		out[i] = f + float64(i)*by
	}
	isInt := bound[2].Kind != lang.KindFloat && from.Kind != lang.KindFloat && to.Kind != lang.KindFloat
	return fromNumeric(out, isInt), nil
}

func builtinRep(_ *session, args []argument) (lang.Value, error) {
	bound, err := bindArgs("rep", args, "x", "times")
	if err != nil {
		return lang.Value{}, err
	}
	x, err := requireArg("rep", "x", bound[0])
	if err != nil {
		return lang.Value{}, err
	}
	timesVal, err := requireArg("rep", "times", bound[1])
	if err != nil {
		return lang.Value{}, err
	}
	tf, ok := timesVal.AsFloat()
	if !ok || tf < 0 || tf != math.Trunc(tf) {
		return lang.Value{}, evalErrorf("invalid 'times' argument")
	}
	times := int(tf)

	repeated := make([]argument, 0, times)
	for range times {
		repeated = append(repeated, argument{Value: x})
	}
	return builtinC(nil, repeated)
}

func builtinSum(_ *session, args []argument) (lang.Value, error) {
	total := 0.0
	isInt := true
	for _, a := range args {
		fs, argInt, ok := toNumeric(a.Value)
		if !ok {
			if a.Value.Kind == lang.KindNull {
				continue
			}
			return lang.Value{}, evalErrorf("invalid 'type' (%s) of argument", a.Value.TypeTag())
		}
		if !argInt {
			isInt = false
		}
		for _, f := range fs {
			total += f
		}
	}
	return fromNumeric([]float64{total}, isInt), nil
}

func builtinMean(_ *session, args []argument) (lang.Value, error) {
	bound, err := bindArgs("mean", args, "x")
	if err != nil {
		return lang.Value{}, err
	}
	x, err := requireArg("mean", "x", bound[0])
	if err != nil {
		return lang.Value{}, err
	}
	fs, _, ok := toNumeric(x)
	if !ok || len(fs) == 0 {
		return lang.Value{}, evalErrorf("argument is not numeric")
	}
	total := 0.0
	for _, f := range fs {
		total += f
	}
	return lang.Float(total / float64(len(fs))), nil
}

func builtinLength(_ *session, args []argument) (lang.Value, error) {
	bound, err := bindArgs("length", args, "x")
	if err != nil {
		return lang.Value{}, err
	}
	x, err := requireArg("length", "x", bound[0])
	if err != nil {
		return lang.Value{}, err
	}
	return lang.Int(int64(x.Len())), nil
}

func builtinSqrt(_ *session, args []argument) (lang.Value, error) {
	return mapNumeric("sqrt", args, false, math.Sqrt)
}

func builtinAbs(_ *session, args []argument) (lang.Value, error) {
	return mapNumeric("abs", args, true, math.Abs)
}

func mapNumeric(fn string, args []argument, keepInt bool, f func(float64) float64) (lang.Value, error) {
	bound, err := bindArgs(fn, args, "x")
	if err != nil {
		return lang.Value{}, err
	}
	x, err := requireArg(fn, "x", bound[0])
	if err != nil {
		return lang.Value{}, err
	}
	fs, isInt, ok := toNumeric(x)
	if !ok {
		return lang.Value{}, evalErrorf("non-numeric argument to mathematical function")
	}
	out := make([]float64, len(fs))
	for i, v := range fs {
		out[i] = f(v)
	}
	return fromNumeric(out, keepInt && isInt), nil
}

func builtinPaste(_ *session, args []argument) (lang.Value, error) {
	sep := " "
	var parts []string
	for _, a := range args {
		if a.Name == "sep" {
			if a.Value.Kind != lang.KindStr {
				return lang.Value{}, evalErrorf("invalid separator")
			}
			sep = a.Value.Data.(string)
			continue
		}
		if a.Name != "" {
			return lang.Value{}, evalErrorf("unused argument (%s) in call to paste", a.Name)
		}
		es, err := elements(a.Value)
		if err != nil {
			return lang.Value{}, err
		}
		for _, e := range es {
			parts = append(parts, asCharacter(e))
		}
	}
	return lang.Str(strings.Join(parts, sep)), nil
}

func builtinPrint(s *session, args []argument) (lang.Value, error) {
	bound, err := bindArgs("print", args, "x")
	if err != nil {
		return lang.Value{}, err
	}
	x, err := requireArg("print", "x", bound[0])
	if err != nil {
		return lang.Value{}, err
	}
	s.stdout.WriteString(formatValue(x, s.host.opts.Digits, s.host.opts.Width))
	s.stdout.WriteByte('\n')
	s.invisible = true
	return x, nil
}

func builtinCat(s *session, args []argument) (lang.Value, error) {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		es, err := elements(a.Value)
		if err != nil {
			return lang.Value{}, err
		}
		for _, e := range es {
			parts = append(parts, asCharacter(e))
		}
	}
	s.stdout.WriteString(strings.Join(parts, " "))
	s.invisible = true
	return lang.Null(), nil
}

func builtinMessage(s *session, args []argument) (lang.Value, error) {
	s.emit(domain.SeverityMessage, joinArgs(args))
	s.invisible = true
	return lang.Null(), nil
}

func builtinWarning(s *session, args []argument) (lang.Value, error) {
	s.emit(domain.SeverityWarning, joinArgs(args))
	s.invisible = true
	return lang.Null(), nil
}

func builtinStop(_ *session, args []argument) (lang.Value, error) {
	text := joinArgs(args)
	if text == "" {
		text = "stop called"
	}
	return lang.Value{}, evalErrorf("%s", text)
}

func joinArgs(args []argument) string {
	var b strings.Builder
	for _, a := range args {
		es, _ := elements(a.Value)
		for _, e := range es {
			b.WriteString(asCharacter(e))
		}
	}
	return b.String()
}

func builtinPlot(s *session, args []argument) (lang.Value, error) {
	bound, err := bindArgs("plot", args, "x", "y")
	if err != nil {
		return lang.Value{}, err
	}
	x, err := requireArg("plot", "x", bound[0])
	if err != nil {
		return lang.Value{}, err
	}

	xs, ok := x.Floats()
	if !ok || len(xs) == 0 {
		return lang.Value{}, evalErrorf("'x' must be numeric")
	}

	ys := xs
	if bound[1] != nil {
		ys, ok = bound[1].Floats()
		if !ok {
			return lang.Value{}, evalErrorf("'y' must be numeric")
		}
		if len(ys) != len(xs) {
			return lang.Value{}, evalErrorf("'x' and 'y' lengths differ")
		}
	} else {
		// plot(y) draws against the index.
		xs = make([]float64, len(ys))
		for i := range xs {
			xs[i] = float64(i + 1)
		}
	}

	s.graphics = &domain.GraphicsArtifact{
		Format: "svg",
		Data:   plotSVG(xs, ys),
	}
	s.invisible = true
	return lang.Null(), nil
}

func builtinDevNew(s *session, _ []argument) (lang.Value, error) {
	s.invisible = true
	id := s.host.nextDevice.Add(1)
	return lang.HandleVal(&lang.Handle{Kind: "device", Data: id}), nil
}

func builtinSysSleep(s *session, args []argument) (lang.Value, error) {
	bound, err := bindArgs("sys_sleep", args, "seconds")
	if err != nil {
		return lang.Value{}, err
	}
	secs, err := requireArg("sys_sleep", "seconds", bound[0])
	if err != nil {
		return lang.Value{}, err
	}
	f, ok := secs.AsFloat()
	if !ok || f < 0 {
		return lang.Value{}, evalErrorf("invalid 'seconds' argument")
	}
	time.Sleep(time.Duration(f * float64(time.Second)))
	s.invisible = true
	return lang.Null(), nil
}

// builtinRm deletes bindings by name. Missing names warn but do not fail.
func (s *session) builtinRm(args []lang.Arg) (lang.Value, error) {
	for _, a := range args {
		ident, ok := a.X.(*lang.Ident)
		if !ok {
			return lang.Value{}, evalErrorf("invalid argument to rm: must be a name")
		}
		if err := s.env.Delete(ident.Name); err != nil {
			s.emit(domain.SeverityWarning, "object '"+ident.Name+"' not found")
		}
	}
	s.invisible = true
	return lang.Null(), nil
}

func (s *session) emit(sev domain.Severity, text string) {
	s.messages = append(s.messages, domain.Message{Severity: sev, Text: text})
}
