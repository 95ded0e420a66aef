package host

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.trai.ch/memo/internal/lang"
)

// formatValue renders a value the way an interactive session would print it:
// elements laid out in width-limited rows, each row prefixed with the
// bracketed 1-based index of its first element.
func formatValue(v lang.Value, digits, width int) string {
	switch v.Kind {
	case lang.KindNull:
		return "NULL"
	case lang.KindHandle:
		return "<externalptr>"
	case lang.KindBuiltin:
		return "function " + v.Data.(*lang.Builtin).Name
	}

	elems := formatElems(v, digits)
	if len(elems) == 0 {
		return v.TypeTag() + "(0)"
	}
	return layoutRows(elems, width)
}

func formatElems(v lang.Value, digits int) []string {
	switch v.Kind {
	case lang.KindBool:
		if v.Data.(bool) {
			return []string{"TRUE"}
		}
		return []string{"FALSE"}
	case lang.KindInt:
		return []string{strconv.FormatInt(v.Data.(int64), 10)}
	case lang.KindFloat:
		return []string{formatFloat(v.Data.(float64), digits)}
	case lang.KindStr:
		return []string{strconv.Quote(v.Data.(string))}
	case lang.KindIntVec:
		ns := v.Data.([]int64)
		out := make([]string, len(ns))
		for i, n := range ns {
			out[i] = strconv.FormatInt(n, 10)
		}
		return out
	case lang.KindFloatVec:
		fs := v.Data.([]float64)
		out := make([]string, len(fs))
		for i, f := range fs {
			out[i] = formatFloat(f, digits)
		}
		return out
	case lang.KindStrVec:
		ss := v.Data.([]string)
		out := make([]string, len(ss))
		for i, s := range ss {
			out[i] = strconv.Quote(s)
		}
		return out
	default:
		return nil
	}
}

func formatFloat(f float64, digits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	if digits <= 0 {
		digits = 7
	}
	return strconv.FormatFloat(f, 'g', digits, 64)
}

// layoutRows packs elements into rows no wider than width, prefixing each row
// with the right-aligned index of its first element.
func layoutRows(elems []string, width int) string {
	if width <= 0 {
		width = 80
	}

	elemWidth := 0
	for _, e := range elems {
		if len(e) > elemWidth {
			elemWidth = len(e)
		}
	}
	idxWidth := len(fmt.Sprintf("[%d]", len(elems)))

	perRow := (width - idxWidth) / (elemWidth + 1)
	if perRow < 1 {
		perRow = 1
	}

	var b strings.Builder
	for start := 0; start < len(elems); start += perRow {
		if start > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%*s", idxWidth, fmt.Sprintf("[%d]", start+1))
		end := min(start+perRow, len(elems))
		for _, e := range elems[start:end] {
			fmt.Fprintf(&b, " %*s", elemWidth, e)
		}
	}
	return b.String()
}
