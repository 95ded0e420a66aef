package host

import (
	"fmt"
	"strings"
)

const (
	plotWidth  = 480.0
	plotHeight = 320.0
	plotMargin = 20.0
)

// plotSVG renders the points as an SVG polyline. The output is deterministic
// for equal inputs, so replayed artifacts are byte-identical to live ones.
func plotSVG(xs, ys []float64) []byte {
	minX, maxX := bounds(xs)
	minY, maxY := bounds(ys)

	var b strings.Builder
	fmt.Fprintf(&b,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`,
		plotWidth, plotHeight, plotWidth, plotHeight)
	b.WriteString(`<rect width="100%" height="100%" fill="white"/>`)

	b.WriteString(`<polyline fill="none" stroke="black" stroke-width="1" points="`)
	for i := range xs {
		if i > 0 {
			b.WriteByte(' ')
		}
		px := scale(xs[i], minX, maxX, plotMargin, plotWidth-plotMargin)
		py := scale(ys[i], minY, maxY, plotHeight-plotMargin, plotMargin)
		fmt.Fprintf(&b, "%.2f,%.2f", px, py)
	}
	b.WriteString(`"/>`)
	b.WriteString(`</svg>`)
	return []byte(b.String())
}

func bounds(fs []float64) (lo, hi float64) {
	lo, hi = fs[0], fs[0]
	for _, f := range fs[1:] {
		if f < lo {
			lo = f
		}
		if f > hi {
			hi = f
		}
	}
	return lo, hi
}

func scale(v, lo, hi, outLo, outHi float64) float64 {
	if hi == lo {
		return (outLo + outHi) / 2
	}
	return outLo + (v-lo)/(hi-lo)*(outHi-outLo)
}
