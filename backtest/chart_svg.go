package backtest

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"basso/signal"
)

type SVGChartOptions struct {
	Width  int
	Height int
}

func (o SVGChartOptions) withDefaults() SVGChartOptions {
	if o.Width <= 0 {
		o.Width = 980
	}
	if o.Height <= 0 {
		o.Height = 520
	}
	return o
}

// RenderEquitySVG draws the strategy equity curve with a buy-and-hold
// overlay scaled to the same starting capital. recs must be the record set
// the result was produced from.
func RenderEquitySVG(res Result, recs []signal.Record, opt SVGChartOptions) ([]byte, error) {
	opt = opt.withDefaults()
	if len(res.EquityCurve) < 2 {
		return nil, fmt.Errorf("not enough equity points: %d", len(res.EquityCurve))
	}
	if len(recs) != len(res.EquityCurve) {
		return nil, fmt.Errorf("records length %d != equity points %d", len(recs), len(res.EquityCurve))
	}

	// Buy & hold equity at each bar, same starting capital.
	base := recs[0].Close
	hold := make([]float64, len(recs))
	for i, r := range recs {
		hold[i] = res.InitialCapital * r.Close / base
	}

	minE := math.Inf(1)
	maxE := math.Inf(-1)
	for i, p := range res.EquityCurve {
		minE = math.Min(minE, math.Min(p.Equity, hold[i]))
		maxE = math.Max(maxE, math.Max(p.Equity, hold[i]))
	}
	if math.IsInf(minE, 0) || math.IsInf(maxE, 0) || maxE <= minE {
		return nil, fmt.Errorf("invalid equity range")
	}
	pad := (maxE - minE) * 0.05
	if pad <= 0 {
		pad = minE * 0.02
	}
	minE -= pad
	maxE += pad

	// Layout
	w := float64(opt.Width)
	h := float64(opt.Height)
	mLeft := 80.0
	mRight := 20.0
	mTop := 24.0
	mBottom := 40.0
	plotW := w - mLeft - mRight
	plotH := h - mTop - mBottom
	if plotW <= 10 || plotH <= 10 {
		return nil, fmt.Errorf("invalid chart size")
	}

	eqToY := func(e float64) float64 {
		r := (e - minE) / (maxE - minE)
		r = math.Max(0, math.Min(1, r))
		return mTop + (1.0-r)*plotH
	}
	xAt := func(i int) float64 {
		return mLeft + (float64(i)+0.5)*plotW/float64(len(recs))
	}

	bg := "#0b1220"
	grid := "rgba(255,255,255,0.08)"
	strat := "#22c55e"
	bench := "rgba(255,255,255,0.45)"
	txt := "rgba(255,255,255,0.85)"

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	buf.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="` + strconv.Itoa(opt.Width) + `" height="` + strconv.Itoa(opt.Height) + `" viewBox="0 0 ` + strconv.Itoa(opt.Width) + ` ` + strconv.Itoa(opt.Height) + `">` + "\n")
	buf.WriteString(`<rect x="0" y="0" width="100%" height="100%" fill="` + bg + `"/>` + "\n")

	// Header
	firstD := res.Start.Format("2006-01-02")
	lastD := res.End.Format("2006-01-02")
	title := strings.TrimSpace(strings.ToUpper(res.Strategy) + " EQUITY")
	buf.WriteString(`<text x="` + fmtFloat(mLeft) + `" y="16" fill="` + txt + `" font-size="14" font-family="ui-monospace, Menlo, Monaco, Consolas, monospace">` +
		html.EscapeString(title+"  "+firstD+" ~ "+lastD) + `</text>` + "\n")

	// Grid: equity lines (5)
	for k := 0; k <= 5; k++ {
		y := mTop + (float64(k)/5.0)*plotH
		buf.WriteString(`<line x1="` + fmtFloat(mLeft) + `" y1="` + fmtFloat(y) + `" x2="` + fmtFloat(mLeft+plotW) + `" y2="` + fmtFloat(y) + `" stroke="` + grid + `" stroke-width="1"/>` + "\n")
		e := maxE - (float64(k)/5.0)*(maxE-minE)
		buf.WriteString(`<text x="` + fmtFloat(6) + `" y="` + fmtFloat(y+4) + `" fill="` + txt + `" font-size="12" font-family="ui-monospace, Menlo, Monaco, Consolas, monospace">` +
			html.EscapeString("$"+fmtPrice(e)) + `</text>` + "\n")
	}

	// Buy & hold overlay (dashed), then strategy curve on top.
	buf.WriteString(polyline(hold, xAt, eqToY, bench, true))
	eq := make([]float64, len(res.EquityCurve))
	for i, p := range res.EquityCurve {
		eq[i] = p.Equity
	}
	buf.WriteString(polyline(eq, xAt, eqToY, strat, false))

	// Legend
	buf.WriteString(`<text x="` + fmtFloat(mLeft) + `" y="` + fmtFloat(h-12) + `" fill="` + strat + `" font-size="12" font-family="ui-monospace, Menlo, Monaco, Consolas, monospace">strategy</text>` + "\n")
	buf.WriteString(`<text x="` + fmtFloat(mLeft+90) + `" y="` + fmtFloat(h-12) + `" fill="` + bench + `" font-size="12" font-family="ui-monospace, Menlo, Monaco, Consolas, monospace">buy &amp; hold</text>` + "\n")

	buf.WriteString(`</svg>` + "\n")
	return buf.Bytes(), nil
}

func polyline(vals []float64, xAt func(int) float64, toY func(float64) float64, color string, dash bool) string {
	var pts strings.Builder
	for i, v := range vals {
		if i > 0 {
			pts.WriteByte(' ')
		}
		pts.WriteString(fmtFloat(xAt(i)) + "," + fmtFloat(toY(v)))
	}
	s := `<polyline fill="none" stroke="` + color + `" stroke-width="1.6" points="` + pts.String() + `"`
	if dash {
		s += ` stroke-dasharray="5,4"`
	}
	return s + `/>` + "\n"
}

func fmtFloat(x float64) string {
	// stable compact formatting for SVG attributes
	return strconv.FormatFloat(x, 'f', 2, 64)
}

func fmtPrice(p float64) string {
	// keep axis labels readable
	if p >= 1000 {
		return strconv.FormatFloat(p, 'f', 0, 64)
	}
	if p >= 100 {
		return strconv.FormatFloat(p, 'f', 1, 64)
	}
	return strconv.FormatFloat(p, 'f', 2, 64)
}
