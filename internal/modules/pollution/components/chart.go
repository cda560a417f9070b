package components

import (
	"fmt"
	"strconv"
	"strings"

	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"

	"github.com/Pranav2188/water-pollution-quirklab/internal/chart"
	"github.com/Pranav2188/water-pollution-quirklab/internal/content"
)

// ChartID is the element id of the chart panel. Pushed frames replace it out of band.
const ChartID = "chart"

// Plot geometry in SVG user units.
const (
	chartWidth   = 760.0
	chartHeight  = 380.0
	marginLeft   = 64.0
	marginRight  = 64.0
	marginTop    = 20.0
	marginBottom = 44.0
	yTicks       = 5
	maxXLabels   = 9
)

// ChartProps is everything the chart panel needs to render one state.
type ChartProps struct {
	Series chart.Series
	Copy   content.ChartCopy
	State  chart.State
	// OOB marks the panel for an htmx out-of-band swap, for websocket frames.
	OOB bool
}

// Chart renders the dual-axis line chart with its zoom controls.
func Chart(p ChartProps) g.Node {
	st := p.State
	return h.Section(
		h.ID(ChartID),
		h.Class("chart-panel"),
		g.If(p.OOB, hx.SwapOOB("true")),
		g.Attr("data-generation", strconv.FormatUint(st.Generation, 10)),
		g.Attr("data-seq", strconv.FormatUint(st.Seq, 10)),
		h.H2(h.Class("chart-title"), g.Text(p.Copy.Title)),
		g.If(p.Copy.Intro != "", h.P(h.Class("chart-intro"), g.Text(p.Copy.Intro))),
		zoomControls(st),
		plot(p.Series, st),
		legend(p.Series.Fields()),
		h.P(h.Class("chart-progress"), g.Text(progressText(p.Series, st))),
	)
}

func zoomControls(st chart.State) g.Node {
	button := func(label, path string, enabled bool) g.Node {
		return h.Button(
			h.Type("button"),
			h.Class("zoom-button"),
			hx.Post(path),
			hx.Target("#"+ChartID),
			hx.Swap("outerHTML"),
			g.If(!enabled, h.Disabled()),
			g.Text(label),
		)
	}
	return h.Div(
		h.Class("chart-controls"),
		button("Zoom out", "/chart/zoom-out", st.CanZoomOut()),
		button("Reset", "/chart/reset", true),
		button("Zoom in", "/chart/zoom-in", st.CanZoomIn()),
		h.Span(h.Class("zoom-level"), g.Text("Zoom: "+FormatZoom(st.Zoom))),
	)
}

// FormatZoom renders a zoom level as "1x", "1.5x" and so on.
func FormatZoom(z float64) string {
	return strconv.FormatFloat(z, 'f', -1, 64) + "x"
}

func progressText(s chart.Series, st chart.State) string {
	if s.Len() == 0 {
		return "No data"
	}
	first, last := s.At(st.Domain.Start).Year, s.At(st.Domain.End).Year
	vis, ok := st.Visible()
	shown := 0
	if ok {
		shown = vis.Width()
	}
	return fmt.Sprintf("Showing %d-%d: %d of %d years revealed", first, last, shown, st.Domain.Width())
}

func legend(fields []chart.Field) g.Node {
	return h.Ul(
		h.Class("chart-legend"),
		g.Map(fields, func(f chart.Field) g.Node {
			side := "left axis"
			if f.Axis == chart.AxisRight {
				side = "right axis"
			}
			return h.Li(
				h.Span(h.Class("swatch"), g.Attr("style", "background:"+f.Color)),
				g.Text(f.Label+" ("+side+")"),
			)
		}),
	)
}

// linear maps the domain [d0, d1] onto the range [r0, r1].
type linear struct {
	d0, d1, r0, r1 float64
}

func (l linear) at(v float64) float64 {
	if l.d1 == l.d0 {
		return (l.r0 + l.r1) / 2
	}
	return l.r0 + (v-l.d0)/(l.d1-l.d0)*(l.r1-l.r0)
}

// axisScale spans every field on axis over the whole series, so the axes stay
// still while the reveal runs.
func axisScale(s chart.Series, axis chart.Axis) (linear, bool) {
	var lo, hi float64
	found := false
	for i, f := range s.Fields() {
		if f.Axis != axis {
			continue
		}
		l, u := s.Extent(i)
		if !found {
			lo, hi, found = l, u, true
			continue
		}
		lo, hi = min(lo, l), max(hi, u)
	}
	if !found {
		return linear{}, false
	}

	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return linear{d0: lo - pad, d1: hi + pad, r0: chartHeight - marginBottom, r1: marginTop}, true
}

func plot(s chart.Series, st chart.State) g.Node {
	children := []g.Node{
		g.Attr("viewBox", fmt.Sprintf("0 0 %g %g", chartWidth, chartHeight)),
		g.Attr("role", "img"),
		g.Attr("class", "chart-svg"),
	}
	if s.Len() == 0 {
		return g.El("svg", append(children, svgText(chartWidth/2, chartHeight/2, "middle", "No data"))...)
	}

	x := linear{
		d0: float64(st.Domain.Start), d1: float64(st.Domain.End),
		r0: marginLeft, r1: chartWidth - marginRight,
	}
	left, hasLeft := axisScale(s, chart.AxisLeft)
	right, hasRight := axisScale(s, chart.AxisRight)

	children = append(children, xAxis(s, st.Domain, x))
	if hasLeft {
		children = append(children, yAxis(left, marginLeft, "end", -8))
	}
	if hasRight {
		children = append(children, yAxis(right, chartWidth-marginRight, "start", 8))
	}

	if vis, ok := st.Visible(); ok {
		records := s.Slice(vis.Start, vis.End)
		for fi, f := range s.Fields() {
			y := left
			if f.Axis == chart.AxisRight {
				y = right
			}
			children = append(children, seriesLine(f, fi, records, vis.Start, x, y))
		}
	}

	return g.El("svg", children...)
}

func xAxis(s chart.Series, d chart.Domain, x linear) g.Node {
	base := chartHeight - marginBottom
	step := (d.Width() + maxXLabels - 1) / maxXLabels

	nodes := []g.Node{
		g.Attr("class", "axis axis-x"),
		svgLine(marginLeft, base, chartWidth-marginRight, base),
	}
	for i := d.Start; i <= d.End; i += step {
		px := x.at(float64(i))
		nodes = append(nodes,
			svgLine(px, base, px, base+5),
			svgText(px, base+20, "middle", strconv.Itoa(s.At(i).Year)),
		)
	}
	return g.El("g", nodes...)
}

func yAxis(y linear, at float64, anchor string, dx float64) g.Node {
	nodes := []g.Node{
		g.Attr("class", "axis axis-y"),
		svgLine(at, marginTop, at, chartHeight-marginBottom),
	}
	for k := 0; k <= yTicks; k++ {
		v := y.d0 + (y.d1-y.d0)*float64(k)/yTicks
		py := y.at(v)
		nodes = append(nodes,
			g.El("line", g.Attr("class", "grid"), coord("x1", marginLeft), coord("y1", py), coord("x2", chartWidth-marginRight), coord("y2", py)),
			svgText(at+dx, py+4, anchor, formatTick(v, y.d1-y.d0)),
		)
	}
	return g.El("g", nodes...)
}

func seriesLine(f chart.Field, fi int, records []chart.Record, offset int, x, y linear) g.Node {
	points := make([]string, 0, len(records))
	dots := make([]g.Node, 0, len(records))
	for i, rec := range records {
		v := rec.Values[fi]
		px, py := x.at(float64(offset+i)), y.at(v)
		points = append(points, fmtCoord(px)+","+fmtCoord(py))
		dots = append(dots, g.El("circle",
			coord("cx", px), coord("cy", py), g.Attr("r", "3.5"), g.Attr("fill", f.Color),
			g.El("title", g.Text(Tooltip(rec.Year, f, v))),
		))
	}

	return g.El("g",
		g.Attr("class", "series series-"+f.Key),
		g.El("polyline",
			g.Attr("points", strings.Join(points, " ")),
			g.Attr("fill", "none"),
			g.Attr("stroke", f.Color),
			g.Attr("stroke-width", "2.5"),
		),
		g.Group(dots),
	)
}

// Tooltip is the hover text of one data point.
func Tooltip(year int, f chart.Field, v float64) string {
	return fmt.Sprintf("%d - %s: %s %s", year, f.Label, strconv.FormatFloat(v, 'f', -1, 64), f.Unit)
}

func formatTick(v, span float64) string {
	if span >= 20 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func svgLine(x1, y1, x2, y2 float64) g.Node {
	return g.El("line", coord("x1", x1), coord("y1", y1), coord("x2", x2), coord("y2", y2))
}

func svgText(x, y float64, anchor, text string) g.Node {
	return g.El("text", coord("x", x), coord("y", y), g.Attr("text-anchor", anchor), g.Text(text))
}

func coord(name string, v float64) g.Node {
	return g.Attr(name, fmtCoord(v))
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
