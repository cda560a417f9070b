package components

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"

	"github.com/Pranav2188/water-pollution-quirklab/internal/chart"
	"github.com/Pranav2188/water-pollution-quirklab/internal/content"
	"github.com/Pranav2188/water-pollution-quirklab/internal/slideshow"
)

func render(t *testing.T, n g.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, n.Render(&buf))
	return buf.String()
}

func fullState(revealed int) chart.State {
	return chart.State{
		Generation: 1,
		Seq:        uint64(revealed + 1),
		Revealed:   revealed,
		Total:      25,
		Domain:     chart.Domain{Start: 0, End: 24},
		Zoom:       chart.MinZoom,
		Active:     true,
		Complete:   revealed == 25,
	}
}

func TestChart_PartialReveal(t *testing.T) {
	series := content.PollutionSeries()
	out := render(t, Chart(ChartProps{Series: series, Copy: content.MustLoad().Chart, State: fullState(3)}))

	assert.Contains(t, out, `id="chart"`)
	assert.NotContains(t, out, "hx-swap-oob")
	assert.Equal(t, 3*len(content.PollutionFields), strings.Count(out, "<circle"), "one point per revealed record and field")
	assert.Equal(t, len(content.PollutionFields), strings.Count(out, "<polyline"))
	assert.Contains(t, out, "2000 - People without Safe Water (%): 39 %")
	assert.Contains(t, out, "Showing 2000-2024: 3 of 25 years revealed")
	assert.Contains(t, out, "Zoom: 1x")
	assert.Contains(t, out, `data-seq="4"`)
}

func TestChart_ZoomButtonsFollowLimits(t *testing.T) {
	series := content.PollutionSeries()

	out := render(t, zoomControls(fullState(25)))
	assert.Equal(t, 1, strings.Count(out, "disabled"), "zoom out is disabled at the minimum")

	st := fullState(25)
	st.Zoom = chart.MaxZoom
	st.Domain = chart.Domain{Start: 10, End: 14}
	out = render(t, Chart(ChartProps{Series: series, State: st, OOB: true}))
	assert.Contains(t, out, `hx-swap-oob="true"`)
	assert.Contains(t, out, "Zoom: 3x")
	assert.Contains(t, out, "Showing 2010-2014: 5 of 5 years revealed")
	assert.Equal(t, 5*len(content.PollutionFields), strings.Count(out, "<circle"))
}

func TestChart_NothingVisible(t *testing.T) {
	series := content.PollutionSeries()

	out := render(t, Chart(ChartProps{Series: series, State: fullState(0)}))
	assert.NotContains(t, out, "<polyline")

	// Revealed prefix ends before the zoomed domain starts.
	st := fullState(5)
	st.Zoom = 2
	st.Domain = chart.Domain{Start: 7, End: 17}
	out = render(t, Chart(ChartProps{Series: series, State: st}))
	assert.NotContains(t, out, "<circle")
	assert.Contains(t, out, "0 of 11 years revealed")
}

func TestChart_EmptySeries(t *testing.T) {
	empty := chart.MustSeries(content.PollutionFields, nil)
	out := render(t, Chart(ChartProps{Series: empty, State: chart.State{Zoom: 1}}))
	assert.Contains(t, out, "No data")
}

func TestFormatZoom(t *testing.T) {
	assert.Equal(t, "1x", FormatZoom(1))
	assert.Equal(t, "2.5x", FormatZoom(2.5))
}

func TestLinearScale(t *testing.T) {
	l := linear{d0: 0, d1: 10, r0: 100, r1: 0}
	assert.InDelta(t, 100, l.at(0), 1e-9)
	assert.InDelta(t, 50, l.at(5), 1e-9)
	assert.InDelta(t, 50, linear{d0: 3, d1: 3, r0: 0, r1: 100}.at(3), 1e-9, "degenerate domain centers")
}

func TestSlideshow(t *testing.T) {
	site := content.MustLoad()
	show := slideshow.New(len(site.Slides), 1)

	out := render(t, Slideshow(site.Slides, show, 5*time.Second))

	assert.Contains(t, out, `id="slideshow"`)
	assert.Contains(t, out, `hx-trigger="every 5s"`)
	assert.Contains(t, out, `hx-get="/slides/1/next"`)
	assert.Contains(t, out, `hx-get="/slides/1/prev"`)
	assert.Contains(t, out, site.Slides[1].Title)
	assert.Contains(t, out, `class="active indicator"`)
	assert.Equal(t, len(site.Slides), strings.Count(out, `aria-label="Slide `))
}

func TestSlideshow_Empty(t *testing.T) {
	assert.Nil(t, Slideshow(nil, slideshow.New(0, 0), time.Second))
}

func TestSectionContent(t *testing.T) {
	site := content.MustLoad()
	series := content.PollutionSeries()

	home, ok := site.Section(content.HomeSection)
	require.True(t, ok)
	st := fullState(1)
	out := render(t, SectionContent(SectionProps{
		Site: site, Section: home, Series: series, State: &st,
		Slides: slideshow.New(len(site.Slides), 0), SlideInterval: 5 * time.Second,
	}))
	assert.Contains(t, out, `id="slideshow"`)
	assert.Contains(t, out, `id="chart"`)
	assert.Contains(t, out, site.Chart.Facts[0].Heading)

	crisis, ok := site.Section("crisis")
	require.True(t, ok)
	out = render(t, SectionContent(SectionProps{Site: site, Section: crisis, Series: series}))
	assert.NotContains(t, out, `id="chart"`)
	assert.NotContains(t, out, `id="slideshow"`)
	assert.Contains(t, out, `class="section section-crisis"`)
}
