package components

import (
	"fmt"
	"time"

	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/components"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"

	"github.com/Pranav2188/water-pollution-quirklab/internal/content"
	"github.com/Pranav2188/water-pollution-quirklab/internal/slideshow"
)

// SlideshowID is the element id of the hero slideshow.
const SlideshowID = "slideshow"

// Slideshow renders the current slide. The panel polls for the next slide every
// interval; each response replaces the whole panel, which restarts the timer.
func Slideshow(slides []content.Slide, show slideshow.Slideshow, interval time.Duration) g.Node {
	if show.Count == 0 || len(slides) == 0 {
		return nil
	}
	cur := slides[show.Current]

	nav := func(label, path string) g.Node {
		return h.Button(
			h.Type("button"),
			h.Class("slide-nav"),
			hx.Get(path),
			hx.Target("#"+SlideshowID),
			hx.Swap("outerHTML"),
			g.Attr("aria-label", label),
			g.Text(label),
		)
	}

	indicators := make([]g.Node, show.Count)
	for i := range indicators {
		indicators[i] = h.Button(
			h.Type("button"),
			components.Classes{"indicator": true, "active": i == show.Current},
			hx.Get(fmt.Sprintf("/slides/%d", i)),
			hx.Target("#"+SlideshowID),
			hx.Swap("outerHTML"),
			g.Attr("aria-label", fmt.Sprintf("Slide %d", i+1)),
		)
	}

	return h.Div(
		h.ID(SlideshowID),
		h.Class("slideshow"),
		hx.Get(fmt.Sprintf("/slides/%d/next", show.Current)),
		hx.Trigger("every "+interval.String()),
		hx.Swap("outerHTML"),
		h.Figure(
			h.Class("slide"),
			h.Img(h.Src(cur.URL), h.Alt(cur.Title)),
			h.FigCaption(
				h.H3(g.Text(cur.Title)),
				h.P(g.Text(cur.Description)),
			),
		),
		nav("Previous", fmt.Sprintf("/slides/%d/prev", show.Current)),
		nav("Next", fmt.Sprintf("/slides/%d/next", show.Current)),
		h.Div(h.Class("indicators"), g.Group(indicators)),
	)
}
