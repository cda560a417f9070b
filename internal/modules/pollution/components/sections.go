package components

import (
	"time"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/Pranav2188/water-pollution-quirklab/internal/chart"
	"github.com/Pranav2188/water-pollution-quirklab/internal/content"
	"github.com/Pranav2188/water-pollution-quirklab/internal/slideshow"
)

// SectionProps is the input of SectionContent.
type SectionProps struct {
	Site    *content.Site
	Section content.Section
	Series  chart.Series
	// State is the viewer's chart state. It is only set for the home section.
	State         *chart.State
	Slides        slideshow.Slideshow
	SlideInterval time.Duration
}

// SectionContent renders the body of one section. The home section also carries
// the slideshow, the animated chart and the crisis facts.
func SectionContent(p SectionProps) g.Node {
	sec := p.Section
	isHome := sec.Name == content.HomeSection

	return h.Article(
		h.Class("section section-"+sec.Name),
		g.If(isHome, Slideshow(p.Site.Slides, p.Slides, p.SlideInterval)),
		h.Header(
			h.Class("section-header"),
			h.H1(g.Text(sec.Title)),
			g.If(sec.Intro != "", h.P(h.Class("section-intro"), g.Text(sec.Intro))),
		),
		g.If(sec.Lead != "", h.P(h.Class("section-lead"), g.Text(sec.Lead))),
		g.Iff(isHome && p.State != nil, func() g.Node {
			return g.Group{
				Chart(ChartProps{Series: p.Series, Copy: p.Site.Chart, State: *p.State}),
				h.Div(h.Class("facts"), g.Map(p.Site.Chart.Facts, block)),
			}
		}),
		h.Div(h.Class("blocks"), g.Map(sec.Blocks, block)),
		g.If(sec.Closing != nil, closing(sec.Closing)),
	)
}

func block(b content.Block) g.Node {
	return h.Div(
		h.Class("block"),
		g.If(b.Heading != "", h.H3(g.Text(b.Heading))),
		g.If(b.Body != "", h.P(g.Text(b.Body))),
		g.If(len(b.Items) > 0, h.Ul(g.Map(b.Items, func(item string) g.Node {
			return h.Li(g.Text(item))
		}))),
		g.If(b.Source != "", h.P(h.Class("source"), h.Small(g.Text("Source: "+b.Source)))),
	)
}

func closing(b *content.Block) g.Node {
	if b == nil {
		return nil
	}
	return h.Div(h.Class("closing"), block(*b))
}

// PageTitle is the document title for a section.
func PageTitle(site *content.Site, sec content.Section) string {
	if sec.Name == content.HomeSection {
		return site.Name
	}
	return sec.Title
}
