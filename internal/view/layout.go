package view

import (
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/components"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

const (
	htmxScript   = "https://unpkg.com/htmx.org@2.0.4"
	htmxWSScript = "https://unpkg.com/htmx-ext-ws@2.0.2/ws.js"
	stylesheet   = "/static/site.css"

	// PageTarget is the element section fragments are swapped into.
	PageTarget = "page"
)

// NavItem is one entry of the top navigation.
type NavItem struct {
	Name  string
	Label string
	Href  string
}

// Page describes a full HTML document.
type Page struct {
	Title    string
	SiteName string
	Tagline  string
	Footer   string
	Nav      []NavItem
	// Active is the Name of the highlighted nav item.
	Active string
	Flash  FlashData
	// LiveSocket connects the body to the HTML websocket so the server can push fragments.
	LiveSocket string
	Body       g.Node
}

// Layout renders the page shell: head, navigation, flash messages, body and footer.
func Layout(p Page) g.Node {
	title := p.SiteName
	if p.Title != "" && p.Title != p.SiteName {
		title = p.Title + " | " + p.SiteName
	}

	body := []g.Node{
		h.Header(
			h.Class("site-header"),
			h.Div(h.Class("brand"),
				h.Strong(g.Text(p.SiteName)),
				g.If(p.Tagline != "", h.Span(h.Class("tagline"), g.Text(p.Tagline))),
			),
			Nav(p.Nav, p.Active),
		),
		Flash(p.Flash),
		h.Main(h.ID(PageTarget), p.Body),
		h.Footer(h.Class("site-footer"), g.Text(p.Footer)),
	}
	if p.LiveSocket != "" {
		// The ws extension swaps every pushed fragment by its hx-swap-oob id.
		body = []g.Node{h.Div(hx.Ext("ws"), g.Attr("ws-connect", p.LiveSocket), g.Group(body))}
	}

	return components.HTML5(components.HTML5Props{
		Title:    title,
		Language: "en",
		Head: []g.Node{
			h.Meta(g.Attr("name", "viewport"), g.Attr("content", "width=device-width, initial-scale=1")),
			h.Link(h.Rel("stylesheet"), h.Href(stylesheet)),
			h.Script(h.Src(htmxScript)),
			h.Script(h.Src(htmxWSScript)),
		},
		Body: body,
	})
}

// Nav renders the section links. Links swap the section into the page and push the URL.
func Nav(items []NavItem, active string) g.Node {
	return h.Nav(h.ID("site-nav"), navLinks(items, active))
}

// NavOOB re-renders the navigation out of band so the active link follows fragment swaps.
func NavOOB(items []NavItem, active string) g.Node {
	return h.Div(hx.SwapOOB("innerHTML:#site-nav"), navLinks(items, active))
}

func navLinks(items []NavItem, active string) g.Node {
	return h.Ul(
		g.Map(items, func(item NavItem) g.Node {
			return h.Li(
				h.A(
					h.Href(item.Href),
					hx.Get("/sections/"+item.Name),
					hx.Target("#"+PageTarget),
					hx.PushURL(item.Href),
					components.Classes{"nav-link": true, "active": item.Name == active},
					g.Text(item.Label),
				),
			)
		}),
	)
}

// Flash renders pending flash messages, or nothing.
func Flash(f FlashData) g.Node {
	if f.Empty() {
		return nil
	}
	return h.Div(
		h.Class("flash"),
		g.Map(f.Success, func(msg string) g.Node {
			return h.P(h.Class("flash-success"), g.Text(msg))
		}),
		g.Map(f.Error, func(msg string) g.Node {
			return h.P(h.Class("flash-error"), g.Text(msg))
		}),
	)
}
