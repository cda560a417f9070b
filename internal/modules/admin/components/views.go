// Package components renders the admin pages.
package components

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/Pranav2188/water-pollution-quirklab/internal/chart"
	"github.com/Pranav2188/water-pollution-quirklab/internal/view"
)

// LoginForm is the admin login page body.
func LoginForm(action, username string) g.Node {
	return h.Section(
		h.Class("admin admin-login"),
		h.H1(g.Text("Admin login")),
		g.El("form",
			g.Attr("method", "post"),
			g.Attr("action", action),
			h.Class("login-form"),
			field("username", "Username", "text", username),
			field("password", "Password", "password", ""),
			h.Button(h.Type("submit"), g.Text("Log in")),
		),
	)
}

func field(name, label, kind, value string) g.Node {
	return h.Div(
		h.Class("form-field"),
		g.El("label", g.Attr("for", name), g.Text(label)),
		h.Input(
			h.Type(kind),
			h.ID(name),
			h.Name(name),
			g.If(value != "", h.Value(value)),
			h.Required(),
		),
	)
}

// DashboardProps is what the dashboard shows.
type DashboardProps struct {
	// Views is nil when the counter could not be read.
	Views *int64
	Stats chart.Stats

	ResetAction  string
	ExportAction string
	LogoutAction string
}

// Dashboard is the admin overview: view count, live viewers and running reveals.
func Dashboard(ctx context.Context, p DashboardProps) g.Node {
	views := "unavailable"
	if p.Views != nil {
		views = strconv.FormatInt(*p.Views, 10)
	}

	return h.Section(
		h.Class("admin admin-dashboard"),
		h.H1(g.Text("Dashboard")),
		h.Div(
			h.Class("stats"),
			view.AdaptTemplToGomponent(ctx, statCard("Page views", views)),
			view.AdaptTemplToGomponent(ctx, statCard("Active viewers", strconv.Itoa(p.Stats.Viewers))),
			view.AdaptTemplToGomponent(ctx, statCard("Running reveals", strconv.Itoa(p.Stats.ActiveReveals))),
		),
		h.Div(
			h.Class("admin-actions"),
			postButton(p.ResetAction, "Reset view counter"),
			h.A(h.Href(p.ExportAction), h.Class("button"), g.Text("Download data (xlsx)")),
			postButton(p.LogoutAction, "Log out"),
		),
	)
}

func postButton(action, label string) g.Node {
	return g.El("form",
		g.Attr("method", "post"),
		g.Attr("action", action),
		h.Button(h.Type("submit"), g.Text(label)),
	)
}

// statCard is a templ component so it can be shared with templ pages.
func statCard(label, value string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div class="stat"><span class="stat-label">`+
			templ.EscapeString(label)+`</span><strong class="stat-value">`+
			templ.EscapeString(value)+`</strong></div>`)
		return err
	})
}
