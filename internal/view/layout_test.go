package view_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"

	"github.com/Pranav2188/water-pollution-quirklab/internal/view"
)

func render(t *testing.T, n g.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, n.Render(&buf))
	return buf.String()
}

func testNav() []view.NavItem {
	return []view.NavItem{
		{Name: "home", Label: "Home", Href: "/"},
		{Name: "crisis", Label: "Crisis", Href: "/crisis"},
	}
}

func TestLayout(t *testing.T) {
	out := render(t, view.Layout(view.Page{
		Title:      "Crisis",
		SiteName:   "Quirk Lab",
		Footer:     "footer text",
		Nav:        testNav(),
		Active:     "crisis",
		LiveSocket: "/ws/html",
		Flash:      view.FlashData{Success: []string{"saved"}},
		Body:       g.Text("body text"),
	}))

	assert.Contains(t, out, "<!doctype html>")
	assert.Contains(t, out, "<title>Crisis | Quirk Lab</title>")
	assert.Contains(t, out, `ws-connect="/ws/html"`)
	assert.Contains(t, out, `hx-ext="ws"`)
	assert.Contains(t, out, `<main id="page">body text</main>`)
	assert.Contains(t, out, `class="active nav-link"`)
	assert.Contains(t, out, `hx-get="/sections/crisis"`)
	assert.Contains(t, out, "saved")
	assert.Contains(t, out, "footer text")
}

func TestLayout_WithoutSocket(t *testing.T) {
	out := render(t, view.Layout(view.Page{SiteName: "Quirk Lab", Body: g.Text("x")}))

	assert.Contains(t, out, "<title>Quirk Lab</title>")
	assert.NotContains(t, out, "ws-connect")
	assert.NotContains(t, out, `class="flash"`)
}

func TestNavOOB(t *testing.T) {
	out := render(t, view.NavOOB(testNav(), "home"))

	assert.Contains(t, out, `hx-swap-oob="innerHTML:#site-nav"`)
	assert.Contains(t, out, `href="/"`)
}
