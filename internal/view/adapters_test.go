package view_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/Pranav2188/water-pollution-quirklab/internal/view"
)

type ctxKey struct{}

func TestAdapters(t *testing.T) {
	t.Run("gomponent inside templ", func(t *testing.T) {
		var buf bytes.Buffer
		comp := view.AdaptGomponentToTempl(h.Span(g.Text("views")))
		require.NoError(t, comp.Render(context.Background(), &buf))
		assert.Equal(t, "<span>views</span>", buf.String())
	})

	t.Run("templ inside gomponent keeps the context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), ctxKey{}, "admin")
		comp := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			_, err := io.WriteString(w, ctx.Value(ctxKey{}).(string))
			return err
		})

		out := render(t, h.Div(view.AdaptTemplToGomponent(ctx, comp)))
		assert.Equal(t, "<div>admin</div>", out)
	})
}
