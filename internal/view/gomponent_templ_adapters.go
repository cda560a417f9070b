package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
)

// nodeComponent lets a gomponents node be used where a templ.Component is expected.
type nodeComponent struct {
	node g.Node
}

func (a nodeComponent) Render(_ context.Context, w io.Writer) error {
	if a.node == nil {
		return nil
	}
	return a.node.Render(w)
}

// AdaptGomponentToTempl wraps node as a templ.Component.
func AdaptGomponentToTempl(node g.Node) templ.Component {
	return nodeComponent{node: node}
}

// componentNode lets a templ.Component be embedded in a gomponents tree.
type componentNode struct {
	ctx       context.Context
	component templ.Component
}

func (a componentNode) Render(w io.Writer) error {
	return a.component.Render(a.ctx, w)
}

// AdaptTemplToGomponent wraps component as a gomponents node rendered with ctx.
// gomponents has no context of its own, so the caller's request context is captured here.
func AdaptTemplToGomponent(ctx context.Context, component templ.Component) g.Node {
	if ctx == nil {
		ctx = context.Background()
	}
	return componentNode{ctx: ctx, component: component}
}
