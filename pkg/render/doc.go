// Package render produces static images of a family tree view.
//
// # Outputs
//
//   - [RenderSVG] draws a [view.State] as SVG with the positions, skins and
//     opacities the interactive view currently shows.
//   - [ToDOT] describes the hierarchy in Graphviz DOT, and [RenderDOT] lays
//     that out with Graphviz itself. Graphviz placement is independent of
//     the tidy-tree layout and is offered as an alternative export.
//   - [ToPDF] and [ToPNG] convert any SVG using rsvg-convert.
//
//	st, _ := view.NewState(t, view.DefaultConfig(), theme.Dark)
//	svg := render.RenderSVG(st)
//	png, err := render.ToPNG(ctx, svg, 2.0)
package render
