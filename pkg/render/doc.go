// Package render turns floorplans into pictures.
//
// # Overview
//
// Two renderers are provided:
//
//   - [plan]: the packed rectangles of a placement as SVG
//   - [tree]: the slicing tree of an expression as a Graphviz diagram
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both renderers use them.
//
//	svg := plan.RenderSVG(p)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [plan]: github.com/matzehuels/floorplan/pkg/render/plan
// [tree]: github.com/matzehuels/floorplan/pkg/render/tree
package render
