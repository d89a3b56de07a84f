// Package tree draws the slicing tree behind an expression.
//
// A normalized Polish expression is the postfix walk of a binary tree
// whose leaves are modules and whose inner nodes are H (stack) or V (side
// by side) cuts. Seeing that tree next to the plan drawing makes it easy
// to tell which cut produced a wasted strip.
//
//	root, err := floorplan.ParseTree(expr)
//	dot := tree.ToDOT(root, tree.Options{Catalog: catalog})
//	svg, err := tree.RenderSVG(ctx, dot)
//
// Layout runs in-process through [github.com/goccy/go-graphviz].
// [RenderPDF] and [RenderPNG] additionally need rsvg-convert.
package tree
