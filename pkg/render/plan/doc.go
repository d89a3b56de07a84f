// Package plan renders placements as SVG drawings of packed rectangles.
//
// The chip origin is the lower-left corner; the drawing flips the y axis so
// that horizontal cuts stack upwards as they do in the placement. Rotated
// modules are drawn with a dashed outline.
//
//	p, _ := floorplan.Place(best, catalog)
//	svg := plan.RenderSVG(p, plan.WithWidth(1200), plan.WithDimensions())
package plan
