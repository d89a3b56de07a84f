package plan

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/matzehuels/floorplan/pkg/floorplan"
)

// DefaultWidth is the pixel width of the chip outline when no WithWidth
// option is given.
const DefaultWidth = 800.0

const margin = 20.0

// palette holds fill colours cycled over modules in placement order.
var palette = []string{
	"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462",
	"#b3de69", "#fccde5", "#d9d9d9", "#bc80bd", "#ccebc5", "#ffed6f",
}

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width      float64
	dimensions bool
	title      string
}

// WithWidth sets the pixel width of the chip outline. Height follows the
// chip aspect ratio.
func WithWidth(px float64) SVGOption {
	return func(r *svgRenderer) {
		if px > 0 {
			r.width = px
		}
	}
}

// WithDimensions adds each module's width and height under its name.
func WithDimensions() SVGOption { return func(r *svgRenderer) { r.dimensions = true } }

// WithTitle draws a caption above the chip.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

// RenderSVG draws p. An empty placement yields an empty canvas.
func RenderSVG(p *floorplan.Placement, opts ...SVGOption) []byte {
	r := svgRenderer{width: DefaultWidth}
	for _, opt := range opts {
		opt(&r)
	}

	scale := 0.0
	if p.Width > 0 {
		scale = r.width / p.Width
	}
	chipW, chipH := p.Width*scale, p.Height*scale

	top := margin
	if r.title != "" {
		top += 24
	}
	totalW, totalH := chipW+2*margin, chipH+top+margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		totalW, totalH, totalW, totalH)
	buf.WriteString(`  <style>.module { stroke: #333; stroke-width: 1.5; } .module.rotated { stroke-dasharray: 6 3; } text { font-family: sans-serif; fill: #222; }</style>` + "\n")

	if r.title != "" {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-size="16" font-weight="bold">%s</text>`+"\n",
			margin, margin+12, html.EscapeString(r.title))
	}
	fmt.Fprintf(&buf, `  <rect class="chip" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="white" stroke="#000" stroke-width="2"/>`+"\n",
		margin, top, chipW, chipH)

	for i, rect := range p.Rects {
		x := margin + rect.X*scale
		y := top + (p.Height-rect.Y-rect.H)*scale
		w, h := rect.W*scale, rect.H*scale

		class := "module"
		if rect.Rotated {
			class += " rotated"
		}
		name := html.EscapeString(rect.Name)
		fmt.Fprintf(&buf, `  <rect id="module-%s" class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"><title>%s</title></rect>`+"\n",
			name, class, x, y, w, h, palette[i%len(palette)], name)
		renderLabel(&buf, r, rect, name, x+w/2, y+h/2, w, h)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderLabel(buf *bytes.Buffer, r svgRenderer, rect floorplan.Rect, name string, cx, cy, w, h float64) {
	size := math.Min(14, math.Min(w, h)/3)
	if size < 4 {
		return
	}
	if !r.dimensions {
		fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-size="%.1f" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
			cx, cy, size, name)
		return
	}
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-size="%.1f" text-anchor="middle">%s</text>`+"\n",
		cx, cy, size, name)
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-size="%.1f" text-anchor="middle">%.4gx%.4g</text>`+"\n",
		cx, cy+size*1.2, size*0.8, rect.W, rect.H)
}
