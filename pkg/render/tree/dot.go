package tree

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/floorplan/pkg/floorplan"
	"github.com/matzehuels/floorplan/pkg/render"
)

// Options configures slicing tree rendering.
type Options struct {
	// Catalog, when set, adds each module's width and height to its leaf
	// label.
	Catalog *floorplan.Catalog
}

const graphHeader = `digraph slicing {
  rankdir=TB;
  bgcolor="transparent";
  ranksep=0.5;
  nodesep=0.3;
  node [shape=box, style="rounded,filled", fillcolor=white, fontsize=24, margin="0.2,0.1"];
  edge [arrowhead=none];
`

var cutAttrs = map[floorplan.Token]string{
	floorplan.Horizontal: `label="H", shape=circle, fillcolor=lightblue`,
	floorplan.Vertical:   `label="V", shape=circle, fillcolor=palegreen`,
}

// ToDOT writes the slicing tree rooted at root as a Graphviz digraph for
// [RenderSVG], [RenderPDF] or [RenderPNG].
//
// Nodes are numbered n0, n1, ... in pre-order, so equal trees give equal
// DOT. Cuts are circles and modules rounded boxes. All modules share the
// bottom rank, so they read left to right in expression order.
func ToDOT(root *floorplan.Node, opts Options) string {
	var b strings.Builder
	b.WriteString(graphHeader)

	var leaves []string
	next := 0
	var emit func(n *floorplan.Node) string
	emit = func(n *floorplan.Node) string {
		id := "n" + strconv.Itoa(next)
		next++
		if n.IsLeaf() {
			fmt.Fprintf(&b, "  %s [label=%q];\n", id, leafLabel(n, opts))
			leaves = append(leaves, id)
			return id
		}
		fmt.Fprintf(&b, "  %s [%s];\n", id, cutAttrs[n.Token])
		for _, child := range []*floorplan.Node{n.Left, n.Right} {
			fmt.Fprintf(&b, "  %s -> %s;\n", id, emit(child))
		}
		return id
	}
	if root != nil {
		emit(root)
	}
	if len(leaves) > 1 {
		fmt.Fprintf(&b, "  { rank=same; %s; }\n", strings.Join(leaves, "; "))
	}

	b.WriteString("}\n")
	return b.String()
}

// leafLabel is the module name, plus its dimensions when the catalog
// knows it.
func leafLabel(n *floorplan.Node, opts Options) string {
	name := string(n.Token)
	if opts.Catalog == nil {
		return name
	}
	if m, ok := opts.Catalog.Get(name); ok {
		return fmt.Sprintf("%s\n%.4gx%.4g", name, m.Width, m.Height)
	}
	return name
}

// RenderSVG lays out dot with the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render tree: %w", err)
	}
	return fitViewBox(buf.Bytes()), nil
}

var svgOpenTag = regexp.MustCompile(`<svg[^>]*viewBox="[\d.]+\s+[\d.]+\s+([\d.]+)\s+([\d.]+)"[^>]*>`)

// fitViewBox replaces Graphviz's point-sized <svg> tag with one whose
// viewBox starts at the origin and whose size is in pixels, so browsers
// scale the tree like the plan drawing.
func fitViewBox(svg []byte) []byte {
	m := svgOpenTag.FindSubmatchIndex(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(svg[m[2]:m[3]]), 64)
	h, _ := strconv.ParseFloat(string(svg[m[4]:m[5]]), 64)
	if w <= 0 || h <= 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %g %g" width="%.0f" height="%.0f">`,
		w, h, math.Ceil(w), math.Ceil(h))
	return slices.Concat(svg[:m[0]], []byte(tag), svg[m[1]:])
}

// RenderPDF renders the expression tree as PDF. It fails with
// UNSUPPORTED when rsvg-convert is not installed.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders the expression tree as PNG at the given scale.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
