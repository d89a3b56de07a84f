package floorplan

// Rect is the position of one module in a placement. X and Y are the
// lower-left corner.
type Rect struct {
	Name    string  `json:"name"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	W       float64 `json:"w"`
	H       float64 `json:"h"`
	Rotated bool    `json:"rotated,omitempty"`
}

// Placement is the realization of an expression at its minimum-area shape.
type Placement struct {
	Expression Expression `json:"expression"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Rects      []Rect     `json:"rects"`
}

// Area is the bounding-box area, equal to the expression's cost.
func (p *Placement) Area() float64 { return p.Width * p.Height }

// ModuleArea is the summed area of the placed modules.
func (p *Placement) ModuleArea() float64 {
	var total float64
	for _, r := range p.Rects {
		total += r.W * r.H
	}
	return total
}

// Utilization is ModuleArea / Area, in (0, 1].
func (p *Placement) Utilization() float64 {
	if a := p.Area(); a > 0 {
		return p.ModuleArea() / a
	}
	return 0
}

// placeNode is a slicing-tree node annotated with its pruned candidates.
type placeNode struct {
	node        *Node
	cands       []candidate
	left, right *placeNode
}

// Place realizes e at its minimum-area shape. Vertical cuts put the left
// subtree at the lower x; horizontal cuts put the left subtree at the
// lower y.
func Place(e Expression, c *Catalog) (*Placement, error) {
	root, err := ParseTree(e)
	if err != nil {
		return nil, err
	}
	pn, err := annotate(root, c)
	if err != nil {
		return nil, err
	}

	best := minArea(pn.cands)
	p := &Placement{
		Expression: e.Clone(),
		Width:      pn.cands[best].W,
		Height:     pn.cands[best].H,
	}
	p.Rects = assign(pn, best, 0, 0, c, p.Rects)
	return p, nil
}

func annotate(n *Node, c *Catalog) (*placeNode, error) {
	if n.IsLeaf() {
		shapes, err := orientations(c, n.Token)
		if err != nil {
			return nil, err
		}
		return &placeNode{node: n, cands: leafCandidates(shapes)}, nil
	}

	left, err := annotate(n.Left, c)
	if err != nil {
		return nil, err
	}
	right, err := annotate(n.Right, c)
	if err != nil {
		return nil, err
	}
	cands, err := combine(n.Token, left.cands, right.cands)
	if err != nil {
		return nil, err
	}
	return &placeNode{node: n, cands: prune(cands), left: left, right: right}, nil
}

func assign(pn *placeNode, idx int, x, y float64, c *Catalog, out []Rect) []Rect {
	cand := pn.cands[idx]
	if pn.node.IsLeaf() {
		m, _ := c.Get(string(pn.node.Token))
		return append(out, Rect{
			Name:    m.Name,
			X:       x,
			Y:       y,
			W:       cand.W,
			H:       cand.H,
			Rotated: !m.IsSquare() && cand.W != m.Width,
		})
	}

	l := pn.left.cands[cand.left]
	out = assign(pn.left, cand.left, x, y, c, out)
	if pn.node.Token == Vertical {
		return assign(pn.right, cand.right, x+l.W, y, c, out)
	}
	return assign(pn.right, cand.right, x, y+l.H, c, out)
}
