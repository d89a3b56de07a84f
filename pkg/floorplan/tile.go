package floorplan

import (
	errs "github.com/matzehuels/floorplan/pkg/errors"
)

// Shape is one feasible bounding box of a subtree.
type Shape struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Area returns W*H.
func (s Shape) Area() float64 { return s.W * s.H }

// Dominates reports whether s is no larger than o in both dimensions.
func (s Shape) Dominates(o Shape) bool { return s.W <= o.W && s.H <= o.H }

// Tile is a token together with its candidate shapes. Operand tiles carry
// the module footprint (and its rotation); operator tiles start empty and
// are filled by the evaluator.
type Tile struct {
	Token  Token
	Shapes []Shape
}

// Build converts e into tiles, attaching every admissible orientation to
// each operand. It fails with UNKNOWN_MODULE if an operand is missing from
// the catalog.
func Build(e Expression, c *Catalog) ([]Tile, error) {
	tiles := make([]Tile, len(e))
	for i, t := range e {
		if t.IsOperator() {
			tiles[i] = Tile{Token: t}
			continue
		}
		shapes, err := orientations(c, t)
		if err != nil {
			return nil, err
		}
		tiles[i] = Tile{Token: t, Shapes: shapes}
	}
	return tiles, nil
}

// orientations returns {(w,h)} for square modules and {(w,h), (h,w)} otherwise.
func orientations(c *Catalog, t Token) ([]Shape, error) {
	m, ok := c.Get(string(t))
	if !ok {
		return nil, errs.New(errs.ErrCodeUnknownModule, "module %q not in catalog", t)
	}
	if m.IsSquare() {
		return []Shape{{W: m.Width, H: m.Height}}, nil
	}
	return []Shape{{W: m.Width, H: m.Height}, {W: m.Height, H: m.Width}}, nil
}
