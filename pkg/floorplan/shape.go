package floorplan

import (
	"cmp"
	"math"
	"slices"
)

// candidate is a shape together with the indices of the child shapes that
// produced it. Operand candidates have left = right = -1.
type candidate struct {
	Shape
	left, right int
}

func leafCandidates(shapes []Shape) []candidate {
	out := make([]candidate, len(shapes))
	for i, s := range shapes {
		out[i] = candidate{Shape: s, left: -1, right: -1}
	}
	return out
}

// cut combines two child shapes under op.
func cut(op Token, l, r Shape) Shape {
	if op == Horizontal {
		return Shape{W: max(l.W, r.W), H: l.H + r.H}
	}
	return Shape{W: l.W + r.W, H: max(l.H, r.H)}
}

// combine returns the full cross product of left and right under op.
// It returns ErrZeroArea if any combined shape has no area.
func combine(op Token, left, right []candidate) ([]candidate, error) {
	out := make([]candidate, 0, len(left)*len(right))
	for li, l := range left {
		for ri, r := range right {
			s := cut(op, l.Shape, r.Shape)
			if s.Area() == 0 {
				return nil, ErrZeroArea
			}
			out = append(out, candidate{Shape: s, left: li, right: ri})
		}
	}
	return out, nil
}

// prune keeps the Pareto frontier of cs: a candidate is dropped when another
// one is no wider and no taller. Exact duplicates collapse to one entry.
// The result is ordered by increasing width (and so decreasing height).
func prune(cs []candidate) []candidate {
	if len(cs) < 2 {
		return cs
	}
	sorted := slices.Clone(cs)
	slices.SortStableFunc(sorted, func(a, b candidate) int {
		if c := cmp.Compare(a.W, b.W); c != 0 {
			return c
		}
		return cmp.Compare(a.H, b.H)
	})

	out := sorted[:0]
	minH := math.Inf(1)
	for _, c := range sorted {
		if c.H < minH {
			out = append(out, c)
			minH = c.H
		}
	}
	return out
}

// minArea returns the index of the smallest-area candidate, preferring the
// earliest one on ties. cs must be non-empty.
func minArea(cs []candidate) int {
	best := 0
	for i := 1; i < len(cs); i++ {
		if cs[i].Area() < cs[best].Area() {
			best = i
		}
	}
	return best
}

func shapesOf(cs []candidate) []Shape {
	out := make([]Shape, len(cs))
	for i, c := range cs {
		out[i] = c.Shape
	}
	return out
}
