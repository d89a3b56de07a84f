package floorplan

import (
	"math"
	"testing"
)

func overlaps(a, b Rect) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W && a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

func TestPlaceScenario(t *testing.T) {
	p, err := Place(ParseExpression("A B V C V"), scenarioCatalog(t))
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	if p.Width != 12 || p.Height != 3 {
		t.Fatalf("bounding box = %gx%g, want 12x3", p.Width, p.Height)
	}

	want := []Rect{
		{Name: "A", X: 0, Y: 0, W: 4, H: 2},
		{Name: "B", X: 4, Y: 0, W: 2, H: 2},
		{Name: "C", X: 6, Y: 0, W: 6, H: 3, Rotated: true},
	}
	if len(p.Rects) != len(want) {
		t.Fatalf("got %d rects, want %d", len(p.Rects), len(want))
	}
	for i := range want {
		if p.Rects[i] != want[i] {
			t.Errorf("rect %d = %+v, want %+v", i, p.Rects[i], want[i])
		}
	}

	if math.Abs(p.Utilization()-30.0/36.0) > 1e-12 {
		t.Errorf("Utilization() = %g, want %g", p.Utilization(), 30.0/36.0)
	}
}

func TestPlaceHorizontalStacksUp(t *testing.T) {
	p, err := Place(ParseExpression("A B H"), scenarioCatalog(t))
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	// A rotated to 2x4 sits below B.
	if p.Width != 2 || p.Height != 6 {
		t.Fatalf("bounding box = %gx%g, want 2x6", p.Width, p.Height)
	}
	a, b := p.Rects[0], p.Rects[1]
	if !a.Rotated || a.Y != 0 || b.Y != 4 || b.X != 0 {
		t.Errorf("unexpected layout: %+v %+v", a, b)
	}
}

func TestPlaceMatchesCost(t *testing.T) {
	c := gridCatalog(t, 12)
	ev := NewEvaluator(c)

	for seed := range uint64(20) {
		e := scramble(c, 60, seed)
		p, err := Place(e, c)
		if err != nil {
			t.Fatalf("Place(%s): %v", e, err)
		}
		cost, _ := ev.Cost(e)
		if p.Area() != cost {
			t.Errorf("seed %d: placement area %g != cost %g", seed, p.Area(), cost)
		}
		if len(p.Rects) != c.Len() {
			t.Fatalf("seed %d: %d rects for %d modules", seed, len(p.Rects), c.Len())
		}
		if math.Abs(p.ModuleArea()-c.TotalArea()) > 1e-9 {
			t.Errorf("seed %d: module area %g, want %g", seed, p.ModuleArea(), c.TotalArea())
		}

		for i, r := range p.Rects {
			if r.X < 0 || r.Y < 0 || r.X+r.W > p.Width || r.Y+r.H > p.Height {
				t.Errorf("seed %d: %s escapes the %gx%g box: %+v", seed, r.Name, p.Width, p.Height, r)
			}
			for _, o := range p.Rects[i+1:] {
				if overlaps(r, o) {
					t.Errorf("seed %d: %s overlaps %s", seed, r.Name, o.Name)
				}
			}
		}
	}
}

func TestPlaceErrors(t *testing.T) {
	c := scenarioCatalog(t)
	if _, err := Place(ParseExpression("A Z V"), c); err == nil {
		t.Error("Place with unknown module should fail")
	}
	if _, err := Place(ParseExpression("A V"), c); err == nil {
		t.Error("Place with stack underflow should fail")
	}
}
