package floorplan_test

import (
	"fmt"

	"github.com/matzehuels/floorplan/pkg/floorplan"
)

func ExampleEvaluator_Cost() {
	catalog, _ := floorplan.NewCatalog(
		floorplan.Module{Name: "A", Width: 4, Height: 2},
		floorplan.Module{Name: "B", Width: 2, Height: 2},
		floorplan.Module{Name: "C", Width: 3, Height: 6},
	)

	cost, _ := floorplan.NewEvaluator(catalog).Cost(floorplan.ParseExpression("A B V C V"))
	fmt.Println(cost)
	// Output: 36
}

func ExampleChain() {
	e := floorplan.Chain([]string{"alu", "fpu", "rom"})
	fmt.Println(e)
	fmt.Println(floorplan.Validate(e) == nil)
	// Output:
	// alu fpu V rom V
	// true
}

func ExampleAccept() {
	fmt.Println(floorplan.Accept(-2, 10, 0.99))
	fmt.Println(floorplan.Accept(1, 0, 0))
	fmt.Println(floorplan.Accept(1, 2, 0.5))
	// Output:
	// true
	// false
	// true
}

func ExamplePlace() {
	catalog, _ := floorplan.NewCatalog(
		floorplan.Module{Name: "A", Width: 4, Height: 2},
		floorplan.Module{Name: "B", Width: 2, Height: 2},
		floorplan.Module{Name: "C", Width: 3, Height: 6},
	)

	p, _ := floorplan.Place(floorplan.ParseExpression("A B V C V"), catalog)
	fmt.Printf("%gx%g\n", p.Width, p.Height)
	for _, r := range p.Rects {
		fmt.Printf("%s at (%g,%g) %gx%g rotated=%v\n", r.Name, r.X, r.Y, r.W, r.H, r.Rotated)
	}
	// Output:
	// 12x3
	// A at (0,0) 4x2 rotated=false
	// B at (4,0) 2x2 rotated=false
	// C at (6,0) 6x3 rotated=true
}
