// Package floorplan packs rectangular modules into a slicing floorplan of
// near-minimum bounding area.
//
// # Overview
//
// A slicing floorplan is built by recursively cutting a rectangle either
// horizontally or vertically into two smaller rectangles, one per module
// at the leaves. Such a floorplan is encoded as a normalized polish
// expression (NPE): the post-order token sequence of its slicing tree,
// where operands are module names and the operators [Horizontal] and
// [Vertical] are the cuts:
//
//	A B V C H   // A beside B, with C stacked on top of both
//
// Every expression the optimizer accepts satisfies three invariants:
//
//   - Balanced: n operands and n-1 operators
//   - Balloting: every prefix has more operands than operators
//     ([CheckBallotingProperty])
//   - Skewed: no two adjacent operators are identical ([IsSkewed])
//
// # Cost
//
// The [Evaluator] folds an expression with an explicit stack. Each operand
// contributes its footprint and, for non-square modules, the rotated
// footprint. Each operator cross-combines the candidate shapes of its two
// children and drops dominated shapes, leaving a Pareto frontier (the
// discrete shape function of the subtree). The cost of the expression is
// the minimum width×height on the root's frontier.
//
// # Search
//
// The [Annealer] runs simulated annealing over expressions using three
// moves ([MoveSwapOperands], [MoveComplementChain],
// [MoveSwapOperandOperator]) that keep the invariants intact:
//
//	catalog, _ := floorplan.NewCatalog(modules...)
//	a := floorplan.NewAnnealer(catalog, floorplan.DefaultSchedule())
//	res, err := a.Run(ctx, floorplan.Chain(catalog.Names()))
//	fmt.Println(res.Best, res.BestCost)
//
// The search is single-threaded and fully determined by [Schedule.Seed].
// A [Catalog] is read-only once built and may be shared between annealers
// running in different goroutines.
//
// # Placement
//
// [Place] turns an expression into concrete rectangle coordinates by
// tracing the minimum-area root shape back to one orientation per module.
package floorplan
