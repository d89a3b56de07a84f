package floorplan

import (
	"fmt"

	errs "github.com/matzehuels/floorplan/pkg/errors"
)

// Evaluation invariants. They can only trip on expressions that were never
// validated; each one is an INTERNAL_ERROR.
var (
	ErrStackUnderflow = errs.New(errs.ErrCodeInternal, "operator with fewer than two operands on the stack")
	ErrUnbalanced     = errs.New(errs.ErrCodeInternal, "stack did not reduce to a single tile")
	ErrZeroArea       = errs.New(errs.ErrCodeInternal, "combined shape has zero area")
)

// Evaluator computes the area cost of expressions over a fixed catalog.
// It holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	Catalog *Catalog

	// DisablePruning keeps dominated shapes. The cost is unchanged; only
	// the amount of work grows. Intended for tests and diagnostics.
	DisablePruning bool
}

// NewEvaluator returns an evaluator with pruning enabled.
func NewEvaluator(c *Catalog) *Evaluator {
	return &Evaluator{Catalog: c}
}

// Cost returns the minimum bounding-box area over all realizations of e.
func (ev *Evaluator) Cost(e Expression) (float64, error) {
	root, err := ev.fold(e)
	if err != nil {
		return 0, err
	}
	return root[minArea(root)].Area(), nil
}

// ShapeFunction returns the root's candidate shapes: the Pareto frontier
// ordered by increasing width when pruning is enabled, the raw cross
// product otherwise.
func (ev *Evaluator) ShapeFunction(e Expression) ([]Shape, error) {
	root, err := ev.fold(e)
	if err != nil {
		return nil, err
	}
	return shapesOf(root), nil
}

// fold runs the stack machine over e and returns the root tile's candidates.
func (ev *Evaluator) fold(e Expression) ([]candidate, error) {
	tiles, err := Build(e, ev.Catalog)
	if err != nil {
		return nil, err
	}

	stack := make([][]candidate, 0, len(tiles)/2+1)
	for pos, tile := range tiles {
		if !tile.Token.IsOperator() {
			stack = append(stack, leafCandidates(tile.Shapes))
			continue
		}
		if len(stack) < 2 {
			return nil, fmt.Errorf("token %d (%s): %w", pos, tile.Token, ErrStackUnderflow)
		}
		i := stack[len(stack)-1]
		j := stack[len(stack)-2]
		stack = stack[:len(stack)-2]

		combined, err := combine(tile.Token, j, i)
		if err != nil {
			return nil, fmt.Errorf("token %d (%s): %w", pos, tile.Token, err)
		}
		if !ev.DisablePruning {
			combined = prune(combined)
		}
		stack = append(stack, combined)
	}

	if len(stack) != 1 {
		return nil, fmt.Errorf("%d tiles left: %w", len(stack), ErrUnbalanced)
	}
	return stack[0], nil
}
