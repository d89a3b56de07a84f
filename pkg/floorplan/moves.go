package floorplan

import (
	"math/rand/v2"
)

// m3Attempts bounds how many operand/operator swaps M3 tries before giving up.
const m3Attempts = 10

// Move identifies one of the three neighborhood moves.
type Move int

const (
	// MoveSwapOperands (M1) swaps two neighbours of the operand subsequence.
	MoveSwapOperands Move = iota
	// MoveComplementChain (M2) flips every operator of one operator chain.
	MoveComplementChain
	// MoveSwapOperandOperator (M3) swaps an operand with the operator after it.
	MoveSwapOperandOperator

	numMoves
)

// Moves lists every move in draw order.
var Moves = []Move{MoveSwapOperands, MoveComplementChain, MoveSwapOperandOperator}

func (m Move) String() string {
	switch m {
	case MoveSwapOperands:
		return "M1"
	case MoveComplementChain:
		return "M2"
	case MoveSwapOperandOperator:
		return "M3"
	}
	return "unknown"
}

// Apply performs the move on e in place and reports whether e changed.
func (m Move) Apply(e Expression, rng *rand.Rand) bool {
	switch m {
	case MoveSwapOperands:
		return SwapOperands(e, rng)
	case MoveComplementChain:
		return ComplementChain(e, rng)
	case MoveSwapOperandOperator:
		return SwapOperandOperator(e, rng)
	}
	return false
}

// randomMove draws one move uniformly.
func randomMove(rng *rand.Rand) Move {
	return Move(rng.IntN(int(numMoves)))
}

// SwapOperands is move M1. It picks k uniformly among the first count-1
// operands and swaps operand k with operand k+1 of the operand subsequence,
// regardless of any operators between them. Operator placement is
// untouched, so the expression stays normalized.
func SwapOperands(e Expression, rng *rand.Rand) bool {
	var positions []int
	for i, t := range e {
		if !t.IsOperator() {
			positions = append(positions, i)
		}
	}
	if len(positions) < 2 {
		return false
	}
	k := rng.IntN(len(positions) - 1)
	a, b := positions[k], positions[k+1]
	e[a], e[b] = e[b], e[a]
	return true
}

// chainStarts returns the positions p where e[p-1] is an operand and e[p]
// an operator, i.e. where each maximal operator chain begins.
func chainStarts(e Expression) []int {
	var starts []int
	for i := 0; i+1 < len(e); i++ {
		if !e[i].IsOperator() && e[i+1].IsOperator() {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// ComplementChain is move M2. It picks one operator chain uniformly and
// flips every operator in it. Flipping the whole run keeps adjacent
// operators inside the chain distinct, and chains are separated by
// operands, so the expression stays skewed.
func ComplementChain(e Expression, rng *rand.Rand) bool {
	starts := chainStarts(e)
	if len(starts) == 0 {
		return false
	}
	for p := starts[rng.IntN(len(starts))]; p < len(e) && e[p].IsOperator(); p++ {
		e[p] = e[p].Complement()
	}
	return true
}

// SwapOperandOperator is move M3. It picks an operand that is directly
// followed by an operator and swaps the two. The swapped candidate is
// built on a copy and kept only if it still satisfies the balloting
// property and skewness; up to ten targets are tried. When all attempts
// fail, e is left as it was and false is returned.
func SwapOperandOperator(e Expression, rng *rand.Rand) bool {
	starts := chainStarts(e)
	if len(starts) == 0 {
		return false
	}
	for range m3Attempts {
		op := starts[rng.IntN(len(starts))]
		candidate := e.Clone()
		candidate[op-1], candidate[op] = candidate[op], candidate[op-1]
		if CheckBallotingProperty(candidate) && IsSkewed(candidate) {
			copy(e, candidate)
			return true
		}
	}
	return false
}
