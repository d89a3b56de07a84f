package floorplan

import "fmt"

// Node is a vertex of a slicing tree. Leaves hold a module name; internal
// nodes hold a cut operator and exactly two children.
type Node struct {
	Token Token
	Left  *Node
	Right *Node
}

// IsLeaf reports whether n is a module.
func (n *Node) IsLeaf() bool { return n.Left == nil && n.Right == nil }

// Leaves returns the module names under n from left to right.
func (n *Node) Leaves() []string {
	if n.IsLeaf() {
		return []string{string(n.Token)}
	}
	return append(n.Left.Leaves(), n.Right.Leaves()...)
}

// Depth is the number of edges on the longest root-to-leaf path.
func (n *Node) Depth() int {
	if n.IsLeaf() {
		return 0
	}
	return 1 + max(n.Left.Depth(), n.Right.Depth())
}

// ParseTree decodes e into its slicing tree. The first operand of each
// operator becomes the left child.
func ParseTree(e Expression) (*Node, error) {
	stack := make([]*Node, 0, len(e)/2+1)
	for pos, t := range e {
		if !t.IsOperator() {
			stack = append(stack, &Node{Token: t})
			continue
		}
		if len(stack) < 2 {
			return nil, fmt.Errorf("token %d (%s): %w", pos, t, ErrStackUnderflow)
		}
		n := &Node{Token: t, Left: stack[len(stack)-2], Right: stack[len(stack)-1]}
		stack = append(stack[:len(stack)-2], n)
	}
	if len(stack) != 1 {
		return nil, fmt.Errorf("%d subtrees left: %w", len(stack), ErrUnbalanced)
	}
	return stack[0], nil
}
