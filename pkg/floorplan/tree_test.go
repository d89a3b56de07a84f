package floorplan

import (
	"errors"
	"slices"
	"testing"
)

func TestParseTree(t *testing.T) {
	root, err := ParseTree(ParseExpression("A B V C H"))
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}

	if root.Token != Horizontal || root.IsLeaf() {
		t.Fatalf("root = %s, want H", root.Token)
	}
	if root.Right.Token != "C" || !root.Right.IsLeaf() {
		t.Errorf("right child = %s, want leaf C", root.Right.Token)
	}
	if root.Left.Token != Vertical || root.Left.Left.Token != "A" || root.Left.Right.Token != "B" {
		t.Errorf("left subtree should be A B V")
	}
	if got := root.Leaves(); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Errorf("Leaves() = %v", got)
	}
	if got := root.Depth(); got != 2 {
		t.Errorf("Depth() = %d, want 2", got)
	}
}

func TestParseTreeChainDepth(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e"}
	root, err := ParseTree(Chain(names))
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}
	if got := root.Depth(); got != len(names)-1 {
		t.Errorf("Depth() = %d, want %d", got, len(names)-1)
	}
	if got := root.Leaves(); !slices.Equal(got, names) {
		t.Errorf("Leaves() = %v, want %v", got, names)
	}
}

func TestParseTreeErrors(t *testing.T) {
	if _, err := ParseTree(ParseExpression("A H")); !errors.Is(err, ErrStackUnderflow) {
		t.Errorf("ParseTree(A H) = %v, want ErrStackUnderflow", err)
	}
	if _, err := ParseTree(ParseExpression("A B")); !errors.Is(err, ErrUnbalanced) {
		t.Errorf("ParseTree(A B) = %v, want ErrUnbalanced", err)
	}
}
