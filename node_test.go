package mathy

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkLinks verifies the parent invariant over a whole tree: the root has no
// parent and every child points back at the node that owns it.
func checkLinks(t *testing.T, root *Node) {
	t.Helper()
	require.Nil(t, root.Parent(), "root must have nil parent")
	root.WalkPreorder(func(n *Node) bool {
		if n.Left() != nil {
			assert.Same(t, n, n.Left().Parent(), "left child of %q", n.String())
		}
		if n.Right() != nil {
			assert.Same(t, n, n.Right().Parent(), "right child of %q", n.String())
		}
		return true
	})
}

func mustParse(t *testing.T, text string) *Node {
	t.Helper()
	n, err := Parse(text)
	require.NoError(t, err)
	return n
}

func TestConstructorsLinkParents(t *testing.T) {
	n := NewAdd(NewMultiply(ConstInt(2), Var("x")), ConstInt(3))
	checkLinks(t, n)
	assert.Equal(t, NodeAdd, n.Type())
	assert.Equal(t, "2x + 3", n.String())
}

func TestSetLeftRelinks(t *testing.T) {
	old := Var("x")
	n := NewAdd(old, ConstInt(1))
	repl := Var("y")
	require.NoError(t, n.SetLeft(repl))

	assert.Same(t, repl, n.Left())
	assert.Same(t, n, repl.Parent())
	assert.Nil(t, old.Parent(), "replaced child must be detached")
	checkLinks(t, n)
}

func TestSetChildOnLeafFails(t *testing.T) {
	err := Var("x").SetLeft(ConstInt(1))
	assert.ErrorIs(t, err, ErrStructure)
	err = ConstInt(1).SetChild(Var("x"))
	assert.ErrorIs(t, err, ErrStructure)
}

func TestUnlink(t *testing.T) {
	n := mustParse(t, "2x + 3")
	left := n.Left()
	left.Unlink()

	assert.Nil(t, left.Parent())
	assert.Nil(t, n.Left())
	checkLinks(t, left)
}

func TestRootWalksUp(t *testing.T) {
	n := mustParse(t, "2x + 3y + 4z")
	nodes := n.PreorderNodes()
	for _, c := range nodes {
		assert.Same(t, n, c.Root())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := mustParse(t, "2x + 4x")
	copied := orig.Clone()

	require.Equal(t, orig.String(), copied.String())
	checkLinks(t, copied)

	// Mutating the copy leaves the original untouched.
	require.NoError(t, copied.SetRight(ConstInt(99)))
	assert.Equal(t, "2x + 99", copied.String())
	assert.Equal(t, "2x + 4x", orig.String())
}

func TestPreorderOrder(t *testing.T) {
	n := mustParse(t, "2x + 3")
	var kinds []NodeType
	n.WalkPreorder(func(c *Node) bool {
		kinds = append(kinds, c.Type())
		return true
	})
	assert.Equal(t, []NodeType{NodeAdd, NodeMultiply, NodeConstant, NodeVariable, NodeConstant}, kinds)
}

func TestInorderOrder(t *testing.T) {
	n := mustParse(t, "2x + 3")
	var kinds []NodeType
	n.WalkInorder(func(c *Node) bool {
		kinds = append(kinds, c.Type())
		return true
	})
	assert.Equal(t, []NodeType{NodeConstant, NodeMultiply, NodeVariable, NodeAdd, NodeConstant}, kinds)
}

func TestInorderVisitsNegateFirst(t *testing.T) {
	n := mustParse(t, "-x + 2")
	var kinds []NodeType
	n.WalkInorder(func(c *Node) bool {
		kinds = append(kinds, c.Type())
		return true
	})
	// The unary minus reads before its operand.
	assert.Equal(t, []NodeType{NodeNegate, NodeVariable, NodeAdd, NodeConstant}, kinds)
}

func TestWalkInorderStopsEarly(t *testing.T) {
	n := mustParse(t, "2x + 3")
	visited := 0
	n.WalkInorder(func(*Node) bool {
		visited++
		return visited < 3
	})
	assert.Equal(t, 3, visited)
}

func TestWalkPreorderStopsEarly(t *testing.T) {
	n := mustParse(t, "2x + 3")
	visited := 0
	n.WalkPreorder(func(*Node) bool {
		visited++
		return visited < 2
	})
	assert.Equal(t, 2, visited)
}

func TestNodeAtAndCount(t *testing.T) {
	n := mustParse(t, "2x + 3")
	assert.Equal(t, 5, n.Count())
	assert.Same(t, n, n.NodeAt(0))
	assert.Equal(t, NodeVariable, n.NodeAt(3).Type())
	assert.Nil(t, n.NodeAt(5))
	assert.Nil(t, n.NodeAt(-1))
}

func TestStringFormatting(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2x + 4x", "2x + 4x"},
		{"4x^2", "4x^2"},
		{"x - (y - z)", "x - (y - z)"},
		{"x - y - z", "x - y - z"},
		{"2 * (x + 1)", "2 * (x + 1)"},
		{"(x + 1) * 2", "(x + 1) * 2"},
		{"2^3^2", "2^3^2"},
		{"(2^3)^2", "(2^3)^2"},
		{"-x + 2", "-x + 2"},
		{"-(x + 2)", "-(x + 2)"},
		{"x / y / z", "x / y / z"},
		{"x / (y / z)", "x / (y / z)"},
		{"1.5x", "3/2 * x"},
	}
	for _, tc := range cases {
		got := mustParse(t, tc.in).String()
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestEvaluate(t *testing.T) {
	vars := map[string]*big.Rat{
		"x": big.NewRat(3, 1),
		"y": big.NewRat(1, 2),
	}
	cases := []struct {
		in   string
		want *big.Rat
	}{
		{"2x + 4x", big.NewRat(18, 1)},
		{"x^2", big.NewRat(9, 1)},
		{"x / y", big.NewRat(6, 1)},
		{"-x + 1", big.NewRat(-2, 1)},
		{"2^-1", big.NewRat(1, 2)},
	}
	for _, tc := range cases {
		got, err := mustParse(t, tc.in).Evaluate(vars)
		require.NoError(t, err, "input %q", tc.in)
		assert.Zero(t, tc.want.Cmp(got), "input %q: want %s got %s", tc.in, tc.want, got)
	}
}

func TestEvaluateErrors(t *testing.T) {
	_, err := mustParse(t, "x + 1").Evaluate(nil)
	assert.Error(t, err, "unbound variable")

	_, err = mustParse(t, "1 / 0").Evaluate(nil)
	assert.Error(t, err, "division by zero")
}
