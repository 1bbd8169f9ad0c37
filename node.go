// Package mathy is a term-rewriting engine over algebraic expression trees.
//
// The package provides a mutable, parent-linked expression tree, a term
// model for coefficient*variable^exponent subtrees, a library of symbolic
// transformation rules, and an environment state machine that applies a
// (rule, node) action per turn and reports reward and termination. All
// arithmetic is exact rational (math/big.Rat).
//
// The core is single-threaded: one goroutine owns one State at a time, and
// search that branches into several futures must Clone before mutating.
package mathy

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// NodeType tags the variant of an expression node.
type NodeType int

const (
	NodeConstant NodeType = iota
	NodeVariable
	NodeAdd
	NodeSubtract
	NodeMultiply
	NodeDivide
	NodePower
	NodeNegate
)

func (t NodeType) String() string {
	switch t {
	case NodeConstant:
		return "const"
	case NodeVariable:
		return "var"
	case NodeAdd:
		return "add"
	case NodeSubtract:
		return "sub"
	case NodeMultiply:
		return "mul"
	case NodeDivide:
		return "div"
	case NodePower:
		return "pow"
	case NodeNegate:
		return "neg"
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// IsBinary reports whether nodes of this type carry left and right children.
func (t NodeType) IsBinary() bool {
	switch t {
	case NodeAdd, NodeSubtract, NodeMultiply, NodeDivide, NodePower:
		return true
	}
	return false
}

// Node is one vertex of an expression tree. Exactly one node in a tree has
// a nil parent (the root); every other node's parent owns it through its
// left or right slot. Negate is unary and stores its operand in left.
type Node struct {
	kind   NodeType
	value  *big.Rat // NodeConstant only
	name   string   // NodeVariable only
	parent *Node
	left   *Node
	right  *Node
}

// Const builds a constant node. The value is copied.
func Const(v *big.Rat) *Node {
	return &Node{kind: NodeConstant, value: new(big.Rat).Set(v)}
}

// ConstInt builds a constant node from an integer.
func ConstInt(n int64) *Node {
	return &Node{kind: NodeConstant, value: new(big.Rat).SetInt64(n)}
}

// Var builds a variable node.
func Var(name string) *Node {
	return &Node{kind: NodeVariable, name: name}
}

func newBinary(kind NodeType, left, right *Node) *Node {
	n := &Node{kind: kind}
	n.left = left
	n.right = right
	if left != nil {
		left.parent = n
	}
	if right != nil {
		right.parent = n
	}
	return n
}

func NewAdd(left, right *Node) *Node      { return newBinary(NodeAdd, left, right) }
func NewSubtract(left, right *Node) *Node { return newBinary(NodeSubtract, left, right) }
func NewMultiply(left, right *Node) *Node { return newBinary(NodeMultiply, left, right) }
func NewDivide(left, right *Node) *Node   { return newBinary(NodeDivide, left, right) }
func NewPower(left, right *Node) *Node    { return newBinary(NodePower, left, right) }

// NewNegate builds a unary negation of child.
func NewNegate(child *Node) *Node {
	n := &Node{kind: NodeNegate, left: child}
	if child != nil {
		child.parent = n
	}
	return n
}

// Type returns the node's variant tag.
func (n *Node) Type() NodeType { return n.kind }

// Value returns a copy of a constant node's value, or nil for other kinds.
func (n *Node) Value() *big.Rat {
	if n.kind != NodeConstant {
		return nil
	}
	return new(big.Rat).Set(n.value)
}

// Name returns a variable node's name, or "" for other kinds.
func (n *Node) Name() string { return n.name }

func (n *Node) Parent() *Node { return n.parent }
func (n *Node) Left() *Node   { return n.left }
func (n *Node) Right() *Node  { return n.right }

// Child returns a Negate node's operand.
func (n *Node) Child() *Node {
	if n.kind != NodeNegate {
		return nil
	}
	return n.left
}

// SetLeft replaces the left child slot. The new child's parent pointer is
// set to n; the previous occupant's parent pointer is cleared. A nil child
// empties the slot.
func (n *Node) SetLeft(child *Node) error {
	if !n.kind.IsBinary() {
		return fmt.Errorf("%w: SetLeft on %s node", ErrStructure, n.kind)
	}
	n.attach(&n.left, child)
	return nil
}

// SetRight replaces the right child slot. See SetLeft.
func (n *Node) SetRight(child *Node) error {
	if !n.kind.IsBinary() {
		return fmt.Errorf("%w: SetRight on %s node", ErrStructure, n.kind)
	}
	n.attach(&n.right, child)
	return nil
}

// SetChild replaces a Negate node's operand. See SetLeft.
func (n *Node) SetChild(child *Node) error {
	if n.kind != NodeNegate {
		return fmt.Errorf("%w: SetChild on %s node", ErrStructure, n.kind)
	}
	n.attach(&n.left, child)
	return nil
}

func (n *Node) attach(slot **Node, child *Node) {
	if *slot != nil {
		(*slot).parent = nil
	}
	*slot = child
	if child != nil {
		child.parent = n
	}
}

// Unlink detaches n from its parent, clearing the parent's child slot and
// n's own parent pointer. Children are untouched. Returns n so splices can
// chain. Unlinking the root is a no-op.
func (n *Node) Unlink() *Node {
	p := n.parent
	if p == nil {
		return n
	}
	if p.left == n {
		p.left = nil
	}
	if p.right == n {
		p.right = nil
	}
	n.parent = nil
	return n
}

// Root walks parent links up to the tree's root.
func (n *Node) Root() *Node {
	cur := n
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Clone deep-copies the subtree rooted at n. The copy shares no state with
// the original and its root has a nil parent.
func (n *Node) Clone() *Node {
	c := &Node{kind: n.kind, name: n.name}
	if n.value != nil {
		c.value = new(big.Rat).Set(n.value)
	}
	if n.left != nil {
		c.left = n.left.Clone()
		c.left.parent = c
	}
	if n.right != nil {
		c.right = n.right.Clone()
		c.right.parent = c
	}
	return c
}

// WalkPreorder visits n and then its children, left before right. The walk
// stops early when fn returns false. Restart by calling again.
func (n *Node) WalkPreorder(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	if n.left != nil && !n.left.WalkPreorder(fn) {
		return false
	}
	if n.right != nil && !n.right.WalkPreorder(fn) {
		return false
	}
	return true
}

// WalkInorder visits the left subtree, then n, then the right subtree.
// Unary Negate visits n before its operand.
func (n *Node) WalkInorder(fn func(*Node) bool) bool {
	if n.kind != NodeNegate && n.left != nil && !n.left.WalkInorder(fn) {
		return false
	}
	if !fn(n) {
		return false
	}
	if n.kind == NodeNegate && n.left != nil && !n.left.WalkInorder(fn) {
		return false
	}
	if n.right != nil && !n.right.WalkInorder(fn) {
		return false
	}
	return true
}

// PreorderNodes collects the subtree's nodes in preorder. The indices into
// the returned slice are the node indices of the action space and are only
// valid until the next mutation.
func (n *Node) PreorderNodes() []*Node {
	var out []*Node
	n.WalkPreorder(func(c *Node) bool {
		out = append(out, c)
		return true
	})
	return out
}

// NodeAt returns the preorder node at index i, or nil when out of range.
func (n *Node) NodeAt(i int) *Node {
	if i < 0 {
		return nil
	}
	var found *Node
	idx := 0
	n.WalkPreorder(func(c *Node) bool {
		if idx == i {
			found = c
			return false
		}
		idx++
		return true
	})
	return found
}

// Count returns the number of nodes in the subtree.
func (n *Node) Count() int {
	count := 0
	n.WalkPreorder(func(*Node) bool {
		count++
		return true
	})
	return count
}

// Precedence levels for canonical printing. Higher binds tighter.
const (
	precAddSub = 1
	precNegate = 2
	precMulDiv = 3
	precPower  = 4
	precLeaf   = 5
)

func (t NodeType) precedence() int {
	switch t {
	case NodeAdd, NodeSubtract:
		return precAddSub
	case NodeNegate:
		return precNegate
	case NodeMultiply, NodeDivide:
		return precMulDiv
	case NodePower:
		return precPower
	}
	return precLeaf
}

// String renders the canonical infix form with minimal parenthesization.
// Coefficient-times-variable products print without an explicit operator,
// e.g. "4x" and "2x^2".
func (n *Node) String() string {
	var sb strings.Builder
	n.format(&sb)
	return sb.String()
}

func (n *Node) format(sb *strings.Builder) {
	switch n.kind {
	case NodeConstant:
		sb.WriteString(ratString(n.value))
	case NodeVariable:
		sb.WriteString(n.name)
	case NodeNegate:
		sb.WriteString("-")
		n.formatChild(sb, n.left, false)
	case NodePower:
		n.formatChild(sb, n.left, false)
		sb.WriteString("^")
		n.formatChild(sb, n.right, true)
	case NodeMultiply:
		if n.isImplicitProduct() {
			n.left.format(sb)
			n.right.format(sb)
			return
		}
		n.formatChild(sb, n.left, false)
		sb.WriteString(" * ")
		n.formatChild(sb, n.right, true)
	default:
		n.formatChild(sb, n.left, false)
		switch n.kind {
		case NodeAdd:
			sb.WriteString(" + ")
		case NodeSubtract:
			sb.WriteString(" - ")
		case NodeDivide:
			sb.WriteString(" / ")
		}
		n.formatChild(sb, n.right, true)
	}
}

// isImplicitProduct reports whether a Multiply prints as a juxtaposed term
// like "4x" or "4x^2": a non-negative constant coefficient directly against
// a variable or a variable power.
func (n *Node) isImplicitProduct() bool {
	if n.kind != NodeMultiply || n.left == nil || n.right == nil {
		return false
	}
	if n.left.kind != NodeConstant || n.left.value.Sign() < 0 || !n.left.value.IsInt() {
		return false
	}
	r := n.right
	if r.kind == NodeVariable {
		return true
	}
	return r.kind == NodePower && r.left != nil && r.left.kind == NodeVariable &&
		r.right != nil && r.right.kind == NodeConstant && r.right.value.Sign() >= 0
}

func (n *Node) formatChild(sb *strings.Builder, child *Node, rightSide bool) {
	if child == nil {
		sb.WriteString("?")
		return
	}
	parens := false
	cp := child.kind.precedence()
	pp := n.kind.precedence()
	switch {
	case cp < pp:
		parens = true
	case cp == pp && rightSide && (n.kind == NodeSubtract || n.kind == NodeDivide):
		// Left-associative operators need parens around structured right
		// operands: a - (b - c).
		parens = true
	case n.kind == NodePower && !rightSide && cp == pp:
		// Power is right-associative: (a^b)^c keeps its parens.
		parens = true
	case n.kind == NodePower && !rightSide && child.kind == NodeConstant && child.value.Sign() < 0:
		parens = true
	}
	if parens {
		sb.WriteString("(")
		child.format(sb)
		sb.WriteString(")")
		return
	}
	child.format(sb)
}

func ratString(v *big.Rat) string {
	if v.IsInt() {
		return v.Num().String()
	}
	return v.RatString()
}

// Evaluate computes the subtree's numeric value with variables bound by
// vars. Division by zero, unbound variables, and non-finite power results
// are errors. Integer exponents evaluate exactly; fractional exponents fall
// back to float64.
func (n *Node) Evaluate(vars map[string]*big.Rat) (*big.Rat, error) {
	switch n.kind {
	case NodeConstant:
		return new(big.Rat).Set(n.value), nil
	case NodeVariable:
		v, ok := vars[n.name]
		if !ok {
			return nil, fmt.Errorf("evaluate: unbound variable %q", n.name)
		}
		return new(big.Rat).Set(v), nil
	case NodeNegate:
		v, err := n.left.Evaluate(vars)
		if err != nil {
			return nil, err
		}
		return v.Neg(v), nil
	}

	l, err := n.left.Evaluate(vars)
	if err != nil {
		return nil, err
	}
	r, err := n.right.Evaluate(vars)
	if err != nil {
		return nil, err
	}
	switch n.kind {
	case NodeAdd:
		return l.Add(l, r), nil
	case NodeSubtract:
		return l.Sub(l, r), nil
	case NodeMultiply:
		return l.Mul(l, r), nil
	case NodeDivide:
		if r.Sign() == 0 {
			return nil, fmt.Errorf("evaluate: division by zero")
		}
		return l.Quo(l, r), nil
	case NodePower:
		return ratPow(l, r)
	}
	return nil, fmt.Errorf("evaluate: unhandled node type %s", n.kind)
}

func ratPow(base, exp *big.Rat) (*big.Rat, error) {
	if exp.IsInt() {
		e := exp.Num().Int64()
		if e == 0 {
			return new(big.Rat).SetInt64(1), nil
		}
		neg := e < 0
		if neg {
			e = -e
		}
		out := new(big.Rat).SetInt64(1)
		for i := int64(0); i < e; i++ {
			out.Mul(out, base)
		}
		if neg {
			if out.Sign() == 0 {
				return nil, fmt.Errorf("evaluate: zero to a negative power")
			}
			out.Inv(out)
		}
		return out, nil
	}
	bf, _ := base.Float64()
	ef, _ := exp.Float64()
	pf := math.Pow(bf, ef)
	if math.IsNaN(pf) || math.IsInf(pf, 0) {
		return nil, fmt.Errorf("evaluate: %g^%g is not finite", bf, ef)
	}
	return new(big.Rat).SetFloat64(pf), nil
}
