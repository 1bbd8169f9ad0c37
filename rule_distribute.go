package mathy

import "fmt"

// DistributiveMultiply applies the a(b + c) = ab + ac direction of the
// distributive property, expanding a product of a term and a +/- group.
// It is the inverse of DistributiveFactorOut.
type DistributiveMultiply struct{}

func (DistributiveMultiply) Name() string { return "Distributive Multiply" }
func (DistributiveMultiply) Code() string { return "DM" }

// operands splits a candidate product into the +/- group and the factor.
// Exactly one side must be a +/- node; the other must be a term.
func (DistributiveMultiply) operands(node *Node) (group, factor *Node, groupLeft, ok bool) {
	if node.kind != NodeMultiply {
		return nil, nil, false, false
	}
	switch {
	case isAddSubtract(node.left) && !isAddSubtract(node.right):
		group, factor, groupLeft = node.left, node.right, true
	case isAddSubtract(node.right) && !isAddSubtract(node.left):
		group, factor, groupLeft = node.right, node.left, false
	default:
		return nil, nil, false, false
	}
	if _, isTerm := GetTerm(factor); !isTerm {
		return nil, nil, false, false
	}
	return group, factor, groupLeft, true
}

func (r DistributiveMultiply) CanApplyTo(node *Node) bool {
	_, _, _, ok := r.operands(node)
	return ok
}

func (r DistributiveMultiply) ApplyTo(node *Node) (*Change, error) {
	group, factor, groupLeft, ok := r.operands(node)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %q", ErrRuleMisuse, r.Code(), node.String())
	}
	change := newChange(r, node).SaveParent()

	b := group.left
	c := group.right
	var lhs, rhs *Node
	if groupLeft {
		// (b + c) * a -> b*a + c*a
		lhs = NewMultiply(b, factor.Clone())
		rhs = NewMultiply(c, factor.Clone())
	} else {
		// a * (b + c) -> a*b + a*c
		lhs = NewMultiply(factor.Clone(), b)
		rhs = NewMultiply(factor.Clone(), c)
	}
	var result *Node
	if group.kind == NodeAdd {
		result = NewAdd(lhs, rhs)
	} else {
		result = NewSubtract(lhs, rhs)
	}
	change.Focus = result
	return change.Done(result), nil
}
