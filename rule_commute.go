package mathy

import "fmt"

// CommutativeSwap exchanges the operands of an addition or multiplication.
// It never changes the value of the tree; it exists so a policy can
// maneuver terms into shapes the other rules recognize.
type CommutativeSwap struct{}

func (CommutativeSwap) Name() string { return "Commutative Swap" }
func (CommutativeSwap) Code() string { return "CC" }

func (CommutativeSwap) CanApplyTo(node *Node) bool {
	return node.kind == NodeAdd || node.kind == NodeMultiply
}

func (r CommutativeSwap) ApplyTo(node *Node) (*Change, error) {
	if !r.CanApplyTo(node) {
		return nil, fmt.Errorf("%w: %s on %q", ErrRuleMisuse, r.Code(), node.String())
	}
	change := newChange(r, node)
	node.left, node.right = node.right, node.left
	change.Focus = node
	return change.Done(node), nil
}
