package mathy

import (
	"fmt"
	"math/big"
)

// Maximum exponent magnitude ConstantsSimplify will fold; larger powers
// stay symbolic.
const maxFoldedExponent = 20

// ConstantsSimplify folds an arithmetic node whose operands are both
// constants into a single constant: 4 + 2 becomes 6.
type ConstantsSimplify struct{}

func (ConstantsSimplify) Name() string { return "Constant Arithmetic" }
func (ConstantsSimplify) Code() string { return "CS" }

func (ConstantsSimplify) fold(node *Node) (*big.Rat, bool) {
	if !node.kind.IsBinary() {
		return nil, false
	}
	l, ok := constantValue(node.left)
	if !ok {
		return nil, false
	}
	r, ok := constantValue(node.right)
	if !ok {
		return nil, false
	}
	switch node.kind {
	case NodeAdd:
		return l.Add(l, r), true
	case NodeSubtract:
		return l.Sub(l, r), true
	case NodeMultiply:
		return l.Mul(l, r), true
	case NodeDivide:
		if r.Sign() == 0 {
			return nil, false
		}
		return l.Quo(l, r), true
	case NodePower:
		if !r.IsInt() {
			return nil, false
		}
		e := r.Num().Int64()
		if e < -maxFoldedExponent || e > maxFoldedExponent {
			return nil, false
		}
		if l.Sign() == 0 && e <= 0 {
			return nil, false
		}
		v, err := ratPow(l, r)
		if err != nil {
			return nil, false
		}
		return v, true
	}
	return nil, false
}

func (r ConstantsSimplify) CanApplyTo(node *Node) bool {
	_, ok := r.fold(node)
	return ok
}

func (r ConstantsSimplify) ApplyTo(node *Node) (*Change, error) {
	v, ok := r.fold(node)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %q", ErrRuleMisuse, r.Code(), node.String())
	}
	change := newChange(r, node).SaveParent()
	result := Const(v)
	change.Focus = result
	return change.Done(result), nil
}
