package mathy

import "fmt"

// DistributiveFactorOut applies the ab + ac = a(b + c) direction of the
// distributive property, factoring a common term out of the two operands
// of an addition or subtraction.
//
//	      +               *
//	     / \             / \
//	    *   *    ->     +   a
//	   /|   |\         / \
//	  a b   a c       b   c
//
// Two tree shapes are recognized around a candidate +/- node. Natural: both
// operands are terms. Surrounded: the left operand is itself a +/- whose
// right child is a term, so the matching term sits one level down; the
// factored product replaces that buried term and the inner +/- node is
// hoisted into the candidate's place.
type DistributiveFactorOut struct{}

func (DistributiveFactorOut) Name() string { return "Distributive Factoring" }
func (DistributiveFactorOut) Code() string { return "DF" }

type factorPosition int

const (
	positionNone factorPosition = iota
	positionNatural
	positionSurrounded
)

func (DistributiveFactorOut) position(node *Node) factorPosition {
	// The right operand must be a bare term: this bounds the match to one
	// level of lookahead per candidate node.
	if !isAddSubtract(node) || isAddSubtract(node.right) {
		return positionNone
	}
	if isAddSubtract(node.left) {
		return positionSurrounded
	}
	return positionNatural
}

// terms extracts the two candidate terms for the detected configuration.
func (r DistributiveFactorOut) terms(node *Node, pos factorPosition) (left, right Term, ok bool) {
	leftInterest := node.left
	if pos == positionSurrounded {
		leftInterest = node.left.right
	}
	if leftInterest == nil || node.right == nil {
		return Term{}, Term{}, false
	}
	left, ok = GetTerm(leftInterest)
	if !ok {
		return Term{}, Term{}, false
	}
	right, ok = GetTerm(node.right)
	if !ok {
		return Term{}, Term{}, false
	}
	return left, right, true
}

func (r DistributiveFactorOut) CanApplyTo(node *Node) bool {
	pos := r.position(node)
	if pos == positionNone {
		return false
	}
	left, right, ok := r.terms(node, pos)
	if !ok {
		return false
	}
	// Terms spanning several variables, e.g. "4z + 84xz", are not factored.
	if len(left.Variables) > 1 || len(right.Variables) > 1 {
		return false
	}
	// FactorTerms refuses unlike terms and the bare identity factor, so a
	// true result here is always a useful rewrite.
	_, ok = FactorTerms(left, right)
	return ok
}

func (r DistributiveFactorOut) ApplyTo(node *Node) (*Change, error) {
	pos := r.position(node)
	if pos == positionNone {
		return nil, fmt.Errorf("%w: %s on %q", ErrRuleMisuse, r.Code(), node.String())
	}
	left, right, ok := r.terms(node, pos)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %q", ErrRuleMisuse, r.Code(), node.String())
	}
	if len(left.Variables) > 1 || len(right.Variables) > 1 {
		return nil, fmt.Errorf("%w: %s on %q", ErrRuleMisuse, r.Code(), node.String())
	}
	f, ok := FactorTerms(left, right)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %q", ErrRuleMisuse, r.Code(), node.String())
	}

	a := MakeTerm(f.Best, f.Variable, f.Exponent)
	b := MakeTerm(f.Left, f.LeftVariable, f.LeftExponent)
	c := MakeTerm(f.Right, f.RightVariable, f.RightExponent)

	var inside *Node
	if node.kind == NodeAdd {
		inside = NewAdd(b, c)
	} else {
		inside = NewSubtract(b, c)
	}
	// The extracted factor goes on the right of the product so single-
	// variable factors render next to the closing paren: "(1 + 2) * x".
	result := NewMultiply(inside, a)

	switch pos {
	case positionNatural:
		change := newChange(r, node).SaveParent()
		change.Focus = inside
		return change.Done(result), nil
	default: // positionSurrounded
		change := newChange(r, node)
		parent := node.parent
		wasLeft := parent != nil && parent.left == node
		node.Unlink()
		inner := node.left
		inner.Unlink()
		// The buried term is consumed by the product; splice the product
		// into its slot and hoist the inner +/- over the candidate node.
		if err := inner.SetRight(result); err != nil {
			return nil, err
		}
		if parent != nil {
			var err error
			if wasLeft {
				err = parent.SetLeft(inner)
			} else {
				err = parent.SetRight(inner)
			}
			if err != nil {
				return nil, err
			}
		}
		change.Focus = inside
		return change.Done(result), nil
	}
}
