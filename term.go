package mathy

import (
	"math/big"
	"sort"
	"strings"
)

// Term is a derived view of a subtree shaped like coefficient * variable ^
// exponent: a bare constant, a bare variable, or a multiply/power chain over
// them. It is never stored in the tree.
type Term struct {
	Coefficient *big.Rat
	Variables   []string // in discovery order; may repeat
	Exponent    *big.Rat // nil when no exponent is written
}

// Variable returns the term's single variable name, or "" for constants.
func (t Term) Variable() string {
	if len(t.Variables) == 0 {
		return ""
	}
	return t.Variables[0]
}

// String renders the term the way MakeTerm would build it.
func (t Term) String() string {
	return MakeTerm(t.Coefficient, t.Variable(), t.Exponent).String()
}

// GetTerm matches node against term shape. Absence of a match is the
// common case and is reported through the bool, not an error.
func GetTerm(node *Node) (Term, bool) {
	t := Term{Coefficient: new(big.Rat).SetInt64(1)}
	if !collectTerm(node, &t) {
		return Term{}, false
	}
	return t, true
}

func collectTerm(n *Node, t *Term) bool {
	switch n.kind {
	case NodeConstant:
		t.Coefficient.Mul(t.Coefficient, n.value)
		return true
	case NodeVariable:
		t.Variables = append(t.Variables, n.name)
		return true
	case NodeNegate:
		t.Coefficient.Neg(t.Coefficient)
		return collectTerm(n.left, t)
	case NodePower:
		if n.left.kind != NodeVariable {
			return false
		}
		exp, ok := constantValue(n.right)
		if !ok {
			return false
		}
		if t.Exponent != nil {
			// A second exponent means this is no simple term.
			return false
		}
		t.Variables = append(t.Variables, n.left.name)
		t.Exponent = exp
		return true
	case NodeMultiply:
		return collectTerm(n.left, t) && collectTerm(n.right, t)
	}
	return false
}

// constantValue reads a Constant or Negate(Constant) node.
func constantValue(n *Node) (*big.Rat, bool) {
	switch n.kind {
	case NodeConstant:
		return new(big.Rat).Set(n.value), true
	case NodeNegate:
		if n.left != nil && n.left.kind == NodeConstant {
			return new(big.Rat).Neg(n.left.value), true
		}
	}
	return nil, false
}

// TermsAreLike reports whether two terms share variable identity and
// exponent. Constants are like each other.
func TermsAreLike(a, b Term) bool {
	if len(a.Variables) != len(b.Variables) {
		return false
	}
	av := append([]string(nil), a.Variables...)
	bv := append([]string(nil), b.Variables...)
	sort.Strings(av)
	sort.Strings(bv)
	if strings.Join(av, ",") != strings.Join(bv, ",") {
		return false
	}
	return ratEqual(normalExponent(a.Exponent), normalExponent(b.Exponent))
}

func ratEqual(a, b *big.Rat) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Cmp(b) == 0
}

// normalExponent canonicalizes an exponent: the default exponent of one,
// written or not, is nil. "x^1" and "x" carry the same term.
func normalExponent(v *big.Rat) *big.Rat {
	if v == nil || v.Cmp(big.NewRat(1, 1)) == 0 {
		return nil
	}
	return new(big.Rat).Set(v)
}

// TermFactors is the result of a greatest-common-style factoring split of
// two like terms: Best (with Variable/Exponent when the variable itself is
// the factor) times the residual left/right terms reconstructs the inputs.
type TermFactors struct {
	Best     *big.Rat
	Variable string
	Exponent *big.Rat

	Left         *big.Rat
	LeftVariable string
	LeftExponent *big.Rat

	Right         *big.Rat
	RightVariable string
	RightExponent *big.Rat
}

// FactorTerms computes the factoring split of two like terms.
//
// With an integer coefficient gcd greater than one the gcd is the factor
// and the shared variable stays with the residuals: 2x, 4x -> 2 * (x, 2x).
// With gcd one but a shared variable, the variable is the factor and the
// residuals are bare coefficients: x, 2x -> x * (1, 2). No factor exists
// when the terms are unlike, span several variables, or share nothing but
// the multiplicative identity.
func FactorTerms(a, b Term) (TermFactors, bool) {
	if !TermsAreLike(a, b) {
		return TermFactors{}, false
	}
	if len(a.Variables) > 1 {
		return TermFactors{}, false
	}
	variable := a.Variable()
	best := ratGCD(a.Coefficient, b.Coefficient)
	one := new(big.Rat).SetInt64(1)

	if best.Cmp(one) == 0 {
		if variable == "" {
			return TermFactors{}, false
		}
		return TermFactors{
			Best:     one,
			Variable: variable,
			Exponent: normalExponent(a.Exponent),
			Left:     new(big.Rat).Set(a.Coefficient),
			Right:    new(big.Rat).Set(b.Coefficient),
		}, true
	}
	return TermFactors{
		Best:          best,
		Left:          new(big.Rat).Quo(a.Coefficient, best),
		LeftVariable:  variable,
		LeftExponent:  normalExponent(a.Exponent),
		Right:         new(big.Rat).Quo(b.Coefficient, best),
		RightVariable: variable,
		RightExponent: normalExponent(b.Exponent),
	}, true
}

// ratGCD returns the greatest common integer factor of two rationals'
// absolute values, or one when either is not an integer.
func ratGCD(a, b *big.Rat) *big.Rat {
	if !a.IsInt() || !b.IsInt() {
		return new(big.Rat).SetInt64(1)
	}
	x := new(big.Int).Abs(a.Num())
	y := new(big.Int).Abs(b.Num())
	g := new(big.Int).GCD(nil, nil, x, y)
	if g.Sign() == 0 {
		return new(big.Rat).SetInt64(1)
	}
	return new(big.Rat).SetInt(g)
}

// MakeTerm builds the minimal subtree for coefficient * variable ^
// exponent. A unit coefficient and unit exponent are elided; a zero
// coefficient or empty variable collapses to a constant.
func MakeTerm(coefficient *big.Rat, variable string, exponent *big.Rat) *Node {
	one := new(big.Rat).SetInt64(1)
	if coefficient.Sign() == 0 || variable == "" {
		return Const(coefficient)
	}
	base := Var(variable)
	var node *Node = base
	if exponent != nil && exponent.Cmp(one) != 0 {
		node = NewPower(base, Const(exponent))
	}
	if coefficient.Cmp(one) == 0 {
		return node
	}
	return NewMultiply(Const(coefficient), node)
}

// IsSimplified reports whether the tree is in preferred term form: a single
// term, or a +/- combination of pairwise-unlike terms. This is the solved
// condition of the environment.
func IsSimplified(root *Node) bool {
	if _, ok := GetTerm(root); ok {
		return true
	}
	terms, ok := spineTerms(root)
	if !ok {
		return false
	}
	for i := range terms {
		for j := i + 1; j < len(terms); j++ {
			if TermsAreLike(terms[i], terms[j]) {
				return false
			}
		}
	}
	return true
}

// spineTerms flattens a +/- spine into its leaf terms. It fails when any
// leaf is not term-shaped.
func spineTerms(n *Node) ([]Term, bool) {
	if n.kind == NodeAdd || n.kind == NodeSubtract {
		left, ok := spineTerms(n.left)
		if !ok {
			return nil, false
		}
		right, ok := spineTerms(n.right)
		if !ok {
			return nil, false
		}
		return append(left, right...), true
	}
	t, ok := GetTerm(n)
	if !ok {
		return nil, false
	}
	return []Term{t}, true
}
