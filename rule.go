package mathy

// Rule is one symbolic transformation. Rules are stateless: CanApplyTo
// inspects a candidate node without touching it, and ApplyTo rewrites the
// tree in place, returning the Change that records the rewrite.
//
// ApplyTo must only be called on a node CanApplyTo confirmed; calling it on
// an unverified or stale node returns an error wrapping ErrRuleMisuse and
// leaves the tree in an undefined state.
type Rule interface {
	Name() string
	Code() string
	CanApplyTo(node *Node) bool
	ApplyTo(node *Node) (*Change, error)
}

// Rules returns the rule library in action-space order. The set is closed
// and the order is fixed: rule indices in actions depend on it.
func Rules() []Rule {
	return []Rule{
		ConstantsSimplify{},
		DistributiveFactorOut{},
		DistributiveMultiply{},
		CommutativeSwap{},
	}
}

func isAddSubtract(n *Node) bool {
	return n != nil && (n.kind == NodeAdd || n.kind == NodeSubtract)
}
