package mathy

// Change records a single rule application: the rewritten node, a snapshot
// of its subtree before the rewrite, the live replacement subtree, and the
// focus node where inspection and reward shaping should center. A Change is
// created inside ApplyTo and consumed within the same transition.
type Change struct {
	Rule   Rule
	Node   *Node // the node the rule targeted
	Before *Node // detached clone of the subtree before the rewrite
	After  *Node // live subtree the rewrite produced
	Focus  *Node // live node within After

	savedParent *Node
	savedLeft   bool
}

func newChange(r Rule, node *Node) *Change {
	return &Change{Rule: r, Node: node, Before: node.Clone()}
}

// SaveParent records the target node's parent and child side so Done can
// splice the replacement into the same slot.
func (c *Change) SaveParent() *Change {
	c.savedParent = c.Node.parent
	if c.savedParent != nil {
		c.savedLeft = c.savedParent.left == c.Node
	}
	return c
}

// Done finishes the rewrite. When a parent was saved, result replaces the
// target node in that parent's slot (clearing the target's back-reference);
// otherwise result is recorded as-is and the caller finds the new root by
// walking up from it.
func (c *Change) Done(result *Node) *Change {
	if c.savedParent != nil {
		if c.savedLeft {
			c.savedParent.attach(&c.savedParent.left, result)
		} else {
			c.savedParent.attach(&c.savedParent.right, result)
		}
	}
	c.After = result
	return c
}
