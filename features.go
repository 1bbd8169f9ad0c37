package mathy

// Feature keys serialize nodes for neural consumption: each node becomes a
// [type, value] integer pair. Key 0 is reserved for padding.
const (
	FeaturePadKey = 0

	// Value keys partition into a constant band and a variable band.
	featureValueNone      = 1
	featureConstantBase   = 2
	featureConstantValues = 512
	featureVariableBase   = featureConstantBase + featureConstantValues

	// MaxTypeKey and MaxValueKey bound the key spaces for embedding sizing.
	MaxTypeKey  = int(NodeNegate) + 2
	MaxValueKey = featureVariableBase + 26
)

// TypeKey maps a node type into [1, MaxTypeKey).
func TypeKey(t NodeType) int { return int(t) + 1 }

// ValueKey maps a node's payload into [1, MaxValueKey): constants bucket by
// integer magnitude, variables by first letter, operators share a single
// key.
func ValueKey(n *Node) int {
	switch n.kind {
	case NodeConstant:
		v := n.value.Num().Int64()
		if v < 0 {
			v = -v
		}
		return featureConstantBase + int(v%featureConstantValues)
	case NodeVariable:
		if n.name == "" {
			return featureValueNone
		}
		c := n.name[0]
		if c >= 'a' && c <= 'z' {
			return featureVariableBase + int(c-'a')
		}
		return featureVariableBase
	}
	return featureValueNone
}

// Features is the serialized view of a State for an external model: one
// [TypeKey, ValueKey] row per node in preorder, plus scalar context.
type Features struct {
	Nodes     [][2]int
	NodeCount int
	Turn      int
	LastRule  string // rule code of the last step, "" at episode start
}

// StateFeatures serializes the current tree. Rows follow preorder, so row
// indices line up with action node indices.
func StateFeatures(s *State) Features {
	f := Features{Turn: s.Turn}
	s.Root.WalkPreorder(func(n *Node) bool {
		f.Nodes = append(f.Nodes, [2]int{TypeKey(n.kind), ValueKey(n)})
		return true
	})
	f.NodeCount = len(f.Nodes)
	if last := s.History[len(s.History)-1]; last.RuleCode != "" {
		f.LastRule = last.RuleCode
	}
	return f
}
