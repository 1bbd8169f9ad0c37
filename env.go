package mathy

import (
	"fmt"
)

// Status is the lifecycle state of an episode.
type Status int

const (
	StatusActive Status = iota
	StatusSolved
	StatusExhausted
	StatusTimedOut
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusSolved:
		return "solved"
	case StatusExhausted:
		return "exhausted"
	case StatusTimedOut:
		return "timed-out"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Terminal reports whether the episode is over.
func (s Status) Terminal() bool { return s != StatusActive }

// Action identifies one legal rewrite: the rule at RuleIndex in the
// environment's library applied to the node at preorder index NodeIndex.
// Node indices are only valid against the exact tree they were enumerated
// from; re-enumerate after every mutation.
type Action struct {
	RuleIndex int
	NodeIndex int
}

// EnvConfig tunes episode length and the reward signal. The core only
// promises the signal is deterministic and monotone: reward decreases with
// every wasted turn and is maximal at solved termination.
type EnvConfig struct {
	MaxTurns       int
	RewardSolved   float64
	RewardFailure  float64
	RewardTimestep float64
}

// DefaultConfig mirrors the conventional tuning: win +1, loss -1, and a
// small per-turn cost.
func DefaultConfig() EnvConfig {
	return EnvConfig{
		MaxTurns:       20,
		RewardSolved:   1.0,
		RewardFailure:  -1.0,
		RewardTimestep: -0.01,
	}
}

// Env owns the rule library and episode configuration. It is stateless
// across episodes; all per-episode data lives in State.
type Env struct {
	rules  []Rule
	config EnvConfig
}

func NewEnv(config EnvConfig) *Env {
	if config.MaxTurns <= 0 {
		config.MaxTurns = DefaultConfig().MaxTurns
	}
	return &Env{rules: Rules(), config: config}
}

// Rules returns the library in action-space order.
func (e *Env) Rules() []Rule { return e.rules }

// Config returns the episode configuration.
func (e *Env) Config() EnvConfig { return e.config }

// StepRecord is the compact history entry kept per accepted action.
type StepRecord struct {
	Raw      string // expression text after the step
	RuleCode string // "" for the initial record
	Focus    int    // preorder index of the focus node, -1 when absent
}

// State is one episode: the live tree, the original problem text, the
// per-step history, and the turn counter. A State has a single writer;
// branching search must Clone first.
type State struct {
	Root    *Node
	Problem string
	Turn    int
	History []StepRecord

	// LastChange is the change record of the most recent step. It points
	// into the live tree and is not carried across Clone.
	LastChange *Change
}

// NewState parses problem text into a fresh episode at turn zero.
func (e *Env) NewState(problem string) (*State, error) {
	root, err := Parse(problem)
	if err != nil {
		return nil, err
	}
	return &State{
		Root:    root,
		Problem: problem,
		History: []StepRecord{{Raw: root.String(), Focus: -1}},
	}, nil
}

// Clone produces an independent copy of the state for branching search.
// The tree is deep-copied; the history is copied; LastChange is dropped.
func (s *State) Clone() *State {
	return &State{
		Root:    s.Root.Clone(),
		Problem: s.Problem,
		Turn:    s.Turn,
		History: append([]StepRecord(nil), s.History...),
	}
}

// Actions enumerates the legal action set: every (rule, node) pair whose
// rule reports applicability, with nodes indexed in preorder.
func (e *Env) Actions(s *State) []Action {
	var out []Action
	nodes := s.Root.PreorderNodes()
	for ri, rule := range e.rules {
		for ni, node := range nodes {
			if rule.CanApplyTo(node) {
				out = append(out, Action{RuleIndex: ri, NodeIndex: ni})
			}
		}
	}
	return out
}

// Status evaluates the episode's lifecycle state. Solved takes priority
// over the failure terminals.
func (e *Env) Status(s *State) Status {
	if IsSimplified(s.Root) {
		return StatusSolved
	}
	if len(e.Actions(s)) == 0 {
		return StatusExhausted
	}
	if s.Turn >= e.config.MaxTurns {
		return StatusTimedOut
	}
	return StatusActive
}

// Transition is the outcome of one accepted action.
type Transition struct {
	Status Status
	Reward float64
	Change *Change
}

// Step applies an action to the state in place: the node is re-located by
// preorder index, applicability is re-validated against the live tree, the
// rule rewrites, and the turn advances. Stepping a terminal episode or an
// out-of-set action returns an error wrapping ErrInvalidAction and leaves
// the state untouched; a rule failure after validation wraps ErrRuleMisuse
// and poisons the state — discard it.
func (e *Env) Step(s *State, a Action) (Transition, error) {
	if status := e.Status(s); status.Terminal() {
		return Transition{}, fmt.Errorf("%w: episode is %s", ErrInvalidAction, status)
	}
	if a.RuleIndex < 0 || a.RuleIndex >= len(e.rules) {
		return Transition{}, fmt.Errorf("%w: rule index %d", ErrInvalidAction, a.RuleIndex)
	}
	rule := e.rules[a.RuleIndex]
	node := s.Root.NodeAt(a.NodeIndex)
	if node == nil {
		return Transition{}, fmt.Errorf("%w: node index %d of %d", ErrInvalidAction, a.NodeIndex, s.Root.Count())
	}
	if !rule.CanApplyTo(node) {
		return Transition{}, fmt.Errorf("%w: %s at node %d %q", ErrInvalidAction, rule.Code(), a.NodeIndex, node.String())
	}

	change, err := rule.ApplyTo(node)
	if err != nil {
		return Transition{}, err
	}
	s.Root = change.After.Root()
	s.Turn++
	s.LastChange = change
	s.History = append(s.History, StepRecord{
		Raw:      s.Root.String(),
		RuleCode: rule.Code(),
		Focus:    s.focusIndex(change.Focus),
	})

	status := e.Status(s)
	return Transition{Status: status, Reward: e.reward(status), Change: change}, nil
}

func (s *State) focusIndex(focus *Node) int {
	if focus == nil {
		return -1
	}
	idx := -1
	i := 0
	s.Root.WalkPreorder(func(n *Node) bool {
		if n == focus {
			idx = i
			return false
		}
		i++
		return true
	})
	return idx
}

func (e *Env) reward(status Status) float64 {
	switch status {
	case StatusSolved:
		return e.config.RewardSolved
	case StatusExhausted, StatusTimedOut:
		return e.config.RewardFailure
	}
	return e.config.RewardTimestep
}
