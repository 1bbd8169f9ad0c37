// Package gym wraps the core rewrite environment in the reset/step/render
// shape reinforcement-learning agents expect: a flat masked action space,
// serialized observations, and per-episode identifiers.
package gym

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hcronin02/mathy"
)

// DefaultMaxNodes bounds the tree size the flat action space can address.
// Trees in scope stay well under this; actions beyond the live node count
// are masked off.
const DefaultMaxNodes = 64

// Option configures an Env.
type Option func(*Env)

// WithLogger attaches a structured logger for episode traces.
func WithLogger(log *zap.Logger) Option {
	return func(e *Env) { e.log = log }
}

// WithSeed seeds the problem generator.
func WithSeed(seed int64) Option {
	return func(e *Env) { e.seed = seed }
}

// WithMaxTurns overrides the episode turn limit.
func WithMaxTurns(n int) Option {
	return func(e *Env) { e.config.MaxTurns = n }
}

// WithProblem pins every episode to one fixed problem instead of sampling
// from the generator.
func WithProblem(text string) Option {
	return func(e *Env) { e.problem = text }
}

// WithGenerator replaces the default problem generator.
func WithGenerator(g *mathy.ProblemGenerator) Option {
	return func(e *Env) { e.gen = g }
}

// WithMaxNodes resizes the flat action space.
func WithMaxNodes(n int) Option {
	return func(e *Env) { e.maxNodes = n }
}

// Observation is what an agent sees after Reset or Step.
type Observation struct {
	EpisodeID string
	Problem   string
	Features  mathy.Features
	Mask      []bool
}

// Env is the agent-facing wrapper. Flat actions decode as
// ruleIndex*maxNodes + nodeIndex. Not safe for concurrent use.
type Env struct {
	core     *mathy.Env
	config   mathy.EnvConfig
	space    *MaskedDiscrete
	log      *zap.Logger
	gen      *mathy.ProblemGenerator
	seed     int64
	problem  string
	maxNodes int

	state     *mathy.State
	episodeID string
}

func NewEnv(opts ...Option) *Env {
	e := &Env{
		config:   mathy.DefaultConfig(),
		log:      zap.NewNop(),
		maxNodes: DefaultMaxNodes,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.core = mathy.NewEnv(e.config)
	if e.gen == nil {
		e.gen = mathy.NewProblemGenerator(e.seed, mathy.DefaultProblemConfig())
	}
	e.space = NewMaskedDiscrete(len(e.core.Rules()) * e.maxNodes)
	return e
}

// ActionSpace exposes the masked discrete space; the mask always reflects
// the most recent observation.
func (e *Env) ActionSpace() *MaskedDiscrete { return e.space }

// State exposes the live episode state for inspection.
func (e *Env) State() *mathy.State { return e.state }

// Status evaluates the live episode's lifecycle state.
func (e *Env) Status() mathy.Status {
	if e.state == nil {
		return mathy.StatusActive
	}
	return e.core.Status(e.state)
}

// Reset begins a new episode and returns its first observation.
func (e *Env) Reset() (Observation, error) {
	problem := e.problem
	if problem == "" {
		problem = e.gen.Generate()
	}
	state, err := e.core.NewState(problem)
	if err != nil {
		return Observation{}, err
	}
	e.state = state
	e.episodeID = uuid.NewString()
	e.refreshMask()
	e.log.Info("episode start",
		zap.String("episode", e.episodeID),
		zap.String("problem", problem),
	)
	return e.observe(), nil
}

// Step applies a flat action. Illegal actions return an error wrapping
// mathy.ErrInvalidAction without advancing the episode.
func (e *Env) Step(action int) (Observation, float64, bool, error) {
	if e.state == nil {
		return Observation{}, 0, false, fmt.Errorf("%w: step before reset", mathy.ErrInvalidAction)
	}
	if !e.space.Contains(action) {
		return Observation{}, 0, false, fmt.Errorf("%w: flat action %d", mathy.ErrInvalidAction, action)
	}
	a := mathy.Action{
		RuleIndex: action / e.maxNodes,
		NodeIndex: action % e.maxNodes,
	}
	tr, err := e.core.Step(e.state, a)
	if err != nil {
		return Observation{}, 0, false, err
	}
	e.refreshMask()
	done := tr.Status.Terminal()
	e.log.Debug("step",
		zap.String("episode", e.episodeID),
		zap.String("rule", tr.Change.Rule.Code()),
		zap.String("expression", e.state.Root.String()),
		zap.Float64("reward", tr.Reward),
		zap.Stringer("status", tr.Status),
	)
	if done {
		e.log.Info("episode end",
			zap.String("episode", e.episodeID),
			zap.Stringer("status", tr.Status),
			zap.Int("turns", e.state.Turn),
			zap.String("expression", e.state.Root.String()),
		)
	}
	return e.observe(), tr.Reward, done, nil
}

// Render returns the terminal view of the current step.
func (e *Env) Render() string {
	if e.state == nil {
		return ""
	}
	return mathy.RenderState(e.state)
}

func (e *Env) refreshMask() {
	actions := e.core.Actions(e.state)
	flat := make([]int, 0, len(actions))
	for _, a := range actions {
		if a.NodeIndex >= e.maxNodes {
			continue
		}
		flat = append(flat, a.RuleIndex*e.maxNodes+a.NodeIndex)
	}
	e.space.SetMask(flat)
}

func (e *Env) observe() Observation {
	return Observation{
		EpisodeID: e.episodeID,
		Problem:   e.state.Problem,
		Features:  mathy.StateFeatures(e.state),
		Mask:      e.space.Mask(),
	}
}
