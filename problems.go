package mathy

import (
	"fmt"
	"math/rand"
	"strings"
)

// ProblemConfig bounds the shape of generated practice problems.
type ProblemConfig struct {
	MinTerms  int // at least 2
	MaxTerms  int
	Variables int // size of the variable pool, at least 1
	// PowerChance is the probability a variable term carries a ^2.
	PowerChance float64
}

func DefaultProblemConfig() ProblemConfig {
	return ProblemConfig{MinTerms: 2, MaxTerms: 4, Variables: 2, PowerChance: 0}
}

var problemVariablePool = []string{"x", "y", "z", "a", "b", "c", "m", "n"}

// ProblemGenerator emits like-term combination problems such as
// "4x + 2x + 7y". Every problem contains at least one pair of like terms so
// an episode always starts with work to do. Output is deterministic for a
// given seed.
type ProblemGenerator struct {
	rng *rand.Rand
	cfg ProblemConfig
}

func NewProblemGenerator(seed int64, cfg ProblemConfig) *ProblemGenerator {
	if cfg.MinTerms < 2 {
		cfg.MinTerms = 2
	}
	if cfg.MaxTerms < cfg.MinTerms {
		cfg.MaxTerms = cfg.MinTerms
	}
	if cfg.Variables < 1 {
		cfg.Variables = 1
	}
	if cfg.Variables > len(problemVariablePool) {
		cfg.Variables = len(problemVariablePool)
	}
	return &ProblemGenerator{rng: rand.New(rand.NewSource(seed)), cfg: cfg}
}

// Generate returns the next problem's infix text.
func (g *ProblemGenerator) Generate() string {
	count := g.cfg.MinTerms
	if g.cfg.MaxTerms > g.cfg.MinTerms {
		count += g.rng.Intn(g.cfg.MaxTerms - g.cfg.MinTerms + 1)
	}
	pool := problemVariablePool[:g.cfg.Variables]

	// The focus variable appears at least twice so like terms exist.
	focus := pool[g.rng.Intn(len(pool))]
	vars := make([]string, count)
	vars[0] = focus
	vars[1] = focus
	for i := 2; i < count; i++ {
		vars[i] = pool[g.rng.Intn(len(pool))]
	}
	g.rng.Shuffle(count, func(i, j int) { vars[i], vars[j] = vars[j], vars[i] })

	exponent := ""
	if g.cfg.PowerChance > 0 && g.rng.Float64() < g.cfg.PowerChance {
		exponent = "^2"
	}
	parts := make([]string, count)
	for i, v := range vars {
		coeff := 1 + g.rng.Intn(12)
		parts[i] = fmt.Sprintf("%d%s%s", coeff, v, exponent)
	}
	return strings.Join(parts, " + ")
}
