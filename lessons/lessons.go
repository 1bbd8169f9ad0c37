// Package lessons loads practice plans from YAML. A plan is an ordered list
// of exercises, each describing a family of generated problems and the turn
// budget allowed for them.
package lessons

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hcronin02/mathy"
)

// Exercise describes one problem family within a plan.
type Exercise struct {
	Name         string  `yaml:"name"`
	ProblemCount int     `yaml:"problem_count"`
	MinTerms     int     `yaml:"min_terms"`
	MaxTerms     int     `yaml:"max_terms"`
	Variables    int     `yaml:"variables"`
	PowerChance  float64 `yaml:"power_chance"`
	MaxTurns     int     `yaml:"max_turns"`
}

// Generator builds a seeded problem generator for this exercise.
func (e Exercise) Generator(seed int64) *mathy.ProblemGenerator {
	cfg := mathy.DefaultProblemConfig()
	if e.MinTerms > 0 {
		cfg.MinTerms = e.MinTerms
	}
	if e.MaxTerms > 0 {
		cfg.MaxTerms = e.MaxTerms
	}
	if e.Variables > 0 {
		cfg.Variables = e.Variables
	}
	cfg.PowerChance = e.PowerChance
	return mathy.NewProblemGenerator(seed, cfg)
}

// Plan is a named sequence of exercises.
type Plan struct {
	Name      string     `yaml:"name"`
	Exercises []Exercise `yaml:"exercises"`
}

// Load reads a plan and validates it.
func Load(r io.Reader) (*Plan, error) {
	var p Plan
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadFile reads a plan from disk.
func LoadFile(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func (p *Plan) validate() error {
	if p.Name == "" {
		return fmt.Errorf("plan has no name")
	}
	if len(p.Exercises) == 0 {
		return fmt.Errorf("plan %q has no exercises", p.Name)
	}
	for i, ex := range p.Exercises {
		if ex.Name == "" {
			return fmt.Errorf("plan %q: exercise %d has no name", p.Name, i)
		}
		if ex.ProblemCount <= 0 {
			return fmt.Errorf("exercise %q: problem_count must be positive", ex.Name)
		}
		if ex.MaxTerms > 0 && ex.MinTerms > ex.MaxTerms {
			return fmt.Errorf("exercise %q: min_terms %d exceeds max_terms %d", ex.Name, ex.MinTerms, ex.MaxTerms)
		}
		if ex.PowerChance < 0 || ex.PowerChance > 1 {
			return fmt.Errorf("exercise %q: power_chance must be within [0, 1]", ex.Name)
		}
	}
	return nil
}
