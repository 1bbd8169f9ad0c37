package mathy

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesOrder(t *testing.T) {
	codes := make([]string, 0, 4)
	for _, r := range Rules() {
		codes = append(codes, r.Code())
	}
	assert.Equal(t, []string{"CS", "DF", "DM", "CC"}, codes)
}

func TestFactorOutNatural(t *testing.T) {
	rule := DistributiveFactorOut{}
	n := mustParse(t, "2x + 4x")
	require.True(t, rule.CanApplyTo(n))

	change, err := rule.ApplyTo(n)
	require.NoError(t, err)
	root := change.After.Root()
	assert.Equal(t, "(x + 2x) * 2", root.String())
	assert.Equal(t, "2x + 4x", change.Before.String(), "before snapshot is preserved")
	assert.Equal(t, "x + 2x", change.Focus.String())
	checkLinks(t, root)
}

func TestFactorOutVariableFactor(t *testing.T) {
	rule := DistributiveFactorOut{}
	n := mustParse(t, "x + 2x")
	require.True(t, rule.CanApplyTo(n))

	change, err := rule.ApplyTo(n)
	require.NoError(t, err)
	assert.Equal(t, "(1 + 2) * x", change.After.Root().String())
}

func TestFactorOutWrittenUnitExponent(t *testing.T) {
	rule := DistributiveFactorOut{}
	n := mustParse(t, "x^1 + 2x")
	require.True(t, rule.CanApplyTo(n), "x^1 and 2x are like terms")

	change, err := rule.ApplyTo(n)
	require.NoError(t, err)
	assert.Equal(t, "(1 + 2) * x", change.After.Root().String())
}

func TestFactorOutSubtraction(t *testing.T) {
	rule := DistributiveFactorOut{}
	n := mustParse(t, "6x - 4x")
	require.True(t, rule.CanApplyTo(n))

	change, err := rule.ApplyTo(n)
	require.NoError(t, err)
	assert.Equal(t, "(3x - 2x) * 2", change.After.Root().String())
}

func TestFactorOutInsideLargerTree(t *testing.T) {
	rule := DistributiveFactorOut{}
	root := mustParse(t, "(2x + 4x) * 7")
	target := root.Left()
	require.True(t, rule.CanApplyTo(target))

	change, err := rule.ApplyTo(target)
	require.NoError(t, err)
	got := change.After.Root()
	assert.Equal(t, "(x + 2x) * 2 * 7", got.String())
	checkLinks(t, got)
}

func TestFactorOutSurrounded(t *testing.T) {
	rule := DistributiveFactorOut{}
	n := mustParse(t, "(3y + 2x) + 4x")
	require.True(t, rule.CanApplyTo(n))

	change, err := rule.ApplyTo(n)
	require.NoError(t, err)
	root := change.After.Root()
	// The unrelated 3y term survives; the inner sum is hoisted to the top.
	assert.Equal(t, "3y + (x + 2x) * 2", root.String())
	assert.Equal(t, NodeAdd, root.Type())
	assert.Equal(t, "3y", root.Left().String())
	checkLinks(t, root)
}

func TestFactorOutSurroundedUnderParent(t *testing.T) {
	rule := DistributiveFactorOut{}
	root := mustParse(t, "((3y + 2x) + 4x) * 5")
	target := root.Left()
	require.True(t, rule.CanApplyTo(target))

	change, err := rule.ApplyTo(target)
	require.NoError(t, err)
	got := change.After.Root()
	assert.Equal(t, "(3y + (x + 2x) * 2) * 5", got.String())
	checkLinks(t, got)
}

func TestFactorOutRejects(t *testing.T) {
	rule := DistributiveFactorOut{}
	// Non-additions, unlike terms, a structured right operand, and terms
	// spanning several variables all refuse the rewrite.
	for _, text := range []string{
		"x",
		"x * y",
		"2x + 4y",
		"x + (y + z)",
		"4z + 84x * z",
		"x + 2",
	} {
		assert.False(t, rule.CanApplyTo(mustParse(t, text)), "input %q", text)
	}
}

func TestFactorOutMisuse(t *testing.T) {
	rule := DistributiveFactorOut{}
	_, err := rule.ApplyTo(mustParse(t, "2x + 4y"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRuleMisuse)

	_, err = rule.ApplyTo(Var("x"))
	assert.ErrorIs(t, err, ErrRuleMisuse)
}

func TestConstantsSimplify(t *testing.T) {
	rule := ConstantsSimplify{}
	cases := []struct {
		in   string
		want string
	}{
		{"4 + 2", "6"},
		{"4 - 6", "-2"},
		{"4 * 2", "8"},
		{"4 / 2", "2"},
		{"1 / 2", "1/2"},
		{"2^3", "8"},
		{"2^-1", "1/2"},
	}
	for _, tc := range cases {
		n := mustParse(t, tc.in)
		require.True(t, rule.CanApplyTo(n), "input %q", tc.in)
		change, err := rule.ApplyTo(n)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, change.After.Root().String(), "input %q", tc.in)
	}
}

func TestConstantsSimplifyNested(t *testing.T) {
	rule := ConstantsSimplify{}
	root := mustParse(t, "4 + 2 + x")
	target := root.Left()
	require.True(t, rule.CanApplyTo(target))

	change, err := rule.ApplyTo(target)
	require.NoError(t, err)
	got := change.After.Root()
	assert.Equal(t, "6 + x", got.String())
	checkLinks(t, got)
}

func TestConstantsSimplifyRejects(t *testing.T) {
	rule := ConstantsSimplify{}
	for _, text := range []string{"x + 2", "4 / 0", "2^30", "0^0", "2^x"} {
		assert.False(t, rule.CanApplyTo(mustParse(t, text)), "input %q", text)
	}
}

func TestCommutativeSwap(t *testing.T) {
	rule := CommutativeSwap{}
	n := mustParse(t, "x + 2")
	require.True(t, rule.CanApplyTo(n))

	change, err := rule.ApplyTo(n)
	require.NoError(t, err)
	assert.Equal(t, "2 + x", change.After.Root().String())
	checkLinks(t, change.After.Root())

	assert.False(t, rule.CanApplyTo(mustParse(t, "x - 2")))
	assert.False(t, rule.CanApplyTo(mustParse(t, "x / 2")))
	assert.True(t, rule.CanApplyTo(mustParse(t, "x * 2")))
}

func TestDistributiveMultiply(t *testing.T) {
	rule := DistributiveMultiply{}
	cases := []struct {
		in   string
		want string
	}{
		{"2 * (x + 3)", "2x + 2 * 3"},
		{"(x + 3) * 2", "x * 2 + 3 * 2"},
		{"x * (y - z)", "x * y - x * z"},
	}
	for _, tc := range cases {
		n := mustParse(t, tc.in)
		require.True(t, rule.CanApplyTo(n), "input %q", tc.in)
		change, err := rule.ApplyTo(n)
		require.NoError(t, err, "input %q", tc.in)
		got := change.After.Root()
		assert.Equal(t, tc.want, got.String(), "input %q", tc.in)
		checkLinks(t, got)
	}
}

func TestDistributiveMultiplyRejects(t *testing.T) {
	rule := DistributiveMultiply{}
	for _, text := range []string{
		"x * y",             // no group
		"(x + 1) * (y + 1)", // two groups
		"x + y",             // not a product
		"(x + 1) * (y / z)", // factor is not a term
	} {
		assert.False(t, rule.CanApplyTo(mustParse(t, text)), "input %q", text)
	}
}

// Rules must preserve the numeric value of the tree. Random rollouts over
// generated problems check every rule against exact evaluation.
func TestRulesPreserveValue(t *testing.T) {
	bindings := map[string]*big.Rat{
		"x": big.NewRat(5, 1), "y": big.NewRat(7, 1), "z": big.NewRat(11, 1),
		"a": big.NewRat(13, 1), "b": big.NewRat(17, 1), "c": big.NewRat(19, 1),
		"m": big.NewRat(23, 1), "n": big.NewRat(29, 1),
	}
	for seed := int64(0); seed < 8; seed++ {
		gen := NewProblemGenerator(seed, ProblemConfig{MinTerms: 2, MaxTerms: 4, Variables: 3, PowerChance: 0.3})
		rng := rand.New(rand.NewSource(seed))
		env := NewEnv(DefaultConfig())

		problem := gen.Generate()
		state, err := env.NewState(problem)
		require.NoError(t, err, "problem %q", problem)
		want, err := state.Root.Evaluate(bindings)
		require.NoError(t, err, "problem %q", problem)

		for turn := 0; turn < 12; turn++ {
			actions := env.Actions(state)
			if len(actions) == 0 {
				break
			}
			a := actions[rng.Intn(len(actions))]
			tr, err := env.Step(state, a)
			require.NoError(t, err, "problem %q action %+v", problem, a)
			checkLinks(t, state.Root)

			got, err := state.Root.Evaluate(bindings)
			require.NoError(t, err, "problem %q", problem)
			assert.Zero(t, want.Cmp(got),
				"problem %q diverged: want %s got %s at %q", problem, want, got, state.Root.String())
			if tr.Status.Terminal() {
				break
			}
		}
	}
}
