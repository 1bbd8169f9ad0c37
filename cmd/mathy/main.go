// Command mathy runs rewrite episodes from the terminal: solve a single
// problem with a random policy, or work through a YAML lesson plan.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hcronin02/mathy"
	"github.com/hcronin02/mathy/gym"
	"github.com/hcronin02/mathy/lessons"
)

var (
	flagSeed     int64
	flagMaxTurns int
	flagDebug    bool
)

func main() {
	root := &cobra.Command{
		Use:           "mathy",
		Short:         "Step-by-step algebra rewriting environment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Int64Var(&flagSeed, "seed", 1337, "random seed for policies and problem generation")
	root.PersistentFlags().IntVar(&flagMaxTurns, "max-turns", 20, "turn budget per episode")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	root.AddCommand(solveCmd(), lessonCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	if flagDebug {
		return zap.NewDevelopment()
	}
	return zap.NewNop(), nil
}

func solveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "solve <problem>",
		Short: "Run a random-policy episode on one problem",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()
			problem := strings.Join(args, " ")
			status, err := runEpisode(cmd, problem, rand.New(rand.NewSource(flagSeed)), log)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), status)
			return nil
		},
	}
}

func lessonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lesson <plan.yaml>",
		Short: "Run every exercise in a lesson plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()
			plan, err := lessons.LoadFile(args[0])
			if err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(flagSeed))
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "plan: %s\n", plan.Name)
			for _, ex := range plan.Exercises {
				gen := ex.Generator(rng.Int63())
				solved := 0
				for i := 0; i < ex.ProblemCount; i++ {
					status, err := runEpisodeWith(cmd, gen, ex.MaxTurns, rng, log)
					if err != nil {
						return fmt.Errorf("exercise %q: %w", ex.Name, err)
					}
					if status == mathy.StatusSolved {
						solved++
					}
				}
				fmt.Fprintf(out, "%s: solved %d/%d\n", ex.Name, solved, ex.ProblemCount)
			}
			return nil
		},
	}
}

func runEpisode(cmd *cobra.Command, problem string, rng *rand.Rand, log *zap.Logger) (mathy.Status, error) {
	env := gym.NewEnv(
		gym.WithProblem(problem),
		gym.WithMaxTurns(flagMaxTurns),
		gym.WithLogger(log),
	)
	return rollout(cmd, env, rng)
}

func runEpisodeWith(cmd *cobra.Command, gen *mathy.ProblemGenerator, maxTurns int, rng *rand.Rand, log *zap.Logger) (mathy.Status, error) {
	if maxTurns <= 0 {
		maxTurns = flagMaxTurns
	}
	env := gym.NewEnv(
		gym.WithGenerator(gen),
		gym.WithMaxTurns(maxTurns),
		gym.WithLogger(log),
	)
	return rollout(cmd, env, rng)
}

func rollout(cmd *cobra.Command, env *gym.Env, rng *rand.Rand) (mathy.Status, error) {
	if _, err := env.Reset(); err != nil {
		return mathy.StatusActive, err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, env.Render())
	for {
		action := env.ActionSpace().Sample(rng)
		if action < 0 {
			break
		}
		_, _, done, err := env.Step(action)
		if err != nil {
			return mathy.StatusActive, err
		}
		fmt.Fprintln(out, env.Render())
		if done {
			break
		}
	}
	return env.Status(), nil
}
