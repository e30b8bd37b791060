// Command goalplan projects savings goals, searches for plan adjustments that
// reach a target, and renders plan reports.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpgo/goal-planner/internal/calculation"
)

var version = "dev"

// app carries state shared by every command.
type app struct {
	debug  bool
	logger *slog.Logger
	engine *calculation.PlanningEngine
}

func (a *app) setup(stderr io.Writer) {
	level := slog.LevelWarn
	if a.debug {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	a.engine = calculation.NewPlanningEngine()
	a.engine.Debug = a.debug
	a.engine.SetLogger(calculation.NewSlogLogger(a.logger))
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "goalplan",
		Short:         "Goal-based investment projection and plan optimizer",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.setup(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newProjectCmd(a),
		newOptimizeCmd(a),
		newPlanCmd(a),
		newValidateCmd(),
		newRiskCmd(a),
		newPortfoliosCmd(),
		newExampleCmd(),
		newServeCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
