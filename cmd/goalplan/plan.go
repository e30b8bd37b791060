package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rpgo/goal-planner/internal/config"
	"github.com/rpgo/goal-planner/internal/output"
)

func newPlanCmd(a *app) *cobra.Command {
	var format, outputDir string
	cmd := &cobra.Command{
		Use:   "plan <plan.yaml>",
		Short: "Build a full plan report from a plan file",
		Long: "Build a full plan report from a plan file.\n\n" +
			"Formats: " + strings.Join(output.AvailableFormatterNames(), ", ") + ", all\n" +
			"Aliases: " + strings.Join(output.AvailableFormatAliases(), ", "),
		Example: `  goalplan plan example_plan.yaml
  goalplan plan example_plan.yaml --format html --output-dir reports`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			report, err := a.engine.BuildPlan(cmd.Context(), plan)
			if err != nil {
				return fmt.Errorf("failed to build plan: %w", err)
			}
			a.logger.Debug("plan built", "id", report.ID, "portfolio", report.Portfolio.ID)

			if outputDir == "" {
				f := output.GetFormatterByName(format)
				if f == nil {
					return fmt.Errorf("%w: %q (use --output-dir for \"all\")", output.ErrUnsupportedFormat, format)
				}
				data, err := f.Format(report)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			written, err := output.GenerateReport(report, format, outputDir)
			if err != nil {
				return err
			}
			for _, name := range written {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", name)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "write timestamped report files to this directory")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <plan.yaml>",
		Short: "Check a plan file without building a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid (portfolio %s, %s contributions over %s years)\n",
				args[0], plan.Portfolio, plan.Goal.Frequency, plan.Goal.TenorYears)
			return nil
		},
	}
}

func newExampleCmd() *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print an example plan file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			if outFile != "" {
				if err := output.SaveConfiguration(parser.CreateExampleConfiguration(), outFile); err != nil {
					return fmt.Errorf("failed to write %s: %w", outFile, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outFile)
				return nil
			}
			data, err := parser.MarshalExample()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "write the example to a file instead of stdout")
	return cmd
}
