package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rpgo/goal-planner/internal/calculation"
	"github.com/rpgo/goal-planner/internal/domain"
	"github.com/rpgo/goal-planner/internal/output"
)

func newRiskCmd(a *app) *cobra.Command {
	var answers map[string]string
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Score the risk questionnaire",
		Long:  "Score the risk questionnaire. Without --answer the questions and their options are listed.",
		Example: `  goalplan risk
  goalplan risk --answer horizon=long,drawdown=moderate,experience=intermediate,goal=balance,reaction=hold`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(answers) == 0 {
				for _, q := range a.engine.Questionnaire.Questions {
					fmt.Fprintf(out, "%s: %s\n", q.ID, q.Prompt)
					for _, ans := range q.Answers {
						fmt.Fprintf(out, "  %-14s %s\n", ans.Value, ans.Label)
					}
				}
				return nil
			}

			assessment, err := a.engine.AssessRisk(answers)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Score:   %d of %d\n", assessment.Score, a.engine.Questionnaire.MaxScore())
			fmt.Fprintf(out, "Profile: %s\n\n", assessment.Profile)
			fmt.Fprintln(out, "Suitable portfolios:")
			return printCatalogue(cmd, calculation.RecommendPortfolios(assessment.Profile, domain.DefaultCatalogue()))
		},
	}
	cmd.Flags().StringToStringVar(&answers, "answer", nil, "question=answer pairs")
	return cmd
}

func newPortfoliosCmd() *cobra.Command {
	var profile string
	cmd := &cobra.Command{
		Use:   "portfolios",
		Short: "List the model portfolios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogue := domain.DefaultCatalogue()
			if profile != "" {
				p, err := domain.ParseRiskProfile(profile)
				if err != nil {
					return err
				}
				catalogue = calculation.RecommendPortfolios(p, catalogue)
			}
			return printCatalogue(cmd, catalogue)
		},
	}
	cmd.Flags().StringVar(&profile, "profile", "", "only show portfolios suited to this risk profile")
	return cmd
}

func printCatalogue(cmd *cobra.Command, catalogue domain.Catalogue) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tName\tRisk\tReturn\tFee")
	for _, p := range catalogue {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Risk, output.FormatRate(p.ExpectedReturn), output.FormatRate(p.Fee))
	}
	return tw.Flush()
}
