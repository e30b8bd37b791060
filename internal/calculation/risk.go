package calculation

import (
	"github.com/rpgo/goal-planner/internal/domain"
)

// Profile thresholds on the questionnaire total.
const (
	conservativeMaxScore = 7
	balancedMaxScore     = 11
)

// ProfileForScore maps a questionnaire total to a risk profile.
func ProfileForScore(score int) domain.RiskProfile {
	switch {
	case score <= conservativeMaxScore:
		return domain.ProfileConservative
	case score <= balancedMaxScore:
		return domain.ProfileBalanced
	default:
		return domain.ProfileGrowth
	}
}

// ScoreAnswers totals the answers (question id → answer value). Every question
// must be answered with one of its options; unknown question ids are rejected.
func ScoreAnswers(q domain.Questionnaire, answers map[string]string) (domain.RiskAssessment, error) {
	known := make(map[string]struct{}, len(q.Questions))
	total := 0
	for _, question := range q.Questions {
		known[question.ID] = struct{}{}
		value, ok := answers[question.ID]
		if !ok || value == "" {
			return domain.RiskAssessment{}, domain.InvalidParameter("risk_answers."+question.ID, "is required")
		}
		a, ok := question.Answer(value)
		if !ok {
			return domain.RiskAssessment{}, domain.InvalidParameter("risk_answers."+question.ID, "has no option %q", value)
		}
		total += a.Score
	}
	for id := range answers {
		if _, ok := known[id]; !ok {
			return domain.RiskAssessment{}, domain.InvalidParameter("risk_answers."+id, "is not a questionnaire item")
		}
	}

	copied := make(map[string]string, len(answers))
	for k, v := range answers {
		copied[k] = v
	}
	return domain.RiskAssessment{
		Answers: copied,
		Score:   total,
		Profile: ProfileForScore(total),
	}, nil
}

// RecommendPortfolios returns the portfolios suited to profile, in catalogue order.
func RecommendPortfolios(profile domain.RiskProfile, catalogue domain.Catalogue) domain.Catalogue {
	out := make(domain.Catalogue, 0, len(catalogue))
	for _, p := range catalogue {
		if p.Suits(profile) {
			out = append(out, p)
		}
	}
	return out
}
