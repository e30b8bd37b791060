package domain

import "strings"

// RiskProfile is the investor category derived from the questionnaire score.
type RiskProfile string

const (
	ProfileConservative RiskProfile = "Conservative"
	ProfileBalanced     RiskProfile = "Balanced"
	ProfileGrowth       RiskProfile = "Growth"
)

// ParseRiskProfile matches a profile name case-insensitively.
func ParseRiskProfile(s string) (RiskProfile, error) {
	for _, p := range []RiskProfile{ProfileConservative, ProfileBalanced, ProfileGrowth} {
		if strings.EqualFold(string(p), strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return "", invalid("profile", "must be Conservative, Balanced or Growth, got %q", s)
}

// RiskAnswer is one selectable answer and the score it contributes.
type RiskAnswer struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
	Score int    `yaml:"score" json:"score"`
}

// RiskQuestion is a single questionnaire item.
type RiskQuestion struct {
	ID      string       `yaml:"id" json:"id"`
	Prompt  string       `yaml:"prompt" json:"prompt"`
	Answers []RiskAnswer `yaml:"answers" json:"answers"`
}

// Answer looks up an answer by value.
func (q RiskQuestion) Answer(value string) (RiskAnswer, bool) {
	for _, a := range q.Answers {
		if a.Value == value {
			return a, true
		}
	}
	return RiskAnswer{}, false
}

// Questionnaire is an ordered list of questions.
type Questionnaire struct {
	Questions []RiskQuestion `yaml:"questions" json:"questions"`
}

// MaxScore is the highest attainable total.
func (q Questionnaire) MaxScore() int {
	total := 0
	for _, question := range q.Questions {
		best := 0
		for _, a := range question.Answers {
			if a.Score > best {
				best = a.Score
			}
		}
		total += best
	}
	return total
}

// RiskAssessment is a scored questionnaire.
type RiskAssessment struct {
	Answers map[string]string `json:"answers"`
	Score   int               `json:"score"`
	Profile RiskProfile       `json:"profile"`
}

// DefaultQuestionnaire is the five-question onboarding questionnaire.
func DefaultQuestionnaire() Questionnaire {
	return Questionnaire{Questions: []RiskQuestion{
		{
			ID:     "horizon",
			Prompt: "What is your preferred investment horizon?",
			Answers: []RiskAnswer{
				{Value: "short", Label: "Less than 2 years", Score: 1},
				{Value: "medium", Label: "2 - 5 years", Score: 2},
				{Value: "long", Label: "More than 5 years", Score: 3},
			},
		},
		{
			ID:     "drawdown",
			Prompt: "How do you feel about temporary losses?",
			Answers: []RiskAnswer{
				{Value: "low", Label: "Avoid losses at all cost", Score: 1},
				{Value: "moderate", Label: "Accept small fluctuations", Score: 2},
				{Value: "high", Label: "Comfortable with volatility", Score: 3},
			},
		},
		{
			ID:     "experience",
			Prompt: "How experienced are you with investments?",
			Answers: []RiskAnswer{
				{Value: "beginner", Label: "New to investing", Score: 1},
				{Value: "intermediate", Label: "Some experience", Score: 2},
				{Value: "advanced", Label: "Seasoned investor", Score: 3},
			},
		},
		{
			ID:     "goal",
			Prompt: "What best describes your primary investment goal?",
			Answers: []RiskAnswer{
				{Value: "preserve", Label: "Preserve capital", Score: 1},
				{Value: "balance", Label: "Blend of income and growth", Score: 2},
				{Value: "growth", Label: "Maximise long-term growth", Score: 3},
			},
		},
		{
			ID:     "reaction",
			Prompt: "If your portfolio dropped 15% in a month, you would...",
			Answers: []RiskAnswer{
				{Value: "sell", Label: "Sell to avoid further losses", Score: 1},
				{Value: "hold", Label: "Stay invested", Score: 2},
				{Value: "buy", Label: "Invest more to buy at a discount", Score: 3},
			},
		},
	}}
}
