package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rpgo/goal-planner/internal/calculation"
	"github.com/rpgo/goal-planner/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of plan files
type InputParser struct {
	validate *validator.Validate
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// LoadFromFile loads a plan from a YAML (or JSON) file
func (ip *InputParser) LoadFromFile(filename string) (*domain.PlanConfiguration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a plan document. Unknown keys are rejected so
// that a misspelled field does not silently fall back to its zero value.
func (ip *InputParser) Parse(data []byte) (*domain.PlanConfiguration, error) {
	var plan domain.PlanConfiguration
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: empty document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&plan); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &plan, nil
}

// ValidateConfiguration validates a loaded plan
func (ip *InputParser) ValidateConfiguration(plan *domain.PlanConfiguration) error {
	if err := ip.validate.Struct(plan); err != nil {
		return describeValidationError(err)
	}

	if err := ip.validateGoal(&plan.Goal); err != nil {
		return fmt.Errorf("goal validation failed: %w", err)
	}

	catalogue := plan.Catalogue()
	if err := ip.validateCatalogue(catalogue); err != nil {
		return fmt.Errorf("portfolio validation failed: %w", err)
	}
	if _, ok := catalogue.Find(plan.Portfolio); !ok {
		return fmt.Errorf("%w: %q", calculation.ErrUnknownPortfolio, plan.Portfolio)
	}

	if plan.SearchPolicy != nil && !plan.SearchPolicy.IsZero() {
		if err := calculation.ValidateSearchPolicy(*plan.SearchPolicy); err != nil {
			return fmt.Errorf("search policy validation failed: %w", err)
		}
	}

	if len(plan.RiskAnswers) > 0 {
		if _, err := calculation.ScoreAnswers(domain.DefaultQuestionnaire(), plan.RiskAnswers); err != nil {
			return fmt.Errorf("risk answers validation failed: %w", err)
		}
	}

	return nil
}

// validateGoal checks the amounts that the struct tags cannot express
func (ip *InputParser) validateGoal(goal *domain.Goal) error {
	if !goal.TenorYears.IsPositive() {
		return domain.InvalidParameter("tenor_years", "must be positive")
	}
	if goal.TenorYears.GreaterThan(decimal.NewFromInt(100)) {
		return domain.InvalidParameter("tenor_years", "must be at most 100 years")
	}
	if goal.InitialInvestment.IsNegative() {
		return domain.InvalidParameter("initial_investment", "cannot be negative")
	}
	if goal.RecurringContribution.IsNegative() {
		return domain.InvalidParameter("recurring_contribution", "cannot be negative")
	}
	if goal.TargetAmount.IsNegative() {
		return domain.InvalidParameter("target_amount", "cannot be negative")
	}
	if goal.InitialInvestment.IsZero() && goal.RecurringContribution.IsZero() {
		return domain.InvalidParameter("goal", "needs an initial investment or a recurring contribution")
	}
	return nil
}

// validateCatalogue checks a plan-supplied portfolio list
func (ip *InputParser) validateCatalogue(catalogue domain.Catalogue) error {
	seen := make(map[string]struct{}, len(catalogue))
	for _, p := range catalogue {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("duplicate portfolio id %q", p.ID)
		}
		seen[p.ID] = struct{}{}

		if p.ExpectedReturn.LessThanOrEqual(decimal.NewFromInt(-1)) {
			return fmt.Errorf("portfolio %s: expected return must be greater than -100%%", p.ID)
		}
		if p.Fee.IsNegative() || p.Fee.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("portfolio %s: fee must be between 0 and 1", p.ID)
		}
		if len(p.Instruments) > 0 && !p.TotalAllocation().Equal(decimal.NewFromInt(1)) {
			return fmt.Errorf("portfolio %s: instrument allocations sum to %s, expected 1", p.ID, p.TotalAllocation())
		}
	}
	return nil
}

// describeValidationError flattens validator errors into one message naming
// each offending field.
func describeValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidParameter, strings.Join(msgs, "; "))
}

// CreateExampleConfiguration creates an example plan
func (ip *InputParser) CreateExampleConfiguration() *domain.PlanConfiguration {
	return &domain.PlanConfiguration{
		Goal: domain.Goal{
			Name:                  "Home deposit",
			TargetAmount:          decimal.NewFromInt(200000),
			TenorYears:            decimal.NewFromInt(10),
			InitialInvestment:     decimal.NewFromInt(5000),
			RecurringContribution: decimal.NewFromInt(500),
			Frequency:             domain.Monthly,
		},
		Portfolio: "balanced",
		RiskAnswers: map[string]string{
			"horizon":    "long",
			"drawdown":   "moderate",
			"experience": "intermediate",
			"goal":       "balance",
			"reaction":   "hold",
		},
		Assumptions: domain.Assumptions{
			RateConvention: domain.Nominal,
			Granularity:    domain.PerYear,
			Currency:       domain.DefaultCurrency,
		},
		Compare: true,
	}
}

// MarshalExample renders the example plan as YAML
func (ip *InputParser) MarshalExample() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(ip.CreateExampleConfiguration()); err != nil {
		return nil, fmt.Errorf("failed to encode example: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode example: %w", err)
	}
	return buf.Bytes(), nil
}
