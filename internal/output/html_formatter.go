package output

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"

	"github.com/rpgo/goal-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":  FormatCurrency,
	"rate":  FormatRate,
	"years": FormatYears,
	"json": func(v interface{}) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

// chartPoint is the per-year series embedded for client-side charting.
type chartPoint struct {
	Year    float64 `json:"year"`
	Balance float64 `json:"balance"`
}

func (h HTMLFormatter) Format(r *domain.PlanReport) ([]byte, error) {
	var buf bytes.Buffer
	yearly := YearlyBalances(r.Projection, r.Goal.Frequency, r.Goal.TenorYears)
	chart := make([]chartPoint, len(yearly))
	for i, yb := range yearly {
		chart[i] = chartPoint{Year: yb.Year.InexactFloat64(), Balance: yb.Balance.Round(2).InexactFloat64()}
	}

	data := struct {
		*domain.PlanReport
		Recommendation Recommendation
		Yearly         []YearBalance
		Chart          []chartPoint
		AssumptionList []string
		Ending         decimal.Decimal
	}{r, AnalyzePlan(r), yearly, chart, GenerateAssumptions(r), r.Projection.EndingValue()}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
