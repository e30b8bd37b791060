package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/goal-planner/internal/domain"
)

// CSVComparisonExporter writes the cross-portfolio comparison, one row per portfolio.
type CSVComparisonExporter struct{}

func (c CSVComparisonExporter) Name() string { return "comparison-csv" }

func (c CSVComparisonExporter) Format(r *domain.PlanReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Portfolio", "Name", "AnnualReturn", "EndingValue", "MeetsTarget", "Suitable", "Selected"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	rows := r.Comparison
	if len(rows) == 0 {
		// Without a comparison the selected portfolio is the only row.
		rows = []domain.PortfolioProjection{{
			PortfolioID:  r.Portfolio.ID,
			Name:         r.Portfolio.Name,
			AnnualReturn: r.Parameters.AnnualReturnRate,
			EndingValue:  r.Projection.EndingValue(),
			MeetsTarget:  r.OnTrack(),
			Suitable:     r.Risk == nil || r.Portfolio.Suits(r.Risk.Profile),
		}}
	}
	for _, row := range rows {
		record := []string{
			row.PortfolioID,
			row.Name,
			row.AnnualReturn.String(),
			row.EndingValue.StringFixed(2),
			boolToString(row.MeetsTarget),
			boolToString(row.Suitable),
			boolToString(row.PortfolioID == r.Portfolio.ID),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
