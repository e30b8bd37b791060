package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/goal-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// CSVTrajectoryExporter writes one row per projection point, first for the
// plan as entered and then, when the search changed the plan, for the adjusted plan.
type CSVTrajectoryExporter struct{}

func (c CSVTrajectoryExporter) Name() string { return "csv" }

func (c CSVTrajectoryExporter) Format(r *domain.PlanReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Series", "Index", "Years", "Balance"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := writeSeries(w, "baseline", r.Projection, r.Goal.Frequency, r.Parameters.Years); err != nil {
		return nil, err
	}
	if r.AdjustedProjection != nil && r.Outcome != nil {
		years := r.Parameters.Years
		if r.Outcome.Years != nil {
			years = *r.Outcome.Years
		}
		if err := writeSeries(w, "adjusted", *r.AdjustedProjection, r.Goal.Frequency, years); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func writeSeries(w *csv.Writer, name string, p domain.ProjectionResult, freq domain.Frequency, tenor decimal.Decimal) error {
	ppy := decimalFromInt(freq.PeriodsPerYear())
	for _, pt := range p.Points {
		idx := decimalFromInt(pt.Index)
		years := idx
		if p.Granularity == domain.PerYear {
			years = decimal.Min(idx, tenor)
		} else if ppy.IsPositive() {
			years = idx.DivRound(ppy, 4)
		}
		row := []string{
			name,
			intToString(pt.Index),
			years.String(),
			pt.Balance.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
