package output

import (
	"encoding/json"

	"github.com/rpgo/goal-planner/internal/domain"
)

// JSONFormatter serializes the plan report as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(r *domain.PlanReport) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
