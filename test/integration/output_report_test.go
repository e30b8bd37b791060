package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	stddec "github.com/shopspring/decimal"

	"github.com/rpgo/goal-planner/internal/calculation"
	"github.com/rpgo/goal-planner/internal/config"
	"github.com/rpgo/goal-planner/internal/domain"
	"github.com/rpgo/goal-planner/internal/output"
)

func TestFormatters(t *testing.T) {
	d1 := stddec.NewFromFloat(123.45)
	if got := output.FormatCurrency(d1, "USD"); got != "$123.45" {
		t.Fatalf("FormatCurrency got %s", got)
	}
	// FormatPercentage expects the value already in percentage units (not a 0-1 fraction)
	d2 := stddec.NewFromFloat(12.34)
	if got := output.FormatPercentage(d2); got != "12.34%" {
		t.Fatalf("FormatPercentage got %s", got)
	}
}

func TestSaveConfiguration_WritesFile(t *testing.T) {
	parser := config.NewInputParser()
	tmp := t.TempDir()
	out := filepath.Join(tmp, "plan.yaml")
	if err := output.SaveConfiguration(parser.CreateExampleConfiguration(), out); err != nil {
		t.Fatalf("SaveConfiguration error: %v", err)
	}
	fi, err := os.Stat(out)
	if err != nil {
		t.Fatalf("expected file exists, err: %v", err)
	}
	if fi.Size() == 0 {
		t.Fatalf("expected non-empty file")
	}
	if _, err := parser.LoadFromFile(out); err != nil {
		t.Fatalf("saved plan does not load: %v", err)
	}
}

func buildQuarterlyReport(t *testing.T) *domain.PlanReport {
	t.Helper()
	plan, err := config.NewInputParser().LoadFromFile("../testdata/quarterly_plan.yaml")
	if err != nil {
		t.Fatalf("load plan: %v", err)
	}
	report, err := calculation.NewPlanningEngine().BuildPlan(context.Background(), plan)
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	return report
}

func TestGenerateReport_EveryFormat(t *testing.T) {
	report := buildQuarterlyReport(t)

	for _, format := range append(output.AvailableFormatterNames(), output.AvailableFormatAliases()...) {
		dir := t.TempDir()
		written, err := output.GenerateReport(report, format, dir)
		if err != nil {
			t.Fatalf("GenerateReport %s error: %v", format, err)
		}
		if len(written) != 1 {
			t.Fatalf("GenerateReport %s wrote %d files", format, len(written))
		}
		data, err := os.ReadFile(written[0])
		if err != nil {
			t.Fatalf("read %s: %v", written[0], err)
		}
		if len(data) == 0 {
			t.Fatalf("GenerateReport %s wrote an empty file", format)
		}
	}
}

func TestGenerateReport_All(t *testing.T) {
	report := buildQuarterlyReport(t)
	dir := t.TempDir()

	written, err := output.GenerateReport(report, "all", dir)
	if err != nil {
		t.Fatalf("GenerateReport all error: %v", err)
	}
	if len(written) != 3 {
		t.Fatalf("expected 3 files, got %v", written)
	}
	if !strings.HasSuffix(written[2], "_comparison.csv") {
		t.Fatalf("expected comparison export last, got %s", written[2])
	}

	console, err := os.ReadFile(written[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(console), "GOAL PLAN: EDUCATION FUND") {
		t.Fatalf("console report does not name the goal")
	}
}
