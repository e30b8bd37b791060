package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/rpgo/goal-planner/internal/domain"
	"gopkg.in/yaml.v3"
)

// GenerateReport writes report in the named format to a timestamped file in
// dir and returns the files written. "all" writes the verbose console report
// and the CSV exports.
func GenerateReport(report *domain.PlanReport, format, dir string) ([]string, error) {
	if f := GetFormatterByName(format); f != nil {
		name, err := WriteFormatted(f, report, dir, ExtensionFor(f.Name()))
		if err != nil {
			return nil, err
		}
		return []string{name}, nil
	}
	if NormalizeFormatName(format) == "all" {
		var written []string
		for _, f := range []Formatter{ConsoleVerboseFormatter{}, CSVTrajectoryExporter{}} {
			name, err := WriteFormatted(f, report, dir, ExtensionFor(f.Name()))
			if err != nil {
				return written, err
			}
			written = append(written, name)
		}
		if len(report.Comparison) > 0 {
			// Shares the trajectory export's timestamp.
			data, err := CSVComparisonExporter{}.Format(report)
			if err != nil {
				return written, err
			}
			name := strings.TrimSuffix(written[len(written)-1], ".csv") + "_comparison.csv"
			if err := os.WriteFile(name, data, 0644); err != nil {
				return written, err
			}
			written = append(written, name)
		}
		return written, nil
	}
	// enrich error with available formatters and aliases
	return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
		strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// SaveConfiguration writes a plan as YAML.
func SaveConfiguration(plan *domain.PlanConfiguration, filename string) error {
	b, err := yaml.Marshal(plan)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}
