package output

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Summary describes one scrape run: how many sample dates were covered,
// which were skipped, and the row-level warnings collected along the
// way.
type Summary struct {
	DateFrom     string   `yaml:"date_from"`
	DateTo       string   `yaml:"date_to"`
	OutputFile   string   `yaml:"output_file"`
	DatesTotal   int      `yaml:"dates_total"`
	DatesWritten int      `yaml:"dates_written"`
	DatesSkipped []string `yaml:"dates_skipped,omitempty"`
	RowsWritten  int      `yaml:"rows_written"`
	Warnings     []string `yaml:"warnings,omitempty"`
}

// WriteSummary marshals the summary to YAML at path.
func WriteSummary(path string, s Summary) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
