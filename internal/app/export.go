package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lu-zhengda/escalytics/internal/domain"
)

// ExportReport writes the rendered report to path, creating parent
// directories as needed.
func ExportReport(path string, report domain.Report) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	content := report.String()
	if report.Subject != "" {
		content = "# " + report.Subject + "\n\n" + content
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// ExportFileName returns the default file name for a run's exported report.
func ExportFileName(runID string) string {
	if runID == "" {
		return "escalytics-report.md"
	}
	return "escalytics-" + runID + ".md"
}
