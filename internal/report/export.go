package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileName returns the export name for a report generated on day:
// "relatorio-dividas-2025-01-15.txt".
func FileName(day time.Time) string {
	return fmt.Sprintf("relatorio-dividas-%s.txt", day.Format("2006-01-02"))
}

// Export writes text to dir under FileName(day) and returns the path.
// An existing report for the same day is overwritten.
func Export(dir, text string, day time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(day))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
