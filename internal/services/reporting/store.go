package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"traffic-worker-go/internal/models"
)

// FileStore persists one JSON file per report under a directory. Files
// are named deterministically from the report's timestamp.
type FileStore struct {
	dir string
}

// NewFileStore creates the report directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the report and returns the file path. The write goes
// through a temp file so a crash never leaves a truncated report behind.
func (s *FileStore) Save(report models.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	name := fmt.Sprintf("report_%s.json", report.Timestamp.Format("20060102_150405"))
	path := filepath.Join(s.dir, name)

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to finalize report file: %w", err)
	}
	return path, nil
}
