package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/threatsmith/threatsmith/internal/validation"
	"github.com/threatsmith/threatsmith/pkg/shared/files"
)

const timestampLayout = "20060102_150405"

// RunLog is the persisted validation log for one run.
type RunLog struct {
	Timestamp string               `json:"timestamp"`
	ModelFile string               `json:"modelFile"`
	Summary   validation.Summary   `json:"summary"`
	Findings  []validation.Finding `json:"findings"`
}

// WriteLog writes the JSON validation log for modelPath into logsFolder and
// returns the log file path. The file name carries the model file base name
// and the run timestamp so consecutive runs never overwrite each other.
func (r *Reporter) WriteLog(logsFolder, modelPath string, s validation.Summary, findings []validation.Finding) (string, error) {
	if findings == nil {
		findings = []validation.Finding{}
	}

	now := time.Now()
	base := strings.TrimSuffix(filepath.Base(modelPath), filepath.Ext(modelPath))
	logPath := filepath.Join(logsFolder, fmt.Sprintf("validation_log_%s_%s.json", base, now.Format(timestampLayout)))

	payload, err := json.MarshalIndent(RunLog{
		Timestamp: now.Format(time.RFC3339),
		ModelFile: filepath.Base(modelPath),
		Summary:   s,
		Findings:  findings,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode validation log: %w", err)
	}

	if err := files.CreateFolderIfNotExists(logsFolder); err != nil {
		return "", err
	}
	if err := files.WriteJsonFile(logPath, payload); err != nil {
		return "", err
	}
	return logPath, nil
}
