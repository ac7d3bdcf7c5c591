package text

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bkyoung/review-aggregator/internal/domain"
)

// Writer persists the rendered plain-text report to disk.
type Writer struct{}

// NewWriter creates a new text writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write persists a rendered report to disk as a text file.
func (w *Writer) Write(ctx context.Context, artifact domain.TextArtifact) (string, error) {
	if err := os.MkdirAll(artifact.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filePath := filepath.Join(artifact.OutputDir, artifact.Basename+".txt")

	if err := os.WriteFile(filePath, []byte(artifact.Text), 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filePath, nil
}
