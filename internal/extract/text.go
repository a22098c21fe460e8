// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package extract

import (
	"fmt"
	"os"
)

// extractText extracts lines from plain text files (.txt, .md)
func extractText(filePath string) (*Document, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}

	d := &Document{Images: make(map[string][]byte)}
	appendCleanLines(d, string(content))

	if len(d.Lines) == 0 {
		return nil, fmt.Errorf("no content in text file: %s", filePath)
	}

	return d, nil
}
