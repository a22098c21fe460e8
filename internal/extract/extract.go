// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Document is the extraction result: the ordered line stream with inline
// image placeholders, plus the raw bytes of each extracted image keyed by
// placeholder id. Lines are immutable once produced.
type Document struct {
	Lines  []string
	Images map[string][]byte
}

// Text returns the full line stream as a single block.
func (d *Document) Text() string {
	return strings.Join(d.Lines, "\n")
}

// Placeholder formats an inline image marker for the given identifier.
func Placeholder(id string) string {
	return fmt.Sprintf("[IMAGE: %s]", id)
}

// ExtractFile routes a file to the appropriate extractor based on its
// extension. Only the PDF path yields image placeholders; the other
// formats produce a plain line stream.
func ExtractFile(filePath string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".pdf":
		return extractPDF(filePath)
	case ".docx":
		return extractDOCX(filePath)
	case ".html", ".htm":
		return extractHTML(filePath)
	case ".txt", ".md":
		return extractText(filePath)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
}

// IsSupportedFile checks if a file extension is supported
func IsSupportedFile(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	supported := []string{".pdf", ".docx", ".html", ".htm", ".txt", ".md"}
	for _, s := range supported {
		if ext == s {
			return true
		}
	}
	return false
}

// IsTemporaryFile checks if a file is a temporary file (e.g., ~$doc.docx)
func IsTemporaryFile(filePath string) bool {
	base := filepath.Base(filePath)
	if strings.HasPrefix(base, "~$") {
		return true
	}
	if strings.HasPrefix(base, "._") {
		return true
	}
	if strings.HasSuffix(base, ".tmp") {
		return true
	}
	return false
}
