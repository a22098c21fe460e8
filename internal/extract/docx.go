// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package extract

import (
	"fmt"
	"regexp"

	"github.com/nguyenthenguyen/docx"
)

var (
	paragraphEnd = regexp.MustCompile(`</w:p>`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
)

// extractDOCX extracts text from a DOCX file directly, without the
// PDF conversion hop. Paragraph boundaries become line breaks. The DOCX
// path carries no image placeholders; guides with profile images should
// go through the PDF extractor.
func extractDOCX(filePath string) (*Document, error) {
	doc, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open DOCX file: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = paragraphEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")

	d := &Document{Images: make(map[string][]byte)}
	appendCleanLines(d, content)

	if len(d.Lines) == 0 {
		return nil, fmt.Errorf("no text extracted from DOCX: %s", filePath)
	}

	return d, nil
}
