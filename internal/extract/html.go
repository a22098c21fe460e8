// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package extract

import (
	"fmt"
	"os"

	"github.com/PuerkitoBio/goquery"
)

// extractHTML extracts text from an HTML file, removing script and style
// tags before flattening to lines.
func extractHTML(filePath string) (*Document, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open HTML file: %w", err)
	}
	defer file.Close()

	doc, err := goquery.NewDocumentFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	d := &Document{Images: make(map[string][]byte)}
	appendCleanLines(d, doc.Text())

	if len(d.Lines) == 0 {
		return nil, fmt.Errorf("no text extracted from HTML: %s", filePath)
	}

	return d, nil
}
