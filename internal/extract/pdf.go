// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package extract

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gen2brain/go-fitz"
)

// extractPDF extracts text and images from a PDF file using go-fitz
// (MuPDF). Each page is rendered as HTML so text blocks and embedded
// images keep their reading order; images become inline placeholder
// lines and their decoded bytes are stored on the document.
// API reference: https://pkg.go.dev/github.com/gen2brain/go-fitz
func extractPDF(filePath string) (*Document, error) {
	doc, err := fitz.New(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	d := &Document{Images: make(map[string][]byte)}
	imageCounter := 0
	numPages := doc.NumPage()

	for i := 0; i < numPages; i++ {
		pageHTML, err := doc.HTML(i, false)
		if err != nil {
			// Log error but continue with other pages
			fmt.Printf("warning: failed to extract page %d: %v\n", i+1, err)
			continue
		}
		if err := appendPageHTML(d, pageHTML, i+1, &imageCounter); err != nil {
			fmt.Printf("warning: failed to parse page %d: %v\n", i+1, err)
		}
	}

	if len(d.Lines) == 0 {
		return nil, fmt.Errorf("no content extracted from PDF: %s", filePath)
	}

	return d, nil
}

// appendPageHTML walks one page's HTML in document order, turning text
// blocks into cleaned lines and embedded images into placeholder lines.
func appendPageHTML(d *Document, pageHTML string, pageNum int, imageCounter *int) error {
	page, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return fmt.Errorf("failed to parse page HTML: %w", err)
	}

	page.Find("p, img").Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "img" {
			src, ok := s.Attr("src")
			if !ok {
				return
			}
			data, err := decodeDataURI(src)
			if err != nil {
				return
			}
			*imageCounter++
			id := fmt.Sprintf("img_%03d_%03d", pageNum, *imageCounter)
			d.Lines = append(d.Lines, Placeholder(id))
			d.Images[id] = data
			return
		}
		appendCleanLines(d, s.Text())
	})

	return nil
}

// decodeDataURI decodes the base64 payload of a data: URI as emitted by
// MuPDF's HTML output.
func decodeDataURI(src string) ([]byte, error) {
	if !strings.HasPrefix(src, "data:") {
		return nil, fmt.Errorf("not a data URI")
	}
	idx := strings.Index(src, "base64,")
	if idx < 0 {
		return nil, fmt.Errorf("data URI is not base64 encoded")
	}
	return base64.StdEncoding.DecodeString(src[idx+len("base64,"):])
}
