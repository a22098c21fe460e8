// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package extract

import (
	"regexp"
	"strings"
)

// Exported PDFs carry zero-width characters, stray bullets, and other
// artifacts of the DOCX conversion; these are stripped before the line
// reaches the segmenter.
var (
	zeroWidth   = regexp.MustCompile("[\u200B-\u200D\uFEFF]")
	unreadable  = regexp.MustCompile(`[^\p{L}\p{N}_\s.,!?;:()\[\]{}"'-]`)
	extraSpaces = regexp.MustCompile(`\s+`)
)

// CleanLine normalizes a single extracted line: removes non-readable
// characters and collapses runs of whitespace. Returns "" for lines with
// no readable content.
func CleanLine(line string) string {
	line = zeroWidth.ReplaceAllString(line, "")
	line = unreadable.ReplaceAllString(line, "")
	line = extraSpaces.ReplaceAllString(line, " ")
	return strings.TrimSpace(line)
}

// appendCleanLines splits a text block on newlines, cleans each line, and
// appends the non-empty results to the document.
func appendCleanLines(d *Document, block string) {
	for _, raw := range strings.Split(block, "\n") {
		if line := CleanLine(raw); line != "" {
			d.Lines = append(d.Lines, line)
		}
	}
}
