// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package segment

import (
	"regexp"
	"strings"
	"unicode"
)

// Image placeholders are embedded in the line stream by the extract
// package as "[IMAGE: <id>]". The marker syntax is a fixed literal; the
// identifier is opaque to the segmenter.
const (
	imagePrefix = "[IMAGE: "
	imageSuffix = "]"
)

var ageMarker = regexp.MustCompile(`Age:\s*(\d+)`)

// ImageID returns the identifier carried by an image placeholder line,
// or false if the line does not contain a placeholder.
func ImageID(line string) (string, bool) {
	start := strings.Index(line, imagePrefix)
	if start < 0 {
		return "", false
	}
	rest := line[start+len(imagePrefix):]
	end := strings.Index(rest, imageSuffix)
	if end < 0 {
		return "", false
	}
	id := strings.TrimSpace(rest[:end])
	if id == "" {
		return "", false
	}
	return id, true
}

// isCandidateName reports whether a line looks like a person's name:
// exactly one capitalized alphabetic token with no digits. This is a
// heuristic proxy, not a verified fact; multi-word names are never
// detected by it.
func isCandidateName(line string, maxLen int) bool {
	fields := strings.Fields(line)
	if len(fields) != 1 {
		return false
	}
	tok := fields[0]
	runes := []rune(tok)
	if len(runes) < 2 || len(runes) > maxLen {
		return false
	}
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Scanner walks a line sequence and yields record-start matches one at a
// time. It is restartable (construct a new one at any offset) and pure:
// it never modifies the lines and performs no I/O. It does not dedupe;
// close-together age markers may re-discover the same name or image line,
// and callers are expected to collapse duplicates by composite key.
type Scanner struct {
	lines []string
	cfg   Config
	pos   int
	found int
}

// NewScanner creates a scanner starting at the given line offset.
func NewScanner(lines []string, start int, cfg Config) *Scanner {
	if start < 0 {
		start = 0
	}
	return &Scanner{lines: lines, cfg: cfg, pos: start}
}

// Next returns the next match in line order, or false when the input is
// exhausted or the configured match limit has been reached.
func (s *Scanner) Next() (Match, bool) {
	for s.pos < len(s.lines) {
		if s.cfg.MaxMatches > 0 && s.found >= s.cfg.MaxMatches {
			return Match{}, false
		}

		i := s.pos
		s.pos++

		age := ageMarker.FindStringSubmatch(s.lines[i])
		if age == nil {
			continue
		}

		m, ok := s.lookback(i)
		if !ok {
			// A bare age mention with no nearby name and image is not a
			// record; this is frequent in narrative prose and silently
			// skipped.
			continue
		}

		m.Age = age[1]
		s.found++
		return m, true
	}
	return Match{}, false
}

// lookback scans backward from an age-marker line for the nearest
// preceding candidate name and the nearest preceding image placeholder.
// Both searches run independently within the window; the walk stops
// early once both are found.
func (s *Scanner) lookback(ageLine int) (Match, bool) {
	var m Match
	m.NameLine = -1
	m.ImageLine = -1

	limit := ageLine - s.cfg.LookbackWindow
	if limit < 0 {
		limit = 0
	}

	for j := ageLine - 1; j >= limit; j-- {
		line := strings.TrimSpace(s.lines[j])
		if m.NameLine < 0 && isCandidateName(line, s.cfg.MaxNameLength) {
			m.Name = strings.Fields(line)[0]
			m.NameLine = j
		}
		if m.ImageLine < 0 {
			if id, ok := ImageID(line); ok {
				m.ImageID = id
				m.ImageLine = j
			}
		}
		if m.NameLine >= 0 && m.ImageLine >= 0 {
			return m, true
		}
	}
	return Match{}, false
}

// FindMatches collects every match from the given offset into a slice.
// Empty or malformed input yields an empty result, never an error.
func FindMatches(lines []string, start int, cfg Config) []Match {
	var matches []Match
	sc := NewScanner(lines, start, cfg)
	for {
		m, ok := sc.Next()
		if !ok {
			return matches
		}
		matches = append(matches, m)
	}
}

// Dedupe drops second and later occurrences of the same composite
// (name, age, image id) key, preserving input order.
func Dedupe(matches []Match) []Match {
	seen := make(map[RecordKey]bool, len(matches))
	var out []Match
	for _, m := range matches {
		key := m.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}
