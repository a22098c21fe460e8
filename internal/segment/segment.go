// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package segment

import "strings"

// Config holds the tunable thresholds for record detection.
// All behavior is driven by explicit parameters so runs are reproducible;
// there is no package-level mutable state.
type Config struct {
	LookbackWindow int // lines scanned backward from an age marker
	MaxNameLength  int // longest token accepted as a candidate name
	MinChunkChars  int // minimum concatenated text length to emit a chunk
	FallbackChunks int // fixed-split count used when detection finds nothing
	MaxMatches     int // stop after this many matches (0 = unlimited)
}

// DefaultConfig returns the reference thresholds.
func DefaultConfig() Config {
	return Config{
		LookbackWindow: 9,
		MaxNameLength:  32,
		MinChunkChars:  50,
		FallbackChunks: 10,
	}
}

// RecordKey identifies one detected record. Two matches with the same
// key are duplicates; comparison is on the full composite, not the name
// alone, because the same display name recurs across unrelated sections.
type RecordKey struct {
	Name    string
	Age     string
	ImageID string
}

// Match marks a detected record start: an image placeholder followed by
// a candidate name, confirmed by a nearby age marker.
type Match struct {
	ImageLine int    // index of the line holding the image placeholder
	ImageID   string // identifier carried by the placeholder
	Name      string
	NameLine  int
	Age       string // raw digits from the age marker
}

// Key returns the deduplication key for this match.
func (m Match) Key() RecordKey {
	return RecordKey{Name: m.Name, Age: m.Age, ImageID: m.ImageID}
}

// Chunk is a contiguous run of lines attributed to one record.
type Chunk struct {
	StartLine int
	Lines     []string
}

// Text returns the chunk content as a single newline-joined block.
func (c Chunk) Text() string {
	return strings.TrimSpace(strings.Join(c.Lines, "\n"))
}

// Segment runs the full pass: find matches, dedupe them, and build the
// chunk list. It returns the chunks in document order plus the confirmed
// matches so callers can constrain downstream extraction to known records.
func Segment(lines []string, cfg Config) ([]Chunk, []Match) {
	matches := Dedupe(FindMatches(lines, 0, cfg))
	chunks := BuildChunks(lines, matches, cfg)
	return chunks, matches
}
