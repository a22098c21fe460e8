// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package segment

import (
	"strings"
	"testing"
)

// banditLines builds a minimal record section: trigger image, name, age,
// and enough trailing text to clear the content threshold.
func banditLines(imageID, name, age string) []string {
	return []string{
		"[IMAGE: " + imageID + "]",
		name,
		"Age: " + age,
		strings.Repeat(name+" knows every corner of the city. ", 4),
	}
}

func TestBuildChunks_SingleRecord(t *testing.T) {
	lines := banditLines("img_01", "Maria", "30")

	chunks, matches := Segment(lines, DefaultConfig())
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].StartLine != 0 {
		t.Errorf("chunk should start at the trigger image line, got %d", chunks[0].StartLine)
	}
	if len(chunks[0].Lines) != len(lines) {
		t.Errorf("chunk should cover lines 0 through end: got %d of %d lines", len(chunks[0].Lines), len(lines))
	}
}

func TestBuildChunks_MultipleRecordsInOrder(t *testing.T) {
	var lines []string
	lines = append(lines, banditLines("img_01", "Maria", "30")...)
	lines = append(lines, banditLines("img_02", "Yossi", "41")...)
	lines = append(lines, banditLines("img_03", "Dana", "27")...)

	chunks, matches := Segment(lines, DefaultConfig())
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	for i := 1; i < len(chunks); i++ {
		if chunks[i].StartLine <= chunks[i-1].StartLine {
			t.Errorf("chunks out of document order: %d then %d", chunks[i-1].StartLine, chunks[i].StartLine)
		}
	}
	for i, want := range []string{"img_01", "img_02", "img_03"} {
		if id, ok := ImageID(chunks[i].Lines[0]); !ok || id != want {
			t.Errorf("chunk %d should start at trigger %s, got %q", i, want, chunks[i].Lines[0])
		}
	}
}

func TestBuildChunks_UnconfirmedImageStaysInChunk(t *testing.T) {
	lines := banditLines("img_01", "Maria", "30")
	// An image with no nearby name/age pattern never becomes a trigger.
	lines = append(lines, "[IMAGE: img_99]")
	lines = append(lines, "More notes about Maria's neighborhood and her favorite spots.")

	chunks, _ := Segment(lines, DefaultConfig())
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if !strings.Contains(chunks[0].Text(), "img_99") {
		t.Errorf("unconfirmed placeholder should stay inside the current chunk")
	}
}

func TestBuildChunks_ShortChunkDropped(t *testing.T) {
	var lines []string
	// First record has almost no content after its header.
	lines = append(lines, "[IMAGE: img_01]", "Maria", "Age: 30")
	lines = append(lines, banditLines("img_02", "Yossi", "41")...)

	chunks, matches := Segment(lines, DefaultConfig())
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if len(chunks) != 1 {
		t.Fatalf("expected the near-empty leading chunk to be dropped, got %d chunks", len(chunks))
	}
	if id, _ := ImageID(chunks[0].Lines[0]); id != "img_02" {
		t.Errorf("surviving chunk should start at img_02, got %q", chunks[0].Lines[0])
	}
}

func TestBuildChunks_FallbackWhenNoMatches(t *testing.T) {
	var lines []string
	for i := 0; i < 40; i++ {
		lines = append(lines, "Ordinary travel prose with no recognizable record pattern at all.")
	}

	cfg := DefaultConfig()
	chunks, matches := Segment(lines, cfg)
	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(matches))
	}
	if len(chunks) != cfg.FallbackChunks {
		t.Errorf("expected %d fallback chunks, got %d", cfg.FallbackChunks, len(chunks))
	}

	// Fallback chunks must still be contiguous and ordered.
	next := 0
	for _, c := range chunks {
		if c.StartLine != next {
			t.Errorf("fallback chunks not contiguous: start=%d want=%d", c.StartLine, next)
		}
		next = c.StartLine + len(c.Lines)
	}
	if next != len(lines) {
		t.Errorf("fallback chunks should jointly cover the input: covered %d of %d lines", next, len(lines))
	}
}

func TestBuildChunks_EmptyInput(t *testing.T) {
	chunks, matches := Segment(nil, DefaultConfig())
	if len(matches) != 0 {
		t.Errorf("expected no matches for empty input, got %d", len(matches))
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks for empty input, got %d", len(chunks))
	}
}

func TestBuildChunks_RoundTripCoversInput(t *testing.T) {
	var lines []string
	lines = append(lines, "Intro line before the first record, long enough to keep around.")
	lines = append(lines, banditLines("img_01", "Maria", "30")...)
	lines = append(lines, banditLines("img_02", "Yossi", "41")...)

	cfg := DefaultConfig()
	cfg.MinChunkChars = 0 // keep every accumulator so coverage is exact

	chunks, _ := Segment(lines, cfg)

	var rebuilt []string
	for _, c := range chunks {
		rebuilt = append(rebuilt, c.Lines...)
	}
	if len(rebuilt) != len(lines) {
		t.Fatalf("rebuilt %d lines, want %d", len(rebuilt), len(lines))
	}
	for i := range lines {
		if rebuilt[i] != lines[i] {
			t.Errorf("line %d reordered: got %q want %q", i, rebuilt[i], lines[i])
		}
	}
}

func TestSplitFixed(t *testing.T) {
	var lines []string
	for i := 0; i < 20; i++ {
		lines = append(lines, "A reasonably long line of filler text for the fixed splitter.")
	}

	chunks := SplitFixed(lines, 4, 10)
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if len(c.Lines) != 5 {
			t.Errorf("expected equal chunks of 5 lines, got %d", len(c.Lines))
		}
	}
}

func TestSplitFixed_Empty(t *testing.T) {
	if chunks := SplitFixed(nil, 10, 50); chunks != nil {
		t.Errorf("expected nil chunks for empty input, got %v", chunks)
	}
}
