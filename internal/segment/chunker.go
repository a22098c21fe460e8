// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package segment

// BuildChunks converts confirmed matches into an ordered chunk list. A
// new chunk starts at each line holding a confirmed trigger image; every
// other line (plain text, or a placeholder that never resolved to a
// record) is appended to the current accumulator. Accumulators below the
// content threshold are dropped rather than emitted as near-empty chunks.
//
// When detection produced nothing usable the whole input falls back to a
// fixed-count split, so downstream processing always receives some
// chunks. With zero confirmed triggers the walk would otherwise pile the
// entire document into one accumulator, so the fallback keys on whether
// a trigger ever started a chunk, not on the output being empty. There
// is no failure mode here that returns an error.
func BuildChunks(lines []string, matches []Match, cfg Config) []Chunk {
	triggers := make(map[int]string, len(matches))
	for _, m := range matches {
		triggers[m.ImageLine] = m.ImageID
	}

	var out []Chunk
	current := Chunk{StartLine: 0}
	started := false

	flush := func() {
		if len(current.Lines) > 0 && len(current.Text()) >= cfg.MinChunkChars {
			out = append(out, current)
		}
	}

	for i, line := range lines {
		id, confirmed := triggers[i]
		if confirmed {
			// Guard against a stale match list: the trigger must still
			// carry the same identifier at this position.
			if got, ok := ImageID(line); !ok || got != id {
				confirmed = false
			}
		}
		if confirmed {
			flush()
			current = Chunk{StartLine: i, Lines: []string{line}}
			started = true
			continue
		}
		current.Lines = append(current.Lines, line)
	}
	flush()

	if !started || len(out) == 0 {
		return SplitFixed(lines, cfg.FallbackChunks, cfg.MinChunkChars)
	}
	return out
}

// SplitFixed splits the line sequence into count equal-size contiguous
// chunks. It is the degraded but deterministic fallback path when
// pattern detection finds no records; it is exported so the fallback can
// be tested in isolation.
func SplitFixed(lines []string, count, minChars int) []Chunk {
	if len(lines) == 0 || count <= 0 {
		return nil
	}

	size := len(lines) / count
	if size < 1 {
		size = 1
	}

	var out []Chunk
	for start := 0; start < len(lines); start += size {
		end := start + size
		if end > len(lines) {
			end = len(lines)
		}
		c := Chunk{StartLine: start, Lines: lines[start:end]}
		if len(c.Text()) >= minChars {
			out = append(out, c)
		}
	}
	return out
}
