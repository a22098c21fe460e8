// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package pipeline

import (
	"strings"

	"github.com/guide-ingest/internal/ai"
)

// MergeResults flattens per-chunk extraction results into one set of
// tables. IDs are prefixed per chunk by the extractor, but a retried or
// overlapping chunk can still repeat an id; first occurrence wins.
func MergeResults(results []*ai.ChunkResult) ([]ai.Bandit, []ai.Event, []ai.BanditEvent) {
	var bandits []ai.Bandit
	var events []ai.Event
	var links []ai.BanditEvent

	seenBandits := make(map[string]bool)
	seenEvents := make(map[string]bool)
	seenLinks := make(map[string]bool)

	for _, r := range results {
		if r == nil {
			continue
		}
		for _, b := range r.Bandits {
			if b.ID == "" || seenBandits[b.ID] {
				continue
			}
			seenBandits[b.ID] = true
			bandits = append(bandits, b)
		}
		for _, e := range r.Events {
			if e.ID == "" || seenEvents[e.ID] {
				continue
			}
			seenEvents[e.ID] = true
			events = append(events, e)
		}
		for _, l := range r.BanditEvents {
			if l.BanditID == "" || l.EventID == "" {
				continue
			}
			key := l.BanditID + "|" + l.EventID
			if seenLinks[key] {
				continue
			}
			seenLinks[key] = true
			links = append(links, l)
		}
	}

	// Drop links that point at records which did not survive the merge
	valid := links[:0]
	for _, l := range links {
		if seenBandits[l.BanditID] && seenEvents[l.EventID] {
			valid = append(valid, l)
		}
	}
	return bandits, events, valid
}

// countUniqueEventNames counts distinct event names ignoring case and
// surrounding whitespace. Chunk overlap tends to produce the same venue
// under two ids, so this is the honest count for run statistics.
func countUniqueEventNames(events []ai.Event) int {
	names := make(map[string]bool, len(events))
	for _, e := range events {
		name := strings.ToLower(strings.TrimSpace(e.Name))
		if name != "" {
			names[name] = true
		}
	}
	return len(names)
}
