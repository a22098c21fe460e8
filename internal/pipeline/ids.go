// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package pipeline

import (
	"github.com/google/uuid"

	"github.com/guide-ingest/internal/ai"
)

// assignUUIDs replaces the chunk-prefixed ids the model issued with
// fresh UUIDs before the rows reach the database, remapping the
// relation rows to the new ids. Links whose endpoints cannot be
// remapped are dropped.
func assignUUIDs(bandits []ai.Bandit, events []ai.Event, links []ai.BanditEvent) ([]ai.Bandit, []ai.Event, []ai.BanditEvent) {
	banditIDs := make(map[string]string, len(bandits))
	outBandits := make([]ai.Bandit, len(bandits))
	for i, b := range bandits {
		id := uuid.New().String()
		banditIDs[b.ID] = id
		b.ID = id
		outBandits[i] = b
	}

	eventIDs := make(map[string]string, len(events))
	outEvents := make([]ai.Event, len(events))
	for i, e := range events {
		id := uuid.New().String()
		eventIDs[e.ID] = id
		e.ID = id
		outEvents[i] = e
	}

	var outLinks []ai.BanditEvent
	for _, l := range links {
		banditID, okB := banditIDs[l.BanditID]
		eventID, okE := eventIDs[l.EventID]
		if !okB || !okE {
			continue
		}
		l.ID = uuid.New().String()
		l.BanditID = banditID
		l.EventID = eventID
		outLinks = append(outLinks, l)
	}

	return outBandits, outEvents, outLinks
}
