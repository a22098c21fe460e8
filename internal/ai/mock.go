// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package ai

import (
	"context"
	"fmt"
	"strings"
)

// MockExtractor produces deterministic extraction results for testing
// and for dry runs without an API key. It emits one bandit per image
// placeholder found in the chunk and one event carrying the chunk's
// first line as its name.
type MockExtractor struct{}

// NewMockExtractor creates a new mock extractor.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

// ExtractChunk returns synthetic rows derived from the chunk content.
func (m *MockExtractor) ExtractChunk(ctx context.Context, chunk string, index, total int) (*ChunkResult, error) {
	result := &ChunkResult{}

	lines := strings.Split(chunk, "\n")
	banditN := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "[IMAGE: ") || !strings.HasSuffix(trimmed, "]") {
			continue
		}
		banditN++
		placeholder := trimmed
		result.Bandits = append(result.Bandits, Bandit{
			ID:       fmt.Sprintf("chunk_%d_bandit_%d", index, banditN),
			Name:     fmt.Sprintf("Mock Bandit %d-%d", index, banditN),
			ImageURL: placeholder,
		})
	}

	eventName := "Mock Event"
	if len(lines) > 0 && strings.TrimSpace(lines[0]) != "" {
		eventName = strings.TrimSpace(lines[0])
	}
	result.Events = append(result.Events, Event{
		ID:      fmt.Sprintf("chunk_%d_event_1", index),
		Name:    eventName,
		Genre:   "Culture",
		Address: fmt.Sprintf("%d Mock Street", index),
	})

	if len(result.Bandits) > 0 {
		result.BanditEvents = append(result.BanditEvents, BanditEvent{
			ID:       fmt.Sprintf("chunk_%d_link_1", index),
			BanditID: result.Bandits[0].ID,
			EventID:  result.Events[0].ID,
		})
	}

	return result, nil
}
