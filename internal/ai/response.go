// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripFences removes markdown code fences the model sometimes wraps
// around its JSON answer.
func StripFences(response string) string {
	s := strings.TrimSpace(response)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-len("```")]
	}
	return strings.TrimSpace(s)
}

// extractObject narrows a response to its outermost JSON object, for the
// runs where the model adds prose around the payload anyway.
func extractObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}

// chunkPayload tolerates both key spellings the models produce: early
// prompt versions said "bandit", later ones "bandits".
type chunkPayload struct {
	Bandit       []Bandit      `json:"bandit"`
	Bandits      []Bandit      `json:"bandits"`
	Events       []Event       `json:"events"`
	BanditEvents []BanditEvent `json:"bandit_events"`
}

// ParseChunkResponse decodes a raw model response into a ChunkResult.
// Genres are normalized onto the fixed genre set.
func ParseChunkResponse(response string) (*ChunkResult, error) {
	cleaned := extractObject(StripFences(response))

	var payload chunkPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("invalid JSON in model response: %w", err)
	}

	result := &ChunkResult{
		Bandits:      append(payload.Bandits, payload.Bandit...),
		Events:       payload.Events,
		BanditEvents: payload.BanditEvents,
	}
	for i := range result.Events {
		result.Events[i].Genre = NormalizeGenre(result.Events[i].Genre)
	}
	return result, nil
}
