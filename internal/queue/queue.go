// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// JobTypeChunk is the job type for a single document chunk awaiting AI
// extraction.
const JobTypeChunk = "extract_chunk"

// Job represents a job in the queue.
type Job struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ChunkPayload carries one chunk of a source document through the queue.
type ChunkPayload struct {
	Document string `json:"document"`
	Index    int    `json:"index"`
	Total    int    `json:"total"`
	Text     string `json:"text"`
}

// NewChunkJob wraps a chunk payload in a Job.
func NewChunkJob(p ChunkPayload) (Job, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return Job{}, fmt.Errorf("failed to marshal chunk payload: %w", err)
	}
	return Job{
		Type:      JobTypeChunk,
		Payload:   data,
		CreatedAt: time.Now(),
	}, nil
}

// DecodeChunk extracts the chunk payload from a job.
func DecodeChunk(job Job) (ChunkPayload, error) {
	if job.Type != JobTypeChunk {
		return ChunkPayload{}, fmt.Errorf("unexpected job type %q", job.Type)
	}
	var p ChunkPayload
	if err := json.Unmarshal(job.Payload, &p); err != nil {
		return ChunkPayload{}, fmt.Errorf("failed to unmarshal chunk payload: %w", err)
	}
	return p, nil
}

// Queue defines the interface for job queues.
type Queue interface {
	// Enqueue adds a job to the queue.
	Enqueue(ctx context.Context, job Job) error

	// Dequeue blocks until a job is available, then returns it.
	// Returns an error if the context is cancelled or if the operation fails.
	Dequeue(ctx context.Context) (Job, error)
}
