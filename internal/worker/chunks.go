// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package worker

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/guide-ingest/internal/ai"
	"github.com/guide-ingest/internal/queue"
)

// ChunkCollector runs AI extraction over chunk jobs and gathers the
// per-chunk results. Results are keyed by chunk index so the caller can
// merge them in document order regardless of which worker finished
// first.
type ChunkCollector struct {
	extractor ai.Extractor

	mu      sync.Mutex
	results map[int]*ai.ChunkResult
	failed  int
}

// NewChunkCollector creates a collector backed by the given extractor.
func NewChunkCollector(extractor ai.Extractor) *ChunkCollector {
	return &ChunkCollector{
		extractor: extractor,
		results:   make(map[int]*ai.ChunkResult),
	}
}

// Handle is a HandlerFunc: it decodes a chunk job, runs extraction and
// records the result. Extraction failures are counted and logged but do
// not fail the job, so one bad chunk never stops the run.
func (c *ChunkCollector) Handle(ctx context.Context, job queue.Job) error {
	payload, err := queue.DecodeChunk(job)
	if err != nil {
		return fmt.Errorf("bad chunk job: %w", err)
	}

	log.Printf("ChunkCollector: extracting chunk %d/%d of %s", payload.Index+1, payload.Total, payload.Document)

	result, err := c.extractor.ExtractChunk(ctx, payload.Text, payload.Index, payload.Total)
	if err != nil {
		log.Printf("ChunkCollector: chunk %d of %s failed: %v", payload.Index+1, payload.Document, err)
		c.mu.Lock()
		c.failed++
		c.mu.Unlock()
		return nil
	}

	c.mu.Lock()
	c.results[payload.Index] = result
	c.mu.Unlock()
	return nil
}

// Results returns the collected chunk results in chunk-index order,
// plus the number of chunks that failed extraction.
func (c *ChunkCollector) Results(total int) ([]*ai.ChunkResult, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ordered := make([]*ai.ChunkResult, 0, len(c.results))
	for i := 0; i < total; i++ {
		if r, ok := c.results[i]; ok {
			ordered = append(ordered, r)
		}
	}
	return ordered, c.failed
}
