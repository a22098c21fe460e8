// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/guide-ingest/internal/ai"
	"github.com/guide-ingest/internal/queue"
)

func TestStartWorkers(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemoryQueue(8)

	// Track processed jobs
	var processedJobs []queue.Job
	var mu sync.Mutex

	handler := func(ctx context.Context, job queue.Job) error {
		mu.Lock()
		defer mu.Unlock()
		processedJobs = append(processedJobs, job)
		return nil
	}

	numJobs := 3
	for i := 0; i < numJobs; i++ {
		job := queue.Job{
			Type:      "test_job",
			Payload:   []byte(`{"index": ` + strconv.Itoa(i) + `}`),
			CreatedAt: time.Now(),
		}
		if err := q.Enqueue(ctx, job); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	workerCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- StartWorkers(workerCtx, q, handler, 2)
	}()

	// Wait for the queue to drain, then stop the workers
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		count := len(processedJobs)
		mu.Unlock()
		if count == numJobs {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	if err := <-done; err != nil {
		t.Errorf("StartWorkers returned error: %v", err)
	}

	mu.Lock()
	processedCount := len(processedJobs)
	mu.Unlock()
	if processedCount != numJobs {
		t.Errorf("Expected %d jobs processed, got %d", numJobs, processedCount)
	}
}

func TestStartWorkers_HandlerErrorContinues(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemoryQueue(8)

	var mu sync.Mutex
	var seen int

	handler := func(ctx context.Context, job queue.Job) error {
		mu.Lock()
		seen++
		n := seen
		mu.Unlock()
		if n == 1 {
			return fmt.Errorf("transient failure")
		}
		return nil
	}

	for i := 0; i < 2; i++ {
		job := queue.Job{Type: "test_job", Payload: []byte(`{}`), CreatedAt: time.Now()}
		if err := q.Enqueue(ctx, job); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	workerCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- StartWorkers(workerCtx, q, handler, 1)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := seen
		mu.Unlock()
		if n == 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if seen != 2 {
		t.Errorf("worker should continue past handler errors, processed %d of 2", seen)
	}
}

func TestChunkCollector(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemoryQueue(8)
	collector := NewChunkCollector(ai.NewMockExtractor())

	chunks := []string{
		"The Old Port\nMaria\nAge: 30\n[IMAGE: img_001_001]",
		"Night Market\nYossi\nAge: 41\n[IMAGE: img_002_001]",
	}
	for i, text := range chunks {
		job, err := queue.NewChunkJob(queue.ChunkPayload{
			Document: "guide.pdf",
			Index:    i,
			Total:    len(chunks),
			Text:     text,
		})
		if err != nil {
			t.Fatalf("NewChunkJob failed: %v", err)
		}
		if err := q.Enqueue(ctx, job); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	workerCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- StartWorkers(workerCtx, q, collector.Handle, 2)
	}()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		results, _ := collector.Results(len(chunks))
		if len(results) == len(chunks) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done

	results, failed := collector.Results(len(chunks))
	if failed != 0 {
		t.Errorf("unexpected failed chunks: %d", failed)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 chunk results, got %d", len(results))
	}
	// Results come back in chunk-index order
	if len(results[0].Bandits) == 0 || results[0].Bandits[0].ID != "chunk_0_bandit_1" {
		t.Errorf("first result out of order: %+v", results[0])
	}
	if len(results[1].Bandits) == 0 || results[1].Bandits[0].ID != "chunk_1_bandit_1" {
		t.Errorf("second result out of order: %+v", results[1])
	}
}
