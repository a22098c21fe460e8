// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/guide-ingest/internal/ai"
	"github.com/guide-ingest/internal/database"
	"github.com/guide-ingest/internal/export"
	"github.com/guide-ingest/internal/extract"
	"github.com/guide-ingest/internal/geocode"
	"github.com/guide-ingest/internal/logger"
	"github.com/guide-ingest/internal/queue"
	"github.com/guide-ingest/internal/segment"
	"github.com/guide-ingest/internal/worker"
)

// Store is the subset of the Supabase client the pipeline needs. It is
// an interface so runs can be tested without a live project.
type Store interface {
	EnsureBucket(ctx context.Context, bucket string) error
	UploadObject(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error)
	Insert(ctx context.Context, table string, rows interface{}) error
	DeleteAll(ctx context.Context, table string) error
}

// Options configures a pipeline run.
type Options struct {
	Segmenter segment.Config
	Workers   int
	Bucket    string
	// Replace truncates the destination tables before inserting
	Replace bool
	// DryRun skips uploads and table writes
	DryRun bool
	// ExportPath, when set, writes the merged records to an XLSX
	// workbook for review
	ExportPath string
	// NewQueue builds the chunk job queue for one run. Defaults to an
	// in-memory queue; the watch daemon swaps in a redis-backed one
	// when redis is configured. capacity is the chunk count, so the
	// queue must absorb that many jobs before workers start draining.
	NewQueue func(capacity int) (queue.Queue, error)
}

// Stats summarizes one completed run.
type Stats struct {
	Document     string
	Lines        int
	Images       int
	Chunks       int
	FailedChunks int
	Bandits      int
	Events       int
	UniqueEvents int
	Links        int
	Uploaded     int
	Geocoded     int
	Duration     time.Duration
}

// Pipeline runs a source document through extraction, segmentation, AI
// extraction, image upload and storage. Store, Geocoder and RunLog are
// optional; a nil value disables that stage.
type Pipeline struct {
	extractor ai.Extractor
	store     Store
	geocoder  geocode.Geocoder
	runLog    *database.RunLog
	opts      Options
}

// New creates a pipeline.
func New(extractor ai.Extractor, store Store, geocoder geocode.Geocoder, runLog *database.RunLog, opts Options) *Pipeline {
	if opts.Workers <= 0 {
		opts.Workers = 3
	}
	if opts.Bucket == "" {
		opts.Bucket = "guideassets"
	}
	if opts.NewQueue == nil {
		opts.NewQueue = func(capacity int) (queue.Queue, error) {
			return queue.NewMemoryQueue(capacity), nil
		}
	}
	return &Pipeline{
		extractor: extractor,
		store:     store,
		geocoder:  geocoder,
		runLog:    runLog,
		opts:      opts,
	}
}

// Run ingests one document end to end and returns run statistics.
func (p *Pipeline) Run(ctx context.Context, filePath string) (*Stats, error) {
	start := time.Now()
	docName := filepath.Base(filePath)
	stats := &Stats{Document: docName}

	var runID int64
	if p.runLog != nil {
		id, err := p.runLog.StartRun(docName)
		if err != nil {
			logger.Warnf("run log unavailable: %v", err)
		} else {
			runID = id
		}
	}

	err := p.run(ctx, filePath, runID, stats)
	stats.Duration = time.Since(start)

	if p.runLog != nil && runID != 0 {
		errMsg := ""
		if err != nil {
			errMsg = err.Error()
		}
		if logErr := p.runLog.FinishRun(runID, stats.Chunks, stats.Bandits, stats.Events, stats.Links, stats.Uploaded, errMsg); logErr != nil {
			logger.Warnf("failed to finish run log entry: %v", logErr)
		}
	}

	return stats, err
}

func (p *Pipeline) run(ctx context.Context, filePath string, runID int64, stats *Stats) error {
	// Stage 1: extract text and images
	doc, err := extract.ExtractFile(filePath)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	stats.Lines = len(doc.Lines)
	stats.Images = len(doc.Images)
	p.logStage(runID, "extract", fmt.Sprintf("%d lines, %d images", stats.Lines, stats.Images))

	// Stage 2: segment into per-record chunks
	chunks, matches := segment.Segment(doc.Lines, p.opts.Segmenter)
	stats.Chunks = len(chunks)
	p.logStage(runID, "segment", fmt.Sprintf("%d chunks from %d record matches", len(chunks), len(matches)))
	logger.Printf("%s: %d chunks, %d record matches", stats.Document, len(chunks), len(matches))

	// Stage 3: AI extraction over a worker pool
	results, failed, err := p.extractChunks(ctx, stats.Document, chunks)
	if err != nil {
		return err
	}
	stats.FailedChunks = failed

	bandits, events, links := MergeResults(results)
	stats.Bandits = len(bandits)
	stats.Events = len(events)
	stats.UniqueEvents = countUniqueEventNames(events)
	stats.Links = len(links)
	p.logStage(runID, "ai", fmt.Sprintf("%d bandits, %d events, %d links (%d chunks failed)", len(bandits), len(events), len(links), failed))

	// Stage 4: upload images and rewrite placeholder references
	urls, err := p.uploadImages(ctx, doc)
	if err != nil {
		return err
	}
	stats.Uploaded = len(urls)
	CombineImageURLs(bandits, events, urls)
	p.logStage(runID, "upload", fmt.Sprintf("%d images uploaded", len(urls)))

	// Stage 5: geocode event addresses
	stats.Geocoded = p.geocodeEvents(ctx, events)
	if p.geocoder != nil {
		p.logStage(runID, "geocode", fmt.Sprintf("%d events geocoded", stats.Geocoded))
	}

	if p.opts.ExportPath != "" {
		if err := export.WriteWorkbook(p.opts.ExportPath, bandits, events, links); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		p.logStage(runID, "export", p.opts.ExportPath)
	}

	// Stage 6: store in destination tables
	if err := p.storeRecords(ctx, bandits, events, links); err != nil {
		return err
	}
	p.logStage(runID, "store", "records written")

	return nil
}

// extractChunks fans the chunks out to a worker pool and collects the
// per-chunk results in order.
func (p *Pipeline) extractChunks(ctx context.Context, docName string, chunks []segment.Chunk) ([]*ai.ChunkResult, int, error) {
	q, err := p.opts.NewQueue(len(chunks))
	if err != nil {
		return nil, 0, fmt.Errorf("queue setup failed: %w", err)
	}
	for i, chunk := range chunks {
		job, err := queue.NewChunkJob(queue.ChunkPayload{
			Document: docName,
			Index:    i,
			Total:    len(chunks),
			Text:     chunk.Text(),
		})
		if err != nil {
			return nil, 0, err
		}
		if err := q.Enqueue(ctx, job); err != nil {
			return nil, 0, err
		}
	}

	collector := worker.NewChunkCollector(p.extractor)

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		worker.StartWorkers(workerCtx, q, collector.Handle, p.opts.Workers)
		close(done)
	}()

	// Stop the workers once every chunk is accounted for
	for {
		results, failed := collector.Results(len(chunks))
		if len(results)+failed >= len(chunks) {
			break
		}
		select {
		case <-ctx.Done():
			cancel()
			<-done
			return nil, 0, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
	cancel()
	<-done

	results, failed := collector.Results(len(chunks))
	return results, failed, nil
}

// uploadImages pushes every extracted image to storage and returns a
// placeholder-id to public-URL map.
func (p *Pipeline) uploadImages(ctx context.Context, doc *extract.Document) (map[string]string, error) {
	urls := make(map[string]string)
	if p.store == nil || p.opts.DryRun || len(doc.Images) == 0 {
		return urls, nil
	}

	if err := p.store.EnsureBucket(ctx, p.opts.Bucket); err != nil {
		return nil, fmt.Errorf("bucket setup failed: %w", err)
	}

	for id, data := range doc.Images {
		url, err := p.store.UploadObject(ctx, p.opts.Bucket, "pdf_images/"+id+".jpg", data, "image/jpeg")
		if err != nil {
			logger.Warnf("upload of %s failed: %v", id, err)
			continue
		}
		urls[id] = url
	}
	return urls, nil
}

// geocodeEvents fills in missing coordinates from event addresses.
// Lookup failures leave the coordinates null and never abort the run.
func (p *Pipeline) geocodeEvents(ctx context.Context, events []ai.Event) int {
	if p.geocoder == nil {
		return 0
	}

	geocoded := 0
	for i := range events {
		if events[i].LocationLat != nil && events[i].LocationLng != nil {
			continue
		}
		address := events[i].Address
		if address == "" {
			continue
		}
		if events[i].City != "" {
			address += ", " + events[i].City
		}

		result, err := p.geocoder.Geocode(ctx, address)
		if err != nil {
			logger.Warnf("geocode of %q failed: %v", address, err)
			continue
		}
		if result == nil {
			continue
		}
		lat, lng := result.Lat, result.Lng
		events[i].LocationLat = &lat
		events[i].LocationLng = &lng
		geocoded++
	}
	return geocoded
}

// storeRecords writes the merged tables. With Replace set, the
// destination tables are truncated first, children before parents.
func (p *Pipeline) storeRecords(ctx context.Context, bandits []ai.Bandit, events []ai.Event, links []ai.BanditEvent) error {
	if p.store == nil || p.opts.DryRun {
		return nil
	}

	// The database keys rows by UUID; swap out the model-issued chunk
	// ids right before insert so exports and logs keep the readable
	// form.
	bandits, events, links = assignUUIDs(bandits, events, links)

	if p.opts.Replace {
		for _, table := range []string{"bandit_event", "event", "bandit"} {
			if err := p.store.DeleteAll(ctx, table); err != nil {
				return fmt.Errorf("truncate of %s failed: %w", table, err)
			}
		}
	}

	if len(bandits) > 0 {
		if err := p.store.Insert(ctx, "bandit", banditRows(bandits)); err != nil {
			return fmt.Errorf("bandit insert failed: %w", err)
		}
	}
	if len(events) > 0 {
		if err := p.store.Insert(ctx, "event", eventRows(events)); err != nil {
			return fmt.Errorf("event insert failed: %w", err)
		}
	}
	if len(links) > 0 {
		if err := p.store.Insert(ctx, "bandit_event", linkRows(links)); err != nil {
			return fmt.Errorf("bandit_event insert failed: %w", err)
		}
	}
	return nil
}

func (p *Pipeline) logStage(runID int64, stage, details string) {
	if p.runLog == nil || runID == 0 {
		return
	}
	if err := p.runLog.LogStage(runID, stage, details); err != nil {
		logger.Warnf("failed to log %s stage: %v", stage, err)
	}
}
