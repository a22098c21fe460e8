// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/guide-ingest/internal/ai"
	appconfig "github.com/guide-ingest/internal/config"
	"github.com/guide-ingest/internal/database"
	"github.com/guide-ingest/internal/geocode"
	"github.com/guide-ingest/internal/logger"
	"github.com/guide-ingest/internal/pipeline"
	"github.com/guide-ingest/internal/segment"
	"github.com/guide-ingest/internal/supabase"
)

var (
	configPath = flag.String("config", "", "Config file path (default: ~/.guide-ingest/config.yaml)")
	provider   = flag.String("provider", "", "AI provider: mock, deepseek or openai")
	apiKey     = flag.String("api-key", "", "AI provider API key")
	workers    = flag.Int("workers", 0, "Number of extraction workers")
	replace    = flag.Bool("replace", false, "Truncate destination tables before inserting")
	dryRun     = flag.Bool("dry-run", false, "Extract and segment without uploading or storing")
	exportPath = flag.String("export", "", "Write merged records to an XLSX workbook at this path")
	logFile    = flag.String("log-file", "guide-ingest.log", "Log file path")
)

func main() {
	// Load .env before anything reads the environment
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <document> [document ...]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	if _, err := logger.Init(*logFile); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	cfg, err := appconfig.LoadConfig(*configPath)
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	appconfig.ApplyCLIFlags(cfg, *provider, *apiKey, *workers, nil)

	extractor, err := ai.NewExtractor(ai.Config{
		Provider:    cfg.AI.Provider,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		BaseURL:     cfg.AI.BaseURL,
		Temperature: cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
	})
	if err != nil {
		logger.Fatalf("failed to initialize extractor: %v", err)
	}
	logger.Printf("Using %s extractor", cfg.AI.Provider)

	ctx := context.Background()

	var store pipeline.Store
	if cfg.Supabase.URL != "" && !*dryRun {
		client, err := supabase.New(cfg.Supabase.URL, cfg.Supabase.Key)
		if err != nil {
			logger.Fatalf("failed to initialize supabase client: %v", err)
		}
		store = client
	} else {
		logger.Printf("No Supabase project configured, records will not be stored")
	}

	var geocoder geocode.Geocoder
	if cfg.Geocode.Enabled {
		// Redis cache is best-effort; geocoding works without it
		cache, err := appconfig.NewRedisClient(ctx)
		if err != nil {
			logger.Printf("Geocode cache disabled, redis unavailable: %v", err)
			cache = nil
		}
		geocoder = geocode.New(cfg.Geocode.BaseURL, cache)
	}

	var runLog *database.RunLog
	if cfg.RunLogPath != "" {
		runLog, err = database.OpenRunLog(cfg.RunLogPath)
		if err != nil {
			logger.Warnf("run log unavailable: %v", err)
		} else {
			defer runLog.Close()
		}
	}

	p := pipeline.New(extractor, store, geocoder, runLog, pipeline.Options{
		Segmenter: segment.Config{
			LookbackWindow: cfg.Segmenter.LookbackWindow,
			MaxNameLength:  cfg.Segmenter.MaxNameLength,
			MinChunkChars:  cfg.Segmenter.MinChunkChars,
			FallbackChunks: cfg.Segmenter.FallbackChunks,
		},
		Workers:    cfg.Workers,
		Bucket:     cfg.Supabase.Bucket,
		Replace:    *replace,
		DryRun:     *dryRun,
		ExportPath: *exportPath,
	})

	failures := 0
	for _, doc := range flag.Args() {
		stats, err := p.Run(ctx, doc)
		if err != nil {
			logger.Errorf("%s: %v", doc, err)
			failures++
			continue
		}
		printStats(stats)
	}
	if failures > 0 {
		os.Exit(1)
	}
}

func printStats(s *pipeline.Stats) {
	fmt.Printf("%s: done in %s\n", s.Document, s.Duration.Round(10*time.Millisecond))
	fmt.Printf("  lines: %d  images: %d  chunks: %d (failed: %d)\n", s.Lines, s.Images, s.Chunks, s.FailedChunks)
	fmt.Printf("  bandits: %d  events: %d (unique names: %d)  links: %d\n", s.Bandits, s.Events, s.UniqueEvents, s.Links)
	fmt.Printf("  uploaded: %d  geocoded: %d\n", s.Uploaded, s.Geocoded)
}
