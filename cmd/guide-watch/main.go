// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gen2brain/beeep"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/guide-ingest/internal/ai"
	appconfig "github.com/guide-ingest/internal/config"
	"github.com/guide-ingest/internal/database"
	"github.com/guide-ingest/internal/logger"
	"github.com/guide-ingest/internal/pipeline"
	"github.com/guide-ingest/internal/queue"
	"github.com/guide-ingest/internal/segment"
	"github.com/guide-ingest/internal/supabase"
	"github.com/guide-ingest/internal/watch"
)

var (
	configPath = flag.String("config", "", "Config file path (default: ~/.guide-ingest/config.yaml)")
	watchDirs  = flag.String("watch", "", "Comma-separated directories to watch (overrides config)")
	workers    = flag.Int("workers", 0, "Number of extraction workers")
	notify     = flag.Bool("notify", true, "Send desktop notifications on completion and failure")
	logFile    = flag.String("log-file", "guide-watch.log", "Log file path")
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	flag.Parse()

	if _, err := logger.Init(*logFile); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	cfg, err := appconfig.LoadConfig(*configPath)
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	var dirs []string
	if *watchDirs != "" {
		for _, d := range strings.Split(*watchDirs, ",") {
			if d = strings.TrimSpace(d); d != "" {
				dirs = append(dirs, d)
			}
		}
	}
	appconfig.ApplyCLIFlags(cfg, "", "", *workers, dirs)

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

	var store pipeline.Store
	if cfg.Supabase.URL != "" {
		client, err := supabase.New(cfg.Supabase.URL, cfg.Supabase.Key)
		if err != nil {
			logger.Fatalf("failed to initialize supabase client: %v", err)
		}
		store = client
	} else {
		logger.Printf("No Supabase project configured, running in extract-only mode")
	}

	// Prefer a redis-backed chunk queue when redis is reachable so
	// extraction can be spread across processes; each run gets its own
	// key and the list is consumed down to nothing.
	var newQueue func(capacity int) (queue.Queue, error)
	if redisClient, err := appconfig.NewRedisClient(context.Background()); err == nil {
		logger.Printf("Using redis-backed chunk queue")
		newQueue = func(capacity int) (queue.Queue, error) {
			return queue.NewRedisQueue(redisClient, "chunks:"+uuid.New().String())
		}
	} else {
		logger.Printf("Redis unavailable, using in-memory chunk queue: %v", err)
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

	p := pipeline.New(extractor, store, nil, runLog, pipeline.Options{
		Segmenter: segment.Config{
			LookbackWindow: cfg.Segmenter.LookbackWindow,
			MaxNameLength:  cfg.Segmenter.MaxNameLength,
			MinChunkChars:  cfg.Segmenter.MinChunkChars,
			FallbackChunks: cfg.Segmenter.FallbackChunks,
		},
		Workers:  cfg.Workers,
		Bucket:   cfg.Supabase.Bucket,
		NewQueue: newQueue,
	})

	mgr := watch.NewManager(cfg.WatchPaths, func(filePath string) {
		logger.Printf("Ingesting %s", filePath)
		stats, err := p.Run(context.Background(), filePath)
		if err != nil {
			logger.Errorf("%s: %v", filePath, err)
			alert("Guide ingestion failed", fmt.Sprintf("%s: %v", filePath, err))
			return
		}
		logger.Printf("%s: %d chunks, %d bandits, %d events", stats.Document, stats.Chunks, stats.Bandits, stats.Events)
		alertInfo("Guide ingested", fmt.Sprintf("%s: %d bandits, %d events", stats.Document, stats.Bandits, stats.Events))
	})

	if err := mgr.Start(); err != nil {
		logger.Fatalf("failed to start watcher: %v", err)
	}
	logger.Printf("Watching %v for guide documents", cfg.WatchPaths)

	// Run until interrupted
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Printf("Shutting down")
	mgr.Stop()
}

func alert(title, message string) {
	if !*notify {
		return
	}
	if err := beeep.Alert(title, message, ""); err != nil {
		logger.Warnf("Failed to send OS notification: %v", err)
	}
}

func alertInfo(title, message string) {
	if !*notify {
		return
	}
	if err := beeep.Notify(title, message, ""); err != nil {
		logger.Warnf("Failed to send OS notification: %v", err)
	}
}
