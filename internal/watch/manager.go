// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/guide-ingest/internal/extract"
)

// ProcessFunc handles a settled document. It runs on its own goroutine.
type ProcessFunc func(filePath string)

// Manager watches directories for new guide documents and hands each
// settled file to the process callback. Subdirectories are watched
// recursively, and files already present at startup are processed too.
type Manager struct {
	watchPaths []string
	watchers   map[string]*fsnotify.Watcher
	debouncer  *Debouncer
	process    ProcessFunc
	mu         sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewManager creates a watcher manager for the given directories.
func NewManager(watchPaths []string, process ProcessFunc) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		watchPaths: watchPaths,
		watchers:   make(map[string]*fsnotify.Watcher),
		debouncer:  NewDebouncer(500*time.Millisecond, nil),
		process:    process,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start starts watching all configured paths
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.debouncer.Callback = func(filePath string) {
		go m.process(filePath)
	}

	for _, path := range m.watchPaths {
		if err := m.addWatchPath(path); err != nil {
			log.Printf("Failed to watch path %s: %v", path, err)
			continue
		}
	}
	if len(m.watchers) == 0 {
		return fmt.Errorf("no watchable paths among %v", m.watchPaths)
	}

	for path, watcher := range m.watchers {
		m.wg.Add(1)
		go m.processEvents(path, watcher)
	}
	return nil
}

// Stop stops all watchers
func (m *Manager) Stop() {
	m.cancel()
	m.debouncer.Stop()
	m.mu.Lock()
	defer m.mu.Unlock()

	for path, watcher := range m.watchers {
		if err := watcher.Close(); err != nil {
			log.Printf("Error closing watcher for %s: %v", path, err)
		}
		delete(m.watchers, path)
	}
	m.wg.Wait()
}

// addWatchPath adds a directory to watch (recursively)
func (m *Manager) addWatchPath(rootPath string) error {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	if _, exists := m.watchers[absPath]; exists {
		return nil
	}

	// Create directory if it doesn't exist
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		if err := os.MkdirAll(absPath, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		log.Printf("Created watch directory: %s", absPath)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := filepath.Walk(absPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := watcher.Add(path); err != nil {
				log.Printf("Warning: failed to watch %s: %v", path, err)
			}
		}
		return nil
	}); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to walk directory: %w", err)
	}

	m.watchers[absPath] = watcher
	log.Printf("Watching directory (recursive): %s", absPath)

	go m.processExistingFiles(absPath)
	return nil
}

// processEvents processes file system events
func (m *Manager) processEvents(path string, watcher *fsnotify.Watcher) {
	defer m.wg.Done()

	for {
		select {
		case <-m.ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			// Handle new directories
			if event.Op&fsnotify.Create == fsnotify.Create {
				info, err := os.Stat(event.Name)
				if err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						log.Printf("Failed to watch new directory %s: %v", event.Name, err)
					}
					continue
				}
			}

			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if extract.IsTemporaryFile(event.Name) {
					continue
				}
				if extract.IsSupportedFile(event.Name) {
					m.debouncer.Trigger(event.Name)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error for %s: %v", path, err)
		}
	}
}

// processExistingFiles queues files that already exist in the directory
func (m *Manager) processExistingFiles(dir string) {
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			if extract.IsTemporaryFile(path) {
				return nil
			}
			if extract.IsSupportedFile(path) {
				m.debouncer.Trigger(path)
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error scanning directory %s: %v", dir, err)
	}
}
