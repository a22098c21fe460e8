// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package ai

import (
	"context"
	"fmt"
)

// Extractor turns one text chunk into structured rows.
type Extractor interface {
	// ExtractChunk processes the chunk at the given 0-based index of
	// total chunks.
	ExtractChunk(ctx context.Context, chunk string, index, total int) (*ChunkResult, error)
}

// Config holds extractor settings.
type Config struct {
	Provider    string // "deepseek", "openai", or "mock"
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
}

// NewExtractor creates an extractor for the configured provider.
func NewExtractor(cfg Config) (Extractor, error) {
	switch cfg.Provider {
	case "deepseek":
		if cfg.BaseURL == "" {
			cfg.BaseURL = "https://api.deepseek.com/v1"
		}
		if cfg.Model == "" {
			cfg.Model = "deepseek-chat"
		}
		return newChatExtractor(cfg)
	case "openai":
		if cfg.BaseURL == "" {
			cfg.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Model == "" {
			cfg.Model = "gpt-4-turbo-preview"
		}
		return newChatExtractor(cfg)
	case "mock", "":
		return NewMockExtractor(), nil
	default:
		return nil, fmt.Errorf("unsupported extractor provider: %s", cfg.Provider)
	}
}
