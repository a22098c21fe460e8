// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const systemPrompt = "You are a data extraction expert. Extract ALL bandits and events " +
	"from the provided text chunk. Return only valid JSON."

// ChatExtractor calls an OpenAI-compatible chat completions API
// (DeepSeek and OpenAI both speak this protocol).
type ChatExtractor struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
	client      *http.Client
}

func newChatExtractor(cfg Config) (*ChatExtractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key not set for provider %s", cfg.Provider)
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 4000
	}
	return &ChatExtractor{
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client:      &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// ExtractChunk sends one chunk to the chat API and decodes the JSON it
// returns into structured rows.
func (e *ChatExtractor) ExtractChunk(ctx context.Context, chunk string, index, total int) (*ChunkResult, error) {
	payload := map[string]interface{}{
		"model": e.model,
		"messages": []map[string]string{
			{
				"role":    "system",
				"content": systemPrompt,
			},
			{
				"role":    "user",
				"content": BuildChunkPrompt(chunk, index, total),
			},
		},
		"max_tokens":  e.maxTokens,
		"temperature": e.temperature, // low temperature for consistent output
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("chat API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no response from chat API")
	}

	return ParseChunkResponse(result.Choices[0].Message.Content)
}
