// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package supabase

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to a hosted Supabase project: object storage for the
// extracted images and PostgREST for the relational tables.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// New creates a client for the given project URL and anon/service key.
func New(baseURL, apiKey string) (*Client, error) {
	if baseURL == "" || apiKey == "" {
		return nil, fmt.Errorf("supabase URL and key must be set")
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (c *Client) setAuth(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}
