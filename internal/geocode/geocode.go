// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 30 * 24 * time.Hour

// Result is a resolved coordinate pair.
type Result struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geocoder resolves a street address to coordinates. A nil result with a
// nil error means the address could not be resolved; callers leave the
// coordinates null in that case.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Client is a Nominatim-style geocoding client with an optional redis
// cache in front of the HTTP API. The cache keeps re-runs of the same
// document from hammering the provider.
type Client struct {
	baseURL   string
	userAgent string
	cache     *redis.Client
	client    *http.Client
}

// New creates a geocoding client. cache may be nil to disable caching.
func New(baseURL string, cache *redis.Client) *Client {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: "guide-ingest/1.0",
		cache:     cache,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Geocode resolves an address, consulting the cache first.
func (c *Client) Geocode(ctx context.Context, address string) (*Result, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, nil
	}

	key := cacheKey(address)
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, key).Result(); err == nil {
			var r Result
			if err := json.Unmarshal([]byte(cached), &r); err == nil {
				return &r, nil
			}
		}
	}

	result, err := c.lookup(ctx, address)
	if err != nil {
		return nil, err
	}

	if result != nil && c.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := c.cache.Set(ctx, key, data, cacheTTL).Err(); err != nil {
				log.Printf("geocode: failed to cache %q: %v", address, err)
			}
		}
	}

	return result, nil
}

func (c *Client) lookup(ctx context.Context, address string) (*Result, error) {
	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "json")
	query.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("geocode API error (status %d): %s", resp.StatusCode, string(body))
	}

	var hits []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(hits) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", hits[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", hits[0].Lon, err)
	}

	return &Result{Lat: lat, Lng: lng}, nil
}

func cacheKey(address string) string {
	return "geocode:" + strings.ToLower(strings.Join(strings.Fields(address), " "))
}
