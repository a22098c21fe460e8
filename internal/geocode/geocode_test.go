// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGeocode(t *testing.T) {
	var gotQuery, gotAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`[{"lat":"32.0853","lon":"34.7818"}]`))
	}))
	defer server.Close()

	client := New(server.URL, nil)
	result, err := client.Geocode(context.Background(), "Rothschild Blvd 1, Tel Aviv")
	if err != nil {
		t.Fatalf("Geocode failed: %v", err)
	}
	if result == nil {
		t.Fatal("expected a result")
	}
	if result.Lat != 32.0853 || result.Lng != 34.7818 {
		t.Errorf("unexpected coordinates: %+v", result)
	}
	if gotQuery != "Rothschild Blvd 1, Tel Aviv" {
		t.Errorf("unexpected query: %s", gotQuery)
	}
	if gotAgent == "" {
		t.Error("User-Agent header not set")
	}
}

func TestGeocode_NoResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := New(server.URL, nil)
	result, err := client.Geocode(context.Background(), "nowhere at all")
	if err != nil {
		t.Fatalf("Geocode failed: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result for unknown address, got %+v", result)
	}
}

func TestGeocode_EmptyAddress(t *testing.T) {
	client := New("http://unused.invalid", nil)
	result, err := client.Geocode(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Geocode failed: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result for empty address, got %+v", result)
	}
}

func TestGeocode_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New(server.URL, nil)
	if _, err := client.Geocode(context.Background(), "somewhere"); err == nil {
		t.Error("expected error for server failure")
	}
}

func TestCacheKey(t *testing.T) {
	a := cacheKey("Rothschild  Blvd 1,\tTel Aviv")
	b := cacheKey("rothschild blvd 1, tel aviv")
	if a != b {
		t.Errorf("cache keys should normalize whitespace and case: %q vs %q", a, b)
	}
}
