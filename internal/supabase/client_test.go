// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadObject(t *testing.T) {
	var gotPath, gotAuth, gotType string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := New(server.URL, "test-key")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	url, err := client.UploadObject(context.Background(), "guideassets", "pdf_images/img_001_001.jpg", []byte("fake-jpeg"), "image/jpeg")
	if err != nil {
		t.Fatalf("UploadObject failed: %v", err)
	}

	if gotPath != "/storage/v1/object/guideassets/pdf_images/img_001_001.jpg" {
		t.Errorf("unexpected upload path: %s", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected auth header: %s", gotAuth)
	}
	if gotType != "image/jpeg" {
		t.Errorf("unexpected content type: %s", gotType)
	}
	if string(gotBody) != "fake-jpeg" {
		t.Errorf("body not forwarded")
	}
	if !strings.HasSuffix(url, "/storage/v1/object/public/guideassets/pdf_images/img_001_001.jpg") {
		t.Errorf("unexpected public URL: %s", url)
	}
}

func TestUploadObject_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket not found", http.StatusNotFound)
	}))
	defer server.Close()

	client, _ := New(server.URL, "test-key")
	if _, err := client.UploadObject(context.Background(), "missing", "a.jpg", []byte("x"), "image/jpeg"); err == nil {
		t.Error("expected error for failed upload")
	}
}

func TestEnsureBucket_AlreadyExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client, _ := New(server.URL, "test-key")
	if err := client.EnsureBucket(context.Background(), "guideassets"); err != nil {
		t.Errorf("existing bucket should not be an error: %v", err)
	}
}

func TestInsert(t *testing.T) {
	var gotPath, gotPrefer string
	var gotRows []map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPrefer = r.Header.Get("Prefer")
		json.NewDecoder(r.Body).Decode(&gotRows)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client, _ := New(server.URL, "test-key")

	rows := []map[string]string{{"id": "b1", "name": "Maria"}}
	if err := client.Insert(context.Background(), "bandit", rows); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if gotPath != "/rest/v1/bandit" {
		t.Errorf("unexpected insert path: %s", gotPath)
	}
	if gotPrefer != "return=minimal" {
		t.Errorf("unexpected Prefer header: %s", gotPrefer)
	}
	if len(gotRows) != 1 || gotRows[0]["name"] != "Maria" {
		t.Errorf("rows not forwarded: %v", gotRows)
	}
}

func TestDeleteAll(t *testing.T) {
	var gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "DELETE" {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, _ := New(server.URL, "test-key")
	if err := client.DeleteAll(context.Background(), "bandit_event"); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	if !strings.Contains(gotQuery, "id=neq.00000000-0000-0000-0000-000000000000") {
		t.Errorf("truncate filter missing: %s", gotQuery)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	if _, err := New("", "key"); err == nil {
		t.Error("expected error for missing URL")
	}
	if _, err := New("https://example.supabase.co", ""); err == nil {
		t.Error("expected error for missing key")
	}
}
