// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// The sentinel id used by the truncate trick: delete every row whose id
// is not this impossible value.
const nilUUID = "00000000-0000-0000-0000-000000000000"

// Insert posts rows into a PostgREST table. rows must marshal to a JSON
// array (a slice of row structs).
func (c *Client) Insert(ctx context.Context, table string, rows interface{}) error {
	jsonData, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal rows for %s: %w", table, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/rest/v1/"+table, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")
	c.setAuth(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("insert into %s failed (status %d): %s", table, resp.StatusCode, string(body))
	}
	return nil
}

// DeleteAll removes every row from a table (PostgREST requires a filter
// on DELETE, so we match everything not equal to the nil uuid).
func (c *Client) DeleteAll(ctx context.Context, table string) error {
	url := fmt.Sprintf("%s/rest/v1/%s?id=neq.%s", c.baseURL, table, nilUUID)

	req, err := http.NewRequestWithContext(ctx, "DELETE", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setAuth(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete from %s failed (status %d): %s", table, resp.StatusCode, string(body))
	}
	return nil
}
