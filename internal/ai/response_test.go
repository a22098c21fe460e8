// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package ai

import (
	"context"
	"strings"
	"testing"
)

func TestStripFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}

	for _, c := range cases {
		if got := StripFences(c.in); got != c.want {
			t.Errorf("StripFences(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseChunkResponse(t *testing.T) {
	response := "```json\n" + `{
		"bandits": [
			{"id": "chunk_1_b1", "name": "Maria", "age": 30, "city": "Haifa", "image_url": "[IMAGE: img_001_001]"}
		],
		"events": [
			{"id": "chunk_1_e1", "name": "Night Market", "genre": "food", "address": "12 Harbor St",
			 "image_url": "[IMAGE: img_001_002]", "image_gallery": "[IMAGE: img_001_003], [IMAGE: img_001_004]"}
		],
		"bandit_events": [
			{"id": "chunk_1_l1", "bandit_id": "chunk_1_b1", "event_id": "chunk_1_e1", "personal_tip": "go early"}
		]
	}` + "\n```"

	result, err := ParseChunkResponse(response)
	if err != nil {
		t.Fatalf("ParseChunkResponse failed: %v", err)
	}

	if len(result.Bandits) != 1 || len(result.Events) != 1 || len(result.BanditEvents) != 1 {
		t.Fatalf("unexpected counts: %d bandits, %d events, %d links",
			len(result.Bandits), len(result.Events), len(result.BanditEvents))
	}
	if result.Bandits[0].Name != "Maria" {
		t.Errorf("bandit name = %q", result.Bandits[0].Name)
	}
	if result.Bandits[0].Age == nil || *result.Bandits[0].Age != 30 {
		t.Errorf("bandit age not decoded: %v", result.Bandits[0].Age)
	}
	if result.Events[0].Genre != "Food" {
		t.Errorf("genre should be normalized to Food, got %q", result.Events[0].Genre)
	}
	if len(result.Events[0].ImageGallery) != 2 {
		t.Errorf("comma-separated gallery should decode to 2 entries, got %v", result.Events[0].ImageGallery)
	}
}

func TestParseChunkResponse_SingularBanditKey(t *testing.T) {
	// Older prompt runs returned "bandit" instead of "bandits".
	response := `{"bandit": [{"id": "b1", "name": "Yossi"}], "events": [], "bandit_events": []}`

	result, err := ParseChunkResponse(response)
	if err != nil {
		t.Fatalf("ParseChunkResponse failed: %v", err)
	}
	if len(result.Bandits) != 1 || result.Bandits[0].Name != "Yossi" {
		t.Errorf("singular bandit key not merged: %+v", result.Bandits)
	}
}

func TestParseChunkResponse_ProseAroundJSON(t *testing.T) {
	response := `Here is the extraction you asked for:
{"bandits": [], "events": [{"id": "e1", "name": "Old Port Walk"}], "bandit_events": []}
Let me know if you need anything else.`

	result, err := ParseChunkResponse(response)
	if err != nil {
		t.Fatalf("ParseChunkResponse failed: %v", err)
	}
	if len(result.Events) != 1 {
		t.Errorf("expected 1 event, got %d", len(result.Events))
	}
}

func TestParseChunkResponse_InvalidJSON(t *testing.T) {
	if _, err := ParseChunkResponse("not json at all"); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestStringList_ListForm(t *testing.T) {
	response := `{"events": [{"id": "e1", "name": "Walk", "image_gallery": ["[IMAGE: a]", "[IMAGE: b]"]}]}`

	result, err := ParseChunkResponse(response)
	if err != nil {
		t.Fatalf("ParseChunkResponse failed: %v", err)
	}
	gallery := result.Events[0].ImageGallery
	if len(gallery) != 2 || gallery[0] != "[IMAGE: a]" {
		t.Errorf("list-form gallery not decoded: %v", gallery)
	}
}

func TestNormalizeGenre(t *testing.T) {
	cases := map[string]string{
		"Food":        "Food",
		"food":        "Food",
		" NIGHTLIFE ": "Nightlife",
		"Sports":      "",
		"":            "",
	}
	for in, want := range cases {
		if got := NormalizeGenre(in); got != want {
			t.Errorf("NormalizeGenre(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildChunkPrompt(t *testing.T) {
	prompt := BuildChunkPrompt("some chunk text", 2, 7)

	// The 0-based chunk index renders as a 1-based part number but stays
	// raw in the id prefix.
	for _, want := range []string{"part 3 of 7", "some chunk text", "chunk_2_", "bandit_event"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	first := BuildChunkPrompt("first chunk", 0, 4)
	if !strings.Contains(first, "part 1 of 4") {
		t.Errorf("first chunk should render as part 1, got prompt without it")
	}
	if strings.Contains(first, "part 0") {
		t.Errorf("part numbering must not start at 0")
	}
}

func TestMockExtractor(t *testing.T) {
	chunk := "[IMAGE: img_001_001]\nMaria\nAge: 30\nShe bakes."

	result, err := NewMockExtractor().ExtractChunk(context.Background(), chunk, 1, 1)
	if err != nil {
		t.Fatalf("ExtractChunk failed: %v", err)
	}
	if len(result.Bandits) != 1 {
		t.Fatalf("expected 1 bandit per placeholder, got %d", len(result.Bandits))
	}
	if result.Bandits[0].ImageURL != "[IMAGE: img_001_001]" {
		t.Errorf("mock bandit should carry its placeholder, got %q", result.Bandits[0].ImageURL)
	}
	if len(result.BanditEvents) != 1 {
		t.Errorf("expected a bandit-event link, got %d", len(result.BanditEvents))
	}
}
