// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package ai

import (
	"encoding/json"
	"strings"
)

// Genre options for events. The model is instructed to return exactly
// one of these; anything else is dropped to empty by NormalizeGenre.
var Genres = []string{"Food", "Culture", "Nightlife", "Shopping", "Coffee"}

// NormalizeGenre maps a model-returned genre onto the fixed genre set,
// case-insensitively. Unknown genres become "".
func NormalizeGenre(genre string) string {
	g := strings.TrimSpace(genre)
	for _, known := range Genres {
		if strings.EqualFold(g, known) {
			return known
		}
	}
	return ""
}

// Bandit is one extracted person profile. Optional fields stay zero when
// the model could not infer them from the text.
type Bandit struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Age         *int   `json:"age,omitempty"`
	City        string `json:"city,omitempty"`
	Occupation  string `json:"occupation,omitempty"`
	Rating      int    `json:"rating,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Description string `json:"description,omitempty"`
	WhyFollow   string `json:"why_follow,omitempty"`
	FamilyName  string `json:"family_name,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// Event is one extracted venue or activity.
type Event struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Genre        string     `json:"genre,omitempty"`
	Description  string     `json:"description,omitempty"`
	Rating       int        `json:"rating,omitempty"`
	ImageURL     string     `json:"image_url,omitempty"`
	Link         string     `json:"link,omitempty"`
	Address      string     `json:"address,omitempty"`
	City         string     `json:"city,omitempty"`
	Neighborhood string     `json:"neighborhood,omitempty"`
	StartTime    string     `json:"start_time,omitempty"`
	EndTime      string     `json:"end_time,omitempty"`
	LocationLat  *float64   `json:"location_lat,omitempty"`
	LocationLng  *float64   `json:"location_lng,omitempty"`
	ImageGallery StringList `json:"image_gallery,omitempty"`
}

// BanditEvent links a bandit to an event they recommend.
type BanditEvent struct {
	ID          string `json:"id"`
	BanditID    string `json:"bandit_id"`
	EventID     string `json:"event_id"`
	PersonalTip string `json:"personal_tip,omitempty"`
}

// ChunkResult is the merged extraction output for one text chunk.
type ChunkResult struct {
	Bandits      []Bandit      `json:"bandits"`
	Events       []Event       `json:"events"`
	BanditEvents []BanditEvent `json:"bandit_events"`
}

// StringList accepts either a JSON array of strings or a single
// comma-separated string. Models answer with both shapes for image
// galleries depending on the prompt run.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	single = strings.TrimSpace(single)
	if single == "" {
		*s = nil
		return nil
	}
	parts := strings.Split(single, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*s = out
	return nil
}

// Join renders the gallery as the comma-separated form stored in the
// database.
func (s StringList) Join() string {
	return strings.Join(s, ", ")
}
