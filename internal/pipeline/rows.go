// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package pipeline

import "github.com/guide-ingest/internal/ai"

// Row shapes for the destination tables. They differ from the AI types
// in one place: the database stores the image gallery as a single
// comma-separated string column.

type banditRow struct {
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

type eventRow struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Genre        string   `json:"genre,omitempty"`
	Description  string   `json:"description,omitempty"`
	Rating       int      `json:"rating,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	Link         string   `json:"link,omitempty"`
	Address      string   `json:"address,omitempty"`
	City         string   `json:"city,omitempty"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	StartTime    string   `json:"start_time,omitempty"`
	EndTime      string   `json:"end_time,omitempty"`
	LocationLat  *float64 `json:"location_lat,omitempty"`
	LocationLng  *float64 `json:"location_lng,omitempty"`
	ImageGallery string   `json:"image_gallery,omitempty"`
}

type linkRow struct {
	ID          string `json:"id"`
	BanditID    string `json:"bandit_id"`
	EventID     string `json:"event_id"`
	PersonalTip string `json:"personal_tip,omitempty"`
}

func banditRows(bandits []ai.Bandit) []banditRow {
	rows := make([]banditRow, len(bandits))
	for i, b := range bandits {
		rows[i] = banditRow{
			ID:          b.ID,
			Name:        b.Name,
			Age:         b.Age,
			City:        b.City,
			Occupation:  b.Occupation,
			Rating:      b.Rating,
			ImageURL:    b.ImageURL,
			Description: b.Description,
			WhyFollow:   b.WhyFollow,
			FamilyName:  b.FamilyName,
			Icon:        b.Icon,
		}
	}
	return rows
}

func eventRows(events []ai.Event) []eventRow {
	rows := make([]eventRow, len(events))
	for i, e := range events {
		rows[i] = eventRow{
			ID:           e.ID,
			Name:         e.Name,
			Genre:        e.Genre,
			Description:  e.Description,
			Rating:       e.Rating,
			ImageURL:     e.ImageURL,
			Link:         e.Link,
			Address:      e.Address,
			City:         e.City,
			Neighborhood: e.Neighborhood,
			StartTime:    e.StartTime,
			EndTime:      e.EndTime,
			LocationLat:  e.LocationLat,
			LocationLng:  e.LocationLng,
			ImageGallery: e.ImageGallery.Join(),
		}
	}
	return rows
}

func linkRows(links []ai.BanditEvent) []linkRow {
	rows := make([]linkRow, len(links))
	for i, l := range links {
		rows[i] = linkRow{
			ID:          l.ID,
			BanditID:    l.BanditID,
			EventID:     l.EventID,
			PersonalTip: l.PersonalTip,
		}
	}
	return rows
}
