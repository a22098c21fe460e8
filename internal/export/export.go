// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package export

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/guide-ingest/internal/ai"
)

// WriteWorkbook writes the extracted records to an XLSX file for manual
// review before (or instead of) the Supabase upload. One sheet per
// table.
func WriteWorkbook(path string, bandits []ai.Bandit, events []ai.Event, links []ai.BanditEvent) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeBandits(f, bandits); err != nil {
		return err
	}
	if err := writeEvents(f, events); err != nil {
		return err
	}
	if err := writeLinks(f, links); err != nil {
		return err
	}

	// Drop the default sheet so the workbook opens on Bandits
	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeBandits(f *excelize.File, bandits []ai.Bandit) error {
	const sheet = "Bandits"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	header := []interface{}{"ID", "Name", "Age", "City", "Occupation", "Rating", "Image URL", "Description", "Why Follow", "Family Name", "Icon"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, b := range bandits {
		age := ""
		if b.Age != nil {
			age = strconv.Itoa(*b.Age)
		}
		row := []interface{}{b.ID, b.Name, age, b.City, b.Occupation, b.Rating, b.ImageURL, b.Description, b.WhyFollow, b.FamilyName, b.Icon}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeEvents(f *excelize.File, events []ai.Event) error {
	const sheet = "Events"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	header := []interface{}{"ID", "Name", "Genre", "Address", "City", "Neighborhood", "Lat", "Lng", "Rating", "Link", "Description", "Image Gallery"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, e := range events {
		lat, lng := "", ""
		if e.LocationLat != nil {
			lat = strconv.FormatFloat(*e.LocationLat, 'f', -1, 64)
		}
		if e.LocationLng != nil {
			lng = strconv.FormatFloat(*e.LocationLng, 'f', -1, 64)
		}
		row := []interface{}{e.ID, e.Name, e.Genre, e.Address, e.City, e.Neighborhood, lat, lng, e.Rating, e.Link, e.Description, e.ImageGallery.Join()}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeLinks(f *excelize.File, links []ai.BanditEvent) error {
	const sheet = "BanditEvents"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	header := []interface{}{"ID", "Bandit ID", "Event ID", "Personal Tip"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, l := range links {
		row := []interface{}{l.ID, l.BanditID, l.EventID, l.PersonalTip}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
