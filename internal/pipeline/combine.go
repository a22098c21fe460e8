// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package pipeline

import (
	"strings"

	"github.com/guide-ingest/internal/ai"
	"github.com/guide-ingest/internal/segment"
)

// CombineImageURLs rewrites image placeholder references in the
// extracted records to the public URLs of the uploaded images. The
// model echoes placeholders either verbatim ("[IMAGE: img_001_002]") or
// as the bare id; both forms resolve. References to images that were
// never uploaded are cleared rather than left dangling.
func CombineImageURLs(bandits []ai.Bandit, events []ai.Event, urls map[string]string) {
	for i := range bandits {
		bandits[i].ImageURL = resolveRef(bandits[i].ImageURL, urls)
		bandits[i].Icon = resolveRef(bandits[i].Icon, urls)
	}
	for i := range events {
		events[i].ImageURL = resolveRef(events[i].ImageURL, urls)

		gallery := events[i].ImageGallery[:0]
		for _, ref := range events[i].ImageGallery {
			if resolved := resolveRef(ref, urls); resolved != "" {
				gallery = append(gallery, resolved)
			}
		}
		events[i].ImageGallery = gallery
	}
}

// resolveRef maps a placeholder reference to its uploaded URL. Values
// that are not placeholders (already URLs, or prose) pass through; a
// placeholder with no uploaded image resolves to "".
func resolveRef(ref string, urls map[string]string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	if id, ok := segment.ImageID(ref); ok {
		return urls[id]
	}
	if url, ok := urls[ref]; ok {
		return url
	}
	if strings.HasPrefix(ref, "img_") {
		// A bare id that was never uploaded
		return ""
	}
	return ref
}
