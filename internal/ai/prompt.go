// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package ai

import (
	"fmt"
	"strings"
)

// BuildChunkPrompt renders the extraction instructions for one chunk.
// "Bandits" are the featured local people of the city guide, not
// criminals; each bandit section starts with an image placeholder and
// personal details, followed by the events they recommend. index is
// 0-based; the human-facing "part X of Y" line counts from 1 while the
// id prefix keeps the raw index.
func BuildChunkPrompt(chunk string, index, total int) string {
	return fmt.Sprintf(`Extract bandits and events from this text chunk. This is part %d of %d chunks from a larger document.

The text comes from a document whose images were replaced with placeholders in the format [IMAGE: img_001_002].

Database schema:
- bandit: id (uuid), name, age, city, occupation, rating (0-5), image_url, description, why_follow, family_name
- event: id (uuid), name, genre (exactly one of: %s), description, rating (0-5), image_url, link, address, city, neighborhood, start_time, end_time, image_gallery (comma-separated string)
- bandit_event: id (uuid), bandit_id, event_id, personal_tip

Instructions:
1. Extract ALL bandits and events from this chunk - do not limit the number
2. Each bandit section starts with a bandit image placeholder, then name, then personal details
3. Events follow, each starting with a name and ending with an address. Some events have multiple images - the first is the main image, the rest go in image_gallery
4. Use the image placeholders verbatim for image_url and image_gallery fields
5. Create unique ids for all objects (use a chunk_%d_ prefix for uniqueness)
6. Create bandit_event relationships linking bandits to their recommended events
7. Only extract information that actually exists in the text; leave fields null if they cannot be inferred
8. Do NOT try to geocode addresses - leave location_lat and location_lng null
9. Return structured JSON with "bandits", "events", and "bandit_events" arrays

Text chunk:
%s

Return only valid JSON without explanation or markdown formatting.`,
		index+1, total, strings.Join(Genres, ", "), index, chunk)
}
