package data

// Artists are keyed by the catalog's channel id. Artist identity is shared
// across tracks, so rows are upserted (name refreshed) whenever a new track
// references them.
type Artist struct {
	// like "UCuAXFkgsw1L7xaCfnd5JJOw"
	ArtistID string `json:"id"`

	Name string `json:"name"`
}
