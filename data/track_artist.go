package data

// A TrackArtist represents a many-to-many relationship between tracks and
// artists. Rows are written once at track creation and never updated.
type TrackArtist struct {
	TrackVideoID string
	ArtistID     string
}
