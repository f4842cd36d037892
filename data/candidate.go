package data

// A Candidate is one catalog search hit, enriched for admin review before it
// becomes a Track. The base fields come straight from the search response;
// lyrics, the canonical album name, the release year, and canonical artist
// names are filled in by the enrichment fan-out when their fetches succeed.
type Candidate struct {
	VideoID string   `json:"video_id"`
	Name    string   `json:"track_name"`
	Artists []Artist `json:"artists"`

	AlbumID   string `json:"album_id"`
	AlbumName string `json:"album_name"`

	ReleaseYear *int64 `json:"release_year"`
	Lyrics      string `json:"lyrics,omitempty"`

	DurationSeconds int64  `json:"duration"`
	ThumbnailURL    string `json:"thumbnail"`
}

// Track converts an enriched candidate into the record CreateTracks persists.
func (c *Candidate) Track() Track {
	return Track{
		VideoID:         c.VideoID,
		Name:            c.Name,
		AlbumID:         c.AlbumID,
		AlbumName:       c.AlbumName,
		ReleaseYear:     c.ReleaseYear,
		Lyrics:          c.Lyrics,
		DurationSeconds: c.DurationSeconds,
		ThumbnailURL:    c.ThumbnailURL,
		Artists:         c.Artists,
	}
}

// AlbumDetail is the album facet of enrichment.
type AlbumDetail struct {
	AlbumID     string
	Name        string
	ReleaseYear *int64
}

// ArtistDetail is the artist facet of enrichment.
type ArtistDetail struct {
	ArtistID string
	Name     string
}
