package data

import "time"

// Tracks are keyed by the catalog's video id. The album reference is
// denormalized onto the track because the catalog treats albums as display
// metadata, not entities we curate.
//
// Tracks have many artists via the association table track_artists, and many
// tags via track_tags.
type Track struct {
	// like "dQw4w9WgXcQ"
	VideoID string `json:"video_id"`

	Name string `json:"track_name"`

	AlbumID   string `json:"album_id"`
	AlbumName string `json:"album_name"`

	// Parsed out of the album subtitle; absent when the catalog gives us
	// no four-digit year.
	ReleaseYear *int64 `json:"release_year"`

	Lyrics string `json:"lyrics,omitempty"`

	DurationSeconds int64  `json:"duration"`
	ThumbnailURL    string `json:"thumbnail"`

	UpdatedAt time.Time `json:"updated_at"`

	Artists []Artist `gorm:"-" json:"artists"`
	TagIDs  []int64  `gorm:"-" json:"tag_ids"`
}
