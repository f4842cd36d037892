package data

// A TrackTag represents a many-to-many relationship between tracks and tags.
// A track's rows are replaced wholesale on every tag update.
type TrackTag struct {
	TrackVideoID string
	TagID        int64
}

// A TagUpdate replaces the full tag set of one track. An empty TagIDs list
// leaves the track with zero tags.
type TagUpdate struct {
	VideoID string  `json:"video_id"`
	TagIDs  []int64 `json:"tag_ids"`
}
